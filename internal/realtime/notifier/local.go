package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/realtime/event"
)

// LocalNotifier is the single-process backplane: publishing is a no-op and
// the watch channel never delivers. It keeps the hub wiring uniform when no
// shared pub/sub is deployed.
type LocalNotifier struct {
	logger *zap.Logger
	ch     chan *event.Envelope
}

var _ Notifier = (*LocalNotifier)(nil)

// NewLocalNotifier creates a new in-process notifier
func NewLocalNotifier(logger *zap.Logger) *LocalNotifier {
	return &LocalNotifier{
		logger: logger.Named("notifier.local"),
		ch:     make(chan *event.Envelope),
	}
}

// Watch implements Notifier.Watch
func (l *LocalNotifier) Watch(ctx context.Context) (<-chan *event.Envelope, error) {
	return l.ch, nil
}

// NotifyEmit implements Notifier.NotifyEmit
func (l *LocalNotifier) NotifyEmit(_ context.Context, env *event.Envelope) error {
	l.logger.Debug("local notifier dropping emission", zap.String("event", env.Event))
	return nil
}

// CanReceive implements Notifier.CanReceive
func (l *LocalNotifier) CanReceive() bool { return true }

// CanSend implements Notifier.CanSend
func (l *LocalNotifier) CanSend() bool { return true }

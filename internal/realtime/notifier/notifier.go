package notifier

import (
	"context"

	"github.com/campolink/campolink/internal/realtime/event"
)

// Notifier is the cross-process fan-out extension point. A hub publishes
// every local emission through NotifyEmit and fans out envelopes observed on
// Watch to its own connections, so clients attached to different processes
// see the same events. Delivery stays best-effort end to end.
type Notifier interface {
	// Watch returns a channel that receives envelopes emitted by other processes
	Watch(ctx context.Context) (<-chan *event.Envelope, error)

	// NotifyEmit publishes an envelope to the other processes
	NotifyEmit(ctx context.Context, env *event.Envelope) error

	// CanReceive returns true if the notifier can receive emissions
	CanReceive() bool

	// CanSend returns true if the notifier can publish emissions
	CanSend() bool
}

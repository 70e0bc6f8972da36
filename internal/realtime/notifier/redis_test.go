package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/cnst"
	"github.com/campolink/campolink/internal/common/config"
	"github.com/campolink/campolink/internal/realtime/event"
)

func newTestRedisNotifier(t *testing.T, mr *miniredis.Miniredis, role config.NotifierRole) *RedisNotifier {
	t.Helper()
	n, err := NewRedisNotifier(zap.NewNop(), config.RedisConfig{
		ClusterType: cnst.RedisClusterTypeSingle,
		Addr:        mr.Addr(),
		Topic:       "campolink:events",
	}, role)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	return n
}

func TestRedisNotifier_Roles(t *testing.T) {
	recv := &RedisNotifier{role: config.RoleReceiver}
	assert.True(t, recv.CanReceive())
	assert.False(t, recv.CanSend())

	send := &RedisNotifier{role: config.RoleSender}
	assert.False(t, send.CanReceive())
	assert.True(t, send.CanSend())

	both := &RedisNotifier{role: config.RoleBoth}
	assert.True(t, both.CanReceive())
	assert.True(t, both.CanSend())
}

func TestRedisNotifier_RoleErrors(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	send := newTestRedisNotifier(t, mr, config.RoleSender)
	_, err = send.Watch(context.Background())
	assert.ErrorIs(t, err, cnst.ErrNotReceiver)

	recv := newTestRedisNotifier(t, mr, config.RoleReceiver)
	err = recv.NotifyEmit(context.Background(), &event.Envelope{Event: event.LoteLiberado})
	assert.ErrorIs(t, err, cnst.ErrNotSender)
}

func TestRedisNotifier_WatchAndNotify(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	recv := newTestRedisNotifier(t, mr, config.RoleReceiver)
	send := newTestRedisNotifier(t, mr, config.RoleSender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := recv.Watch(ctx)
	assert.NoError(t, err)

	// Give the subscriber a moment to be registered
	time.Sleep(50 * time.Millisecond)

	payload, _ := json.Marshal(event.LoteLibre{LoteID: 42, LoteNombre: "Lote A", Timestamp: event.Now()})
	assert.NoError(t, send.NotifyEmit(context.Background(), &event.Envelope{
		Event: event.LoteLiberado,
		Data:  payload,
	}))

	select {
	case env := <-ch:
		if assert.NotNil(t, env) {
			assert.Equal(t, event.LoteLiberado, env.Event)
			got, err := event.Decode(env.Event, env.Data)
			assert.NoError(t, err)
			assert.Equal(t, int64(42), got.(event.LoteLibre).LoteID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for backplane envelope")
	}
}

func TestNewNotifierFactory(t *testing.T) {
	n, err := NewNotifier(zap.NewNop(), &config.NotifierConfig{Type: "local"})
	assert.NoError(t, err)
	assert.IsType(t, &LocalNotifier{}, n)

	n, err = NewNotifier(zap.NewNop(), &config.NotifierConfig{})
	assert.NoError(t, err)
	assert.IsType(t, &LocalNotifier{}, n)

	_, err = NewNotifier(zap.NewNop(), &config.NotifierConfig{Type: "nats"})
	assert.Error(t, err)
}

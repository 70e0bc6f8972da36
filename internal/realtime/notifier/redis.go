package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/cnst"
	"github.com/campolink/campolink/internal/common/config"
	"github.com/campolink/campolink/internal/realtime/event"
	"github.com/campolink/campolink/pkg/utils"
)

// RedisNotifier implements Notifier using Redis pub/sub. Events are
// transient facts, so pub/sub matches the delivery contract: a process that
// is down simply misses the message, nothing is replayed.
type RedisNotifier struct {
	logger *zap.Logger
	client redis.UniversalClient
	topic  string
	role   config.NotifierRole
}

var _ Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a new Redis-based notifier
func NewRedisNotifier(logger *zap.Logger, cfg config.RedisConfig, role config.NotifierRole) (*RedisNotifier, error) {
	addrs := utils.SplitByMultipleDelimiters(cfg.Addr, ";", ",")
	redisOptions := &redis.UniversalOptions{
		Addrs:    addrs,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.ClusterType == cnst.RedisClusterTypeSentinel {
		redisOptions.MasterName = cfg.MasterName
	}
	if cfg.ClusterType != cnst.RedisClusterTypeCluster {
		// can not set db in cluster mode
		redisOptions.DB = cfg.DB
	}
	client := redis.NewUniversalClient(redisOptions)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisNotifier{
		logger: logger.Named("notifier.redis"),
		client: client,
		topic:  cfg.Topic,
		role:   role,
	}, nil
}

// Watch implements Notifier.Watch
func (r *RedisNotifier) Watch(ctx context.Context) (<-chan *event.Envelope, error) {
	if !r.CanReceive() {
		return nil, cnst.ErrNotReceiver
	}

	pubsub := r.client.Subscribe(ctx, r.topic)
	ch := make(chan *event.Envelope, 16)

	go func() {
		defer close(ch)
		defer func() {
			if err := pubsub.Close(); err != nil {
				r.logger.Warn("failed to close pubsub", zap.Error(err))
			}
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var env event.Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.logger.Error("failed to unmarshal backplane envelope",
						zap.String("payload", msg.Payload),
						zap.Error(err))
					continue
				}
				select {
				case ch <- &env:
				case <-ctx.Done():
					return
				default:
					// A slow hub loses the message; same guarantee as a slow client.
					r.logger.Warn("backplane watch channel full, dropping envelope",
						zap.String("event", env.Event))
				}
			}
		}
	}()

	return ch, nil
}

// NotifyEmit implements Notifier.NotifyEmit
func (r *RedisNotifier) NotifyEmit(ctx context.Context, env *event.Envelope) error {
	if !r.CanSend() {
		return cnst.ErrNotSender
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if err := r.client.Publish(ctx, r.topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish envelope: %w", err)
	}
	return nil
}

// CanReceive returns true if the notifier can receive emissions
func (r *RedisNotifier) CanReceive() bool {
	return r.role == config.RoleReceiver || r.role == config.RoleBoth
}

// CanSend returns true if the notifier can publish emissions
func (r *RedisNotifier) CanSend() bool {
	return r.role == config.RoleSender || r.role == config.RoleBoth
}

// Close closes the underlying Redis client
func (r *RedisNotifier) Close() error {
	return r.client.Close()
}

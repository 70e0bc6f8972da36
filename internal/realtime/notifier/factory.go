package notifier

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/config"
)

// Type represents the type of notifier
type Type string

const (
	// TypeLocal represents the in-process notifier
	TypeLocal Type = "local"
	// TypeRedis represents the Redis pub/sub notifier
	TypeRedis Type = "redis"
)

// NewNotifier creates a notifier based on configuration
func NewNotifier(logger *zap.Logger, cfg *config.NotifierConfig) (Notifier, error) {
	role := config.NotifierRole(cfg.Role)
	if role == "" {
		role = config.RoleBoth
	}

	logger.Info("Initializing notifier",
		zap.String("type", cfg.Type),
		zap.String("role", string(role)))

	switch Type(cfg.Type) {
	case TypeLocal, "":
		return NewLocalNotifier(logger), nil
	case TypeRedis:
		return NewRedisNotifier(logger, cfg.Redis, role)
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", cfg.Type)
	}
}

package database

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/common/config"
)

// NewDatabase creates a new database based on configuration
func NewDatabase(logger *zap.Logger, cfg *config.DatabaseConfig) (Database, error) {
	switch cfg.Type {
	case "postgres":
		return NewDB(logger, PostgreSQL, cfg.GetDSN())
	case "mysql":
		return NewDB(logger, MySQL, cfg.GetDSN())
	case "sqlite":
		return NewDB(logger, SQLite, cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

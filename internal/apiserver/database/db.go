package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrInvalidDatabaseType indicates an unsupported database type
var ErrInvalidDatabaseType = errors.New("invalid database type")

// DB implements the Database interface over GORM
type DB struct {
	logger *zap.Logger
	db     *gorm.DB
}

var _ Database = (*DB)(nil)

// DatabaseType represents the supported database types
type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
	MySQL      DatabaseType = "mysql"
	SQLite     DatabaseType = "sqlite"
)

// NewDB creates a new GORM-backed database
func NewDB(logger *zap.Logger, dbType DatabaseType, dsn string) (*DB, error) {
	logger = logger.Named("apiserver.db")

	var dialector gorm.Dialector
	switch dbType {
	case PostgreSQL:
		dialector = postgres.Open(dsn)
	case MySQL:
		dialector = mysql.Open(dsn)
	case SQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDatabaseType, dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Lote{}, &Cultivo{}, &Sublote{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{logger: logger, db: db}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) GetLote(ctx context.Context, id int64) (*Lote, error) {
	var lote Lote
	if err := d.db.WithContext(ctx).First(&lote, id).Error; err != nil {
		return nil, err
	}
	return &lote, nil
}

func (d *DB) ListLotes(ctx context.Context) ([]*Lote, error) {
	var lotes []*Lote
	if err := d.db.WithContext(ctx).Order("id").Find(&lotes).Error; err != nil {
		return nil, err
	}
	return lotes, nil
}

func (d *DB) CreateLote(ctx context.Context, lote *Lote) error {
	return d.db.WithContext(ctx).Create(lote).Error
}

func (d *DB) UpdateLoteEstado(ctx context.Context, id int64, estado string) (*Lote, error) {
	var lote Lote
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lote, id).Error; err != nil {
			return err
		}
		lote.Estado = estado
		return tx.Model(&lote).Update("estado", estado).Error
	})
	if err != nil {
		return nil, err
	}
	return &lote, nil
}

func (d *DB) LiberarLote(ctx context.Context, id int64) (*Lote, error) {
	return d.UpdateLoteEstado(ctx, id, EstadoLibre)
}

func (d *DB) GetCultivo(ctx context.Context, id int64) (*Cultivo, error) {
	var cultivo Cultivo
	if err := d.db.WithContext(ctx).First(&cultivo, id).Error; err != nil {
		return nil, err
	}
	return &cultivo, nil
}

func (d *DB) ListCultivos(ctx context.Context) ([]*Cultivo, error) {
	var cultivos []*Cultivo
	if err := d.db.WithContext(ctx).Order("id").Find(&cultivos).Error; err != nil {
		return nil, err
	}
	return cultivos, nil
}

func (d *DB) CreateCultivo(ctx context.Context, cultivo *Cultivo) error {
	return d.db.WithContext(ctx).Create(cultivo).Error
}

func (d *DB) UpdateCultivoEstado(ctx context.Context, id int64, estado string) (*Cultivo, error) {
	var cultivo Cultivo
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cultivo, id).Error; err != nil {
			return err
		}
		cultivo.Estado = estado
		return tx.Model(&cultivo).Update("estado", estado).Error
	})
	if err != nil {
		return nil, err
	}
	return &cultivo, nil
}

func (d *DB) GetSublote(ctx context.Context, id int64) (*Sublote, error) {
	var sublote Sublote
	if err := d.db.WithContext(ctx).First(&sublote, id).Error; err != nil {
		return nil, err
	}
	return &sublote, nil
}

func (d *DB) ListSublotes(ctx context.Context) ([]*Sublote, error) {
	var sublotes []*Sublote
	if err := d.db.WithContext(ctx).Order("id").Find(&sublotes).Error; err != nil {
		return nil, err
	}
	return sublotes, nil
}

func (d *DB) CreateSublote(ctx context.Context, sublote *Sublote) error {
	return d.db.WithContext(ctx).Create(sublote).Error
}

func (d *DB) UpdateSubloteEstado(ctx context.Context, id int64, estado string) (*Sublote, error) {
	var sublote Sublote
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sublote, id).Error; err != nil {
			return err
		}
		sublote.Estado = estado
		return tx.Model(&sublote).Update("estado", estado).Error
	})
	if err != nil {
		return nil, err
	}
	return &sublote, nil
}

func (d *DB) LiberarSublote(ctx context.Context, id int64) (*Sublote, error) {
	return d.UpdateSubloteEstado(ctx, id, EstadoLibre)
}

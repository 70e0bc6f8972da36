package database

import (
	"context"
)

// Database defines the methods for persistence of agricultural entities.
type Database interface {
	// Close closes the database connection.
	Close() error

	// GetLote gets a lote by id.
	GetLote(ctx context.Context, id int64) (*Lote, error)

	// ListLotes gets all lotes.
	ListLotes(ctx context.Context) ([]*Lote, error)

	// CreateLote creates a new lote.
	CreateLote(ctx context.Context, lote *Lote) error

	// UpdateLoteEstado sets a lote's estado and returns the updated lote.
	UpdateLoteEstado(ctx context.Context, id int64, estado string) (*Lote, error)

	// LiberarLote releases a lote, setting its estado to libre.
	LiberarLote(ctx context.Context, id int64) (*Lote, error)

	// GetCultivo gets a cultivo by id.
	GetCultivo(ctx context.Context, id int64) (*Cultivo, error)

	// ListCultivos gets all cultivos.
	ListCultivos(ctx context.Context) ([]*Cultivo, error)

	// CreateCultivo creates a new cultivo.
	CreateCultivo(ctx context.Context, cultivo *Cultivo) error

	// UpdateCultivoEstado sets a cultivo's estado and returns the updated cultivo.
	UpdateCultivoEstado(ctx context.Context, id int64, estado string) (*Cultivo, error)

	// GetSublote gets a sublote by id.
	GetSublote(ctx context.Context, id int64) (*Sublote, error)

	// ListSublotes gets all sublotes.
	ListSublotes(ctx context.Context) ([]*Sublote, error)

	// CreateSublote creates a new sublote.
	CreateSublote(ctx context.Context, sublote *Sublote) error

	// UpdateSubloteEstado sets a sublote's estado and returns the updated sublote.
	UpdateSubloteEstado(ctx context.Context, id int64, estado string) (*Sublote, error)

	// LiberarSublote releases a sublote, setting its estado to libre.
	LiberarSublote(ctx context.Context, id int64) (*Sublote, error)
}

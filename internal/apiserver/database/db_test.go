package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campolink/campolink/internal/common/config"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(zap.NewNop(), SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDBRejectsUnknownType(t *testing.T) {
	_, err := NewDB(zap.NewNop(), DatabaseType("oracle"), "dsn")
	assert.ErrorIs(t, err, ErrInvalidDatabaseType)
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	_, err := NewDatabase(zap.NewNop(), &config.DatabaseConfig{Type: "mongodb"})
	assert.Error(t, err)
}

func TestLoteLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	lote := &Lote{Nombre: "Lote Norte", Estado: "en-preparacion"}
	require.NoError(t, db.CreateLote(ctx, lote))
	require.NotZero(t, lote.ID)

	got, err := db.GetLote(ctx, lote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lote Norte", got.Nombre)
	assert.Equal(t, "en-preparacion", got.Estado)

	updated, err := db.UpdateLoteEstado(ctx, lote.ID, "sembrado")
	require.NoError(t, err)
	assert.Equal(t, "sembrado", updated.Estado)
	assert.Equal(t, "Lote Norte", updated.Nombre)

	released, err := db.LiberarLote(ctx, lote.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoLibre, released.Estado)

	lotes, err := db.ListLotes(ctx)
	require.NoError(t, err)
	assert.Len(t, lotes, 1)
}

func TestUpdateMissingLote(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpdateLoteEstado(context.Background(), 999, "sembrado")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCultivoEstado(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	lote := &Lote{Nombre: "Lote Sur", Estado: "ocupado"}
	require.NoError(t, db.CreateLote(ctx, lote))

	cultivo := &Cultivo{LoteID: lote.ID, Nombre: "Maiz", Estado: "sembrado"}
	require.NoError(t, db.CreateCultivo(ctx, cultivo))

	updated, err := db.UpdateCultivoEstado(ctx, cultivo.ID, "cosechado")
	require.NoError(t, err)
	assert.Equal(t, "cosechado", updated.Estado)

	cultivos, err := db.ListCultivos(ctx)
	require.NoError(t, err)
	require.Len(t, cultivos, 1)
	assert.Equal(t, lote.ID, cultivos[0].LoteID)
}

func TestSubloteLiberar(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	lote := &Lote{Nombre: "Lote Este", Estado: "ocupado"}
	require.NoError(t, db.CreateLote(ctx, lote))

	sublote := &Sublote{LoteID: lote.ID, Nombre: "Sublote 1A", Estado: "ocupado"}
	require.NoError(t, db.CreateSublote(ctx, sublote))

	released, err := db.LiberarSublote(ctx, sublote.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoLibre, released.Estado)

	got, err := db.GetSublote(ctx, sublote.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoLibre, got.Estado)
}

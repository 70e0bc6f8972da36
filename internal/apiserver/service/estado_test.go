package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campolink/campolink/internal/apiserver/database"
	"github.com/campolink/campolink/internal/realtime/event"
)

type recordingEmitter struct {
	payloads []event.Payload
}

func (r *recordingEmitter) Emit(_ context.Context, p event.Payload) {
	r.payloads = append(r.payloads, p)
}

func newTestService(t *testing.T) (*EstadoService, database.Database, *recordingEmitter) {
	t.Helper()
	db, err := database.NewDB(zap.NewNop(), database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	emitter := &recordingEmitter{}
	return NewEstadoService(zap.NewNop(), db, emitter), db, emitter
}

func TestUpdateLoteEstadoEmitsEvent(t *testing.T) {
	svc, db, emitter := newTestService(t)
	ctx := context.Background()

	lote := &database.Lote{Nombre: "Lote Norte", Estado: "en-preparacion"}
	require.NoError(t, db.CreateLote(ctx, lote))

	updated, err := svc.UpdateLoteEstado(ctx, lote.ID, "sembrado")
	require.NoError(t, err)
	assert.Equal(t, "sembrado", updated.Estado)

	require.Len(t, emitter.payloads, 1)
	p := emitter.payloads[0].(event.LoteEstado)
	assert.Equal(t, lote.ID, p.LoteID)
	assert.Equal(t, "sembrado", p.NuevoEstado)
	assert.Equal(t, "Lote Norte", p.LoteNombre)
	assert.NotEmpty(t, p.Timestamp)
}

func TestLiberarLoteEmitsLoteLiberado(t *testing.T) {
	svc, db, emitter := newTestService(t)
	ctx := context.Background()

	lote := &database.Lote{Nombre: "Lote A", Estado: "ocupado"}
	require.NoError(t, db.CreateLote(ctx, lote))

	released, err := svc.LiberarLote(ctx, lote.ID)
	require.NoError(t, err)
	assert.Equal(t, database.EstadoLibre, released.Estado)

	require.Len(t, emitter.payloads, 1)
	p := emitter.payloads[0].(event.LoteLibre)
	assert.Equal(t, lote.ID, p.LoteID)
	assert.Equal(t, "Lote A", p.LoteNombre)
}

func TestFailedMutationEmitsNothing(t *testing.T) {
	svc, _, emitter := newTestService(t)

	_, err := svc.UpdateLoteEstado(context.Background(), 404, "sembrado")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, emitter.payloads)
}

func TestCultivoAndSubloteEvents(t *testing.T) {
	svc, db, emitter := newTestService(t)
	ctx := context.Background()

	lote := &database.Lote{Nombre: "Lote B", Estado: "ocupado"}
	require.NoError(t, db.CreateLote(ctx, lote))
	cultivo := &database.Cultivo{LoteID: lote.ID, Nombre: "Trigo", Estado: "sembrado"}
	require.NoError(t, db.CreateCultivo(ctx, cultivo))
	sublote := &database.Sublote{LoteID: lote.ID, Nombre: "Sublote 2B", Estado: "ocupado"}
	require.NoError(t, db.CreateSublote(ctx, sublote))

	_, err := svc.UpdateCultivoEstado(ctx, cultivo.ID, "creciendo")
	require.NoError(t, err)
	_, err = svc.UpdateSubloteEstado(ctx, sublote.ID, "regado")
	require.NoError(t, err)
	_, err = svc.LiberarSublote(ctx, sublote.ID)
	require.NoError(t, err)

	require.Len(t, emitter.payloads, 3)
	assert.Equal(t, event.CultivoEstadoActualizado, emitter.payloads[0].EventName())
	assert.Equal(t, event.SubloteEstadoActualizado, emitter.payloads[1].EventName())
	assert.Equal(t, event.SubloteLiberado, emitter.payloads[2].EventName())
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/apiserver/database"
	"github.com/campolink/campolink/internal/realtime/event"
)

// Emitter broadcasts an event to every live connection. Implementations
// never fail from the caller's point of view.
type Emitter interface {
	Emit(ctx context.Context, p event.Payload)
}

// EstadoService applies state changes to agricultural entities and
// broadcasts the matching event after the mutation has committed. The
// broadcast is fire-and-forget: it can never fail the business operation.
type EstadoService struct {
	logger  *zap.Logger
	db      database.Database
	emitter Emitter
}

// NewEstadoService creates a new estado service
func NewEstadoService(logger *zap.Logger, db database.Database, emitter Emitter) *EstadoService {
	return &EstadoService{
		logger:  logger.Named("apiserver.estado"),
		db:      db,
		emitter: emitter,
	}
}

// UpdateLoteEstado changes a lote's estado and broadcasts the update
func (s *EstadoService) UpdateLoteEstado(ctx context.Context, id int64, estado string) (*database.Lote, error) {
	lote, err := s.db.UpdateLoteEstado(ctx, id, estado)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lote estado updated",
		zap.Int64("lote_id", id),
		zap.String("estado", estado))
	s.emitter.Emit(ctx, event.LoteEstado{
		LoteID:      lote.ID,
		NuevoEstado: lote.Estado,
		LoteNombre:  lote.Nombre,
		Timestamp:   event.Now(),
	})
	return lote, nil
}

// LiberarLote releases a lote and broadcasts the release
func (s *EstadoService) LiberarLote(ctx context.Context, id int64) (*database.Lote, error) {
	lote, err := s.db.LiberarLote(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lote liberado", zap.Int64("lote_id", id))
	s.emitter.Emit(ctx, event.LoteLibre{
		LoteID:     lote.ID,
		LoteNombre: lote.Nombre,
		Timestamp:  event.Now(),
	})
	return lote, nil
}

// UpdateCultivoEstado changes a cultivo's estado and broadcasts the update
func (s *EstadoService) UpdateCultivoEstado(ctx context.Context, id int64, estado string) (*database.Cultivo, error) {
	cultivo, err := s.db.UpdateCultivoEstado(ctx, id, estado)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cultivo estado updated",
		zap.Int64("cultivo_id", id),
		zap.String("estado", estado))
	s.emitter.Emit(ctx, event.CultivoEstado{
		CultivoID:     cultivo.ID,
		NuevoEstado:   cultivo.Estado,
		CultivoNombre: cultivo.Nombre,
		Timestamp:     event.Now(),
	})
	return cultivo, nil
}

// UpdateSubloteEstado changes a sublote's estado and broadcasts the update
func (s *EstadoService) UpdateSubloteEstado(ctx context.Context, id int64, estado string) (*database.Sublote, error) {
	sublote, err := s.db.UpdateSubloteEstado(ctx, id, estado)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sublote estado updated",
		zap.Int64("sublote_id", id),
		zap.String("estado", estado))
	s.emitter.Emit(ctx, event.SubloteEstado{
		SubloteID:     sublote.ID,
		NuevoEstado:   sublote.Estado,
		SubloteNombre: sublote.Nombre,
		Timestamp:     event.Now(),
	})
	return sublote, nil
}

// LiberarSublote releases a sublote and broadcasts the release
func (s *EstadoService) LiberarSublote(ctx context.Context, id int64) (*database.Sublote, error) {
	sublote, err := s.db.LiberarSublote(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sublote liberado", zap.Int64("sublote_id", id))
	s.emitter.Emit(ctx, event.SubloteLibre{
		SubloteID:     sublote.ID,
		SubloteNombre: sublote.Nombre,
		Timestamp:     event.Now(),
	})
	return sublote, nil
}

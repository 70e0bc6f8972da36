package handler

import (
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/apiserver/service"
)

// ConnectionCounter reports how many realtime connections are live
type ConnectionCounter interface {
	ConnectionCount() int
}

// Handler holds the HTTP handlers of the apiserver
type Handler struct {
	logger   *zap.Logger
	estado   *service.EstadoService
	realtime ConnectionCounter
}

// NewHandler creates a new handler
func NewHandler(logger *zap.Logger, estado *service.EstadoService, realtime ConnectionCounter) *Handler {
	return &Handler{
		logger:   logger.Named("apiserver.handler"),
		estado:   estado,
		realtime: realtime,
	}
}

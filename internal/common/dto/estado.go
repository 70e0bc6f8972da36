package dto

// UpdateEstadoRequest is the body of the estado-mutation endpoints
type UpdateEstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

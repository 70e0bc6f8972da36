package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campolink/campolink/internal/common/dto"
)

// UpdateLoteEstado handles PUT /api/lotes/:id/estado
func (h *Handler) UpdateLoteEstado(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var req dto.UpdateEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lote, err := h.estado.UpdateLoteEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, lote)
}

// LiberarLote handles POST /api/lotes/:id/liberar
func (h *Handler) LiberarLote(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	lote, err := h.estado.LiberarLote(c.Request.Context(), id)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, lote)
}

// UpdateCultivoEstado handles PUT /api/cultivos/:id/estado
func (h *Handler) UpdateCultivoEstado(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var req dto.UpdateEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cultivo, err := h.estado.UpdateCultivoEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, cultivo)
}

// UpdateSubloteEstado handles PUT /api/sublotes/:id/estado
func (h *Handler) UpdateSubloteEstado(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var req dto.UpdateEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sublote, err := h.estado.UpdateSubloteEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, sublote)
}

// LiberarSublote handles POST /api/sublotes/:id/liberar
func (h *Handler) LiberarSublote(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	sublote, err := h.estado.LiberarSublote(c.Request.Context(), id)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, sublote)
}

func entityID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeMutationError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

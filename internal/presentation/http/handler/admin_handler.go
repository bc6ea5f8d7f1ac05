package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/infrastructure/mirror"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// AdminHandler exposes the durable write queue to operators
type AdminHandler struct {
	mirror *mirror.Mirror
}

// NewAdminHandler creates a new admin handler. m is nil when running
// without a database.
func NewAdminHandler(m *mirror.Mirror) *AdminHandler {
	return &AdminHandler{mirror: m}
}

// MirrorStatus handles reporting pending writes and dead letters
func (h *AdminHandler) MirrorStatus(c *gin.Context) {
	if h.mirror == nil {
		response.OK(c, "Running without durable storage", mirror.Status{DeadLetters: []mirror.DeadLetter{}})
		return
	}
	response.OK(c, "Mirror status retrieved successfully", h.mirror.Status())
}

// Requeue handles releasing the parked dead letter for another round of attempts
func (h *AdminHandler) Requeue(c *gin.Context) {
	if h.mirror == nil {
		response.ErrorWithCode(c, http.StatusConflict, "Running without durable storage")
		return
	}
	n := h.mirror.Requeue()
	response.OK(c, "Dead letter requeued", gin.H{"requeued": n})
}

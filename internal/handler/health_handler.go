package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	db      *sqlx.DB
	started time.Time
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}, nil)
}

// Ready godoc
// @Summary Readiness probe, pings the database
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		response.Error(c, appErrors.Wrap(err, "NOT_READY", http.StatusServiceUnavailable, "database unreachable"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ready"}, nil)
}

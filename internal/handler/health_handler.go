package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rates-api-go/internal/hierarchy"
)

// Pinger checks the database connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness of the service and its database
type HealthHandler struct {
	db        Pinger
	hierarchy *hierarchy.Cache
}

func NewHealthHandler(db Pinger, hierarchy *hierarchy.Cache) *HealthHandler {
	return &HealthHandler{db: db, hierarchy: hierarchy}
}

// GetHealth handles GET /health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "database": "ok"}
	if s := h.hierarchy.Current(); s != nil {
		body["hierarchy"] = s.Stats()
	}

	if err := h.db.Ping(ctx); err != nil {
		body["status"] = "unavailable"
		body["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

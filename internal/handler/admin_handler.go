package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rates-api-go/internal/auth"
	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/middleware"
	"rates-api-go/pkg/logger"
)

// AdminHandler serves operational endpoints behind admin auth
type AdminHandler struct {
	hierarchy *hierarchy.Cache
	log       *logger.Logger
}

func NewAdminHandler(hierarchy *hierarchy.Cache, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		hierarchy: hierarchy,
		log:       log.With("handler", "AdminHandler"),
	}
}

// RefreshHierarchy handles POST /api/admin/hierarchy/refresh
func (h *AdminHandler) RefreshHierarchy(c *gin.Context) {
	subject := ""
	if claims, ok := c.Get(middleware.ClaimsKey); ok {
		subject = claims.(*auth.Claims).Subject
	}

	snapshot, err := h.hierarchy.Refresh(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		h.log.Error("Manual hierarchy refresh failed", "requested_by", subject, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh region hierarchy"})
		return
	}

	h.log.Info("Hierarchy refreshed manually", "requested_by", subject, "version", snapshot.Version())
	c.JSON(http.StatusOK, snapshot.Stats())
}

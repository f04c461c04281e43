package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/rates"
	"rates-api-go/pkg/logger"
	"rates-api-go/pkg/model"
)

// LocationHandler exposes identifier resolution
type LocationHandler struct {
	rateService *rates.Service
	log         *logger.Logger
}

func NewLocationHandler(rateService *rates.Service, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		rateService: rateService,
		log:         log.With("handler", "LocationHandler"),
	}
}

// GetLocation handles GET /api/locations/:identifier
func (h *LocationHandler) GetLocation(c *gin.Context) {
	identifier := c.Param("identifier")

	match, err := h.rateService.ResolveLocation(c.Request.Context(), identifier)
	if hierarchy.IsUnresolved(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find port/region: " + identifier})
		return
	}
	if err != nil {
		_ = c.Error(err)
		h.log.Error("Error resolving location", "identifier", identifier, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve location"})
		return
	}

	c.JSON(http.StatusOK, model.LocationResponse{
		Identifier: match.Identifier,
		Kind:       string(match.Kind),
		Ports:      match.Ports,
	})
}

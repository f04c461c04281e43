package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/middleware"
	"rates-api-go/internal/rates"
	"rates-api-go/pkg/logger"
	"rates-api-go/pkg/model"
)

// RatesHandler handles rate queries
type RatesHandler struct {
	rateService *rates.Service
	log         *logger.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(rateService *rates.Service, log *logger.Logger) *RatesHandler {
	RegisterValidators()
	return &RatesHandler{
		rateService: rateService,
		log:         log.With("handler", "RatesHandler"),
	}
}

// GetRates handles GET /rates
func (h *RatesHandler) GetRates(c *gin.Context) {
	var req model.RatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": bindingMessage(err)})
		return
	}

	query, err := req.Query()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid date"})
		return
	}

	result, err := h.rateService.GetAverageRates(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RatesHandler) respondError(c *gin.Context, err error) {
	var invalid *rates.InvalidRangeError
	var unresolved *hierarchy.UnresolvedError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalid.Reason})
	case errors.As(err, &unresolved):
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find port/region: " + unresolved.Identifier})
	default:
		_ = c.Error(err)
		h.log.Error("Error fetching rates", "request_id", c.GetString(middleware.RequestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rates"})
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"size-fit/internal/domain"
	"size-fit/internal/service"
)

// FittingHandler expone el motor sin estado: estimar medidas y recomendar talla.
type FittingHandler struct {
	logger  *zap.Logger
	fitting *service.FittingService
}

// NewFittingHandler crea una instancia de FittingHandler con dependencias necesarias.
func NewFittingHandler(logger *zap.Logger, fitting *service.FittingService) *FittingHandler {
	return &FittingHandler{
		logger:  logger,
		fitting: fitting,
	}
}

// Estimate maneja POST /fitting/estimate.
func (h *FittingHandler) Estimate(c *gin.Context) {
	var req domain.UserBodyProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid estimate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	measurements, err := h.fitting.Estimate(req)
	if err != nil {
		writeServiceError(c, h.logger, err, "estimate measurements")
		return
	}

	c.JSON(http.StatusOK, measurements)
}

// Recommend maneja POST /fitting/recommend.
func (h *FittingHandler) Recommend(c *gin.Context) {
	var req struct {
		EstimatedMeasurements *domain.EstimatedMeasurements `json:"estimated_measurements" binding:"required"`
		SizeVariants          []domain.SizeVariant          `json:"size_variants"`
		StandardMeasurement   *domain.StandardMeasurement   `json:"standard_measurement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommend request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rec, err := h.fitting.Recommend(*req.EstimatedMeasurements, req.SizeVariants, req.StandardMeasurement)
	if err != nil {
		writeServiceError(c, h.logger, err, "recommend size")
		return
	}

	c.JSON(http.StatusOK, rec)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"size-fit/internal/domain"
	"size-fit/internal/service"
)

// CatalogHandler mantiene dependencias para tablas de tallas por producto.
type CatalogHandler struct {
	logger  *zap.Logger
	fitting *service.FittingService
}

// NewCatalogHandler crea una instancia de CatalogHandler con dependencias necesarias.
func NewCatalogHandler(logger *zap.Logger, fitting *service.FittingService) *CatalogHandler {
	return &CatalogHandler{
		logger:  logger,
		fitting: fitting,
	}
}

// GetSizeChart maneja GET /products/:id/size-chart.
func (h *CatalogHandler) GetSizeChart(c *gin.Context) {
	chart, err := h.fitting.GetSizeChart(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "fetch size chart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"size_chart": chart})
}

// ReplaceSizeChart maneja PUT /products/:id/size-chart. Requiere token de comerciante.
func (h *CatalogHandler) ReplaceSizeChart(c *gin.Context) {
	var req struct {
		Variants            []domain.SizeVariant        `json:"size_variants"`
		StandardMeasurement *domain.StandardMeasurement `json:"standard_measurement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid size chart request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	chart, err := h.fitting.ReplaceSizeChart(c.Request.Context(), domain.SizeChart{
		ProductID:  c.Param("id"),
		MerchantID: claims.MerchantID,
		Variants:   req.Variants,
		Standard:   req.StandardMeasurement,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "replace size chart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"size_chart": chart})
}

// RecommendForProduct maneja POST /products/:id/recommendation.
func (h *CatalogHandler) RecommendForProduct(c *gin.Context) {
	var req struct {
		ShopperID    string                        `json:"shopper_id"`
		Measurements *domain.EstimatedMeasurements `json:"measurements"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid product recommendation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rec, measurements, err := h.fitting.RecommendForProduct(c.Request.Context(), service.RecommendInput{
		ProductID:    c.Param("id"),
		ShopperID:    req.ShopperID,
		Measurements: req.Measurements,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "recommend size")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendation": rec,
		"measurements":   measurements,
	})
}

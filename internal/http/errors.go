package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"size-fit/internal/service"
)

// writeServiceError traduce errores del servicio a codigos HTTP.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrInvalidMeasurements),
		errors.Is(err, service.ErrInvalidSizeChart),
		errors.Is(err, service.ErrMeasurementsRequired),
		errors.Is(err, service.ErrShopperIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrShopperNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrChartForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStoreNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog store not configured"})
	default:
		logger.Error(action+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + action})
	}
}

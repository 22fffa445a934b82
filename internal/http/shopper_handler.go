package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"size-fit/internal/domain"
	"size-fit/internal/service"
)

// ShopperHandler guarda y consulta el perfil corporal del comprador.
type ShopperHandler struct {
	logger  *zap.Logger
	fitting *service.FittingService
}

func NewShopperHandler(logger *zap.Logger, fitting *service.FittingService) *ShopperHandler {
	return &ShopperHandler{
		logger:  logger,
		fitting: fitting,
	}
}

// PutBodyProfile maneja PUT /shoppers/:id/body-profile.
func (h *ShopperHandler) PutBodyProfile(c *gin.Context) {
	var req domain.UserBodyProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid body profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	stored, estimate, err := h.fitting.SaveShopperProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "save body profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"body_profile":           stored,
		"estimated_measurements": estimate,
	})
}

// GetBodyProfile maneja GET /shoppers/:id/body-profile.
func (h *ShopperHandler) GetBodyProfile(c *gin.Context) {
	stored, estimate, err := h.fitting.GetShopperProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "fetch body profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"body_profile":           stored,
		"estimated_measurements": estimate,
	})
}

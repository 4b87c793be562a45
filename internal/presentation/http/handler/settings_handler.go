package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rkjewellers/billing-api/internal/application/service"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/request"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetShop retrieves the shop profile
func (h *SettingsHandler) GetShop(c *gin.Context) {
	shop, err := h.settingsService.GetShop(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shop settings retrieved successfully", shop)
}

// UpdateShop replaces the shop profile
func (h *SettingsHandler) UpdateShop(c *gin.Context) {
	var req request.UpdateShopRequest
	if !bindJSON(c, &req) {
		return
	}

	shop, err := h.settingsService.UpdateShop(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shop settings updated successfully", shop)
}

// WipeAllData empties every store
func (h *SettingsHandler) WipeAllData(c *gin.Context) {
	var req request.ResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.settingsService.WipeAllData(c.Request.Context(), req.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "All data wiped", nil)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/services"
)

// SettingsHandler handles category and asset-name configuration requests
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// AddSettingRequest represents the request payload for adding a category or
// an asset name
type AddSettingRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateTargetRequest represents the request payload for setting a category's
// target allocation percentage
type UpdateTargetRequest struct {
	TargetPct string `json:"target_pct" binding:"required"`
}

// Get returns the configured categories and asset names
func (h *SettingsHandler) Get(c *gin.Context) {
	onlyActive := c.Query("only_active") == "true"

	settings, err := h.settingsService.GetSettings(c.Request.Context(), onlyActive)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":     settings,
		"total_target": settings.TotalTarget(),
	})
}

// AddCategory registers a new investment category
func (h *SettingsHandler) AddCategory(c *gin.Context) {
	var req AddSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.settingsService.AddCategory(c.Request.Context(), req.Name); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// AddAsset registers a new asset name
func (h *SettingsHandler) AddAsset(c *gin.Context) {
	var req AddSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.settingsService.AddAsset(c.Request.Context(), req.Name); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// ToggleCategory flips a category between active and inactive
func (h *SettingsHandler) ToggleCategory(c *gin.Context) {
	name := c.Param("name")
	if err := h.settingsService.ToggleCategory(c.Request.Context(), name); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

// ToggleAsset flips an asset name between active and inactive
func (h *SettingsHandler) ToggleAsset(c *gin.Context) {
	name := c.Param("name")
	if err := h.settingsService.ToggleAsset(c.Request.Context(), name); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

// UpdateTarget sets a category's target allocation percentage
func (h *SettingsHandler) UpdateTarget(c *gin.Context) {
	var req UpdateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	target, err := parseAmount("target_pct", req.TargetPct)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")
	if err := h.settingsService.UpdateTarget(c.Request.Context(), name, target); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "target_pct": target})
}

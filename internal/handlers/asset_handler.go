package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sheetfolio/internal/config"
	"sheetfolio/internal/dates"
	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/money"
	"sheetfolio/internal/services"
)

// AssetHandler handles snapshot record requests
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// CreateAssetRequest represents the request payload for recording a snapshot
type CreateAssetRequest struct {
	Date     string `json:"date" binding:"required,iso_date"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// BulkAssetRecord is one entry of a bulk snapshot request
type BulkAssetRecord struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// BulkCreateAssetRequest records several snapshots sharing one date
type BulkCreateAssetRequest struct {
	Date    string            `json:"date" binding:"required,iso_date"`
	Records []BulkAssetRecord `json:"records" binding:"required,min=1,dive"`
}

// AssetResponse represents a snapshot record in responses
type AssetResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	DisplayDate string          `json:"display_date"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

func toAssetResponse(a models.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		Date:        dates.FormatDate(a.Date),
		DisplayDate: dates.Display(a.Date),
		Name:        a.Name,
		Category:    a.Category,
		Amount:      a.Amount,
	}
}

// List returns snapshot records, optionally filtered by name, category, and year
func (h *AssetHandler) List(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	records, err := h.assetService.List(c.Request.Context(), services.AssetFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Year:     year,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	latestValue, err := h.assetService.LatestPortfolioValue(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]AssetResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toAssetResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"records":              responses,
		"latest_value":         latestValue,
		"latest_value_display": money.Display(latestValue, config.Get().Currency),
		"year":                 year,
	})
}

// Create records a single snapshot
func (h *AssetHandler) Create(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := assetInput(req.Date, req.Name, req.Category, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.Add(c.Request.Context(), *input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": toAssetResponse(*asset)})
}

// CreateBulk records several snapshots sharing one date
func (h *AssetHandler) CreateBulk(c *gin.Context) {
	var req BulkCreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.AssetInput, 0, len(req.Records))
	for _, r := range req.Records {
		input, err := assetInput(req.Date, r.Name, r.Category, r.Amount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		inputs = append(inputs, *input)
	}

	assets, err := h.assetService.AddBulk(c.Request.Context(), inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		responses = append(responses, toAssetResponse(a))
	}
	c.JSON(http.StatusCreated, gin.H{"records": responses})
}

// Update rewrites a snapshot record
func (h *AssetHandler) Update(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := assetInput(req.Date, req.Name, req.Category, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.Update(c.Request.Context(), c.Param("id"), *input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": toAssetResponse(*asset)})
}

// Delete removes a snapshot record
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.assetService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func assetInput(date, name, category, amount string) (*services.AssetInput, error) {
	parsedDate, err := dates.Parse(date)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date: "+date)
	}
	parsedAmount, err := parseAmount("amount", amount)
	if err != nil {
		return nil, err
	}
	return &services.AssetInput{
		Date:     parsedDate,
		Name:     name,
		Category: category,
		Amount:   parsedAmount,
	}, nil
}

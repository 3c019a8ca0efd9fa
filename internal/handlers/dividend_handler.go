package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/services"
)

// DividendHandler handles dividend record requests
type DividendHandler struct {
	dividendService services.DividendServicer
}

// NewDividendHandler creates a new DividendHandler
func NewDividendHandler(dividendService services.DividendServicer) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// CreateDividendRequest represents the request payload for recording a dividend
type CreateDividendRequest struct {
	Date       string `json:"date" binding:"required,iso_date"`
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Reinvested bool   `json:"reinvested"`
	Note       string `json:"note"`
}

// AnalysisQuery selects the grouping mode and optional asset filter for the
// dividend analysis view
type AnalysisQuery struct {
	Mode string `form:"mode" binding:"omitempty,analysis_mode"`
	Name string `form:"name"`
}

// DividendResponse represents a dividend record in responses
type DividendResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	DisplayDate string          `json:"display_date"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Reinvested  bool            `json:"reinvested"`
	Note        string          `json:"note,omitempty"`
}

func toDividendResponse(d models.Dividend) DividendResponse {
	return DividendResponse{
		ID:          d.ID,
		Date:        dates.FormatDate(d.Date),
		DisplayDate: dates.Display(d.Date),
		Name:        d.Name,
		Category:    d.Category,
		Amount:      d.Amount,
		Reinvested:  d.Reinvested,
		Note:        d.Note,
	}
}

// List returns dividend records with yearly totals for the selected year
func (h *DividendHandler) List(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	records, err := h.dividendService.List(c.Request.Context(), services.DividendFilter{
		Name: c.Query("name"),
		Year: year,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	monthlyAvg := decimal.Zero
	if total.IsPositive() {
		monthlyAvg = total.Div(decimal.NewFromInt(12))
	}

	responses := make([]DividendResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toDividendResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"records":     responses,
		"total":       total,
		"monthly_avg": monthlyAvg,
		"year":        year,
	})
}

// Create records a dividend payment
func (h *DividendHandler) Create(c *gin.Context) {
	var req CreateDividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := dates.Parse(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date: "+req.Date))
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dividend, err := h.dividendService.Add(c.Request.Context(), services.DividendInput{
		Date:       date,
		Name:       req.Name,
		Category:   req.Category,
		Amount:     amount,
		Reinvested: req.Reinvested,
		Note:       req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": toDividendResponse(*dividend)})
}

// Analysis returns dividend totals grouped by year or month
func (h *DividendHandler) Analysis(c *gin.Context) {
	var query AnalysisQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	analysis, err := h.dividendService.Analysis(c.Request.Context(), query.Mode, query.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

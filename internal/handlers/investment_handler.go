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

// InvestmentHandler handles transaction log requests
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// CreateInvestmentRequest represents the request payload for logging a transaction
type CreateInvestmentRequest struct {
	Date     string `json:"date" binding:"required,iso_date"`
	Action   string `json:"action" binding:"required,record_action"`
	Name     string `json:"name"`
	Category string `json:"category" binding:"required"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Amount   string `json:"amount" binding:"required"`
	Note     string `json:"note"`
}

// BulkInvestmentRecord is one entry of a bulk transaction request
type BulkInvestmentRecord struct {
	Action   string `json:"action" binding:"required,record_action"`
	Name     string `json:"name"`
	Category string `json:"category" binding:"required"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Amount   string `json:"amount" binding:"required"`
	Note     string `json:"note"`
}

// BulkCreateInvestmentRequest logs several transactions sharing one date
type BulkCreateInvestmentRequest struct {
	Date    string                 `json:"date" binding:"required,iso_date"`
	Records []BulkInvestmentRecord `json:"records" binding:"required,min=1,dive"`
}

// InvestmentResponse represents a transaction in responses
type InvestmentResponse struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	DisplayDate string           `json:"display_date"`
	Action      string           `json:"action"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Note        string           `json:"note,omitempty"`
}

func toInvestmentResponse(inv models.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:          inv.ID,
		Date:        dates.FormatDate(inv.Date),
		DisplayDate: dates.Display(inv.Date),
		Action:      string(inv.Action),
		Name:        inv.Name,
		Category:    inv.Category,
		Quantity:    inv.Quantity,
		Price:       inv.Price,
		Amount:      inv.Amount,
		Note:        inv.Note,
	}
}

// List returns transactions, optionally filtered by name, category, action, and year
func (h *InvestmentHandler) List(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	records, err := h.investmentService.List(c.Request.Context(), services.InvestmentFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Action:   c.Query("action"),
		Year:     year,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]InvestmentResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toInvestmentResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"records": responses, "year": year})
}

// Create logs a single transaction
func (h *InvestmentHandler) Create(c *gin.Context) {
	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := investmentInput(req.Date, req.Action, req.Name, req.Category, req.Quantity, req.Price, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.Add(c.Request.Context(), *input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": toInvestmentResponse(*investment)})
}

// CreateBulk logs several transactions sharing one date
func (h *InvestmentHandler) CreateBulk(c *gin.Context) {
	var req BulkCreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.InvestmentInput, 0, len(req.Records))
	for _, r := range req.Records {
		input, err := investmentInput(req.Date, r.Action, r.Name, r.Category, r.Quantity, r.Price, r.Amount, r.Note)
		if err != nil {
			respondWithError(c, err)
			return
		}
		inputs = append(inputs, *input)
	}

	investments, err := h.investmentService.AddBulk(c.Request.Context(), inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]InvestmentResponse, 0, len(investments))
	for _, inv := range investments {
		responses = append(responses, toInvestmentResponse(inv))
	}
	c.JSON(http.StatusCreated, gin.H{"records": responses})
}

// Update rewrites a transaction record
func (h *InvestmentHandler) Update(c *gin.Context) {
	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := investmentInput(req.Date, req.Action, req.Name, req.Category, req.Quantity, req.Price, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.Update(c.Request.Context(), c.Param("id"), *input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": toInvestmentResponse(*investment)})
}

// Delete removes a transaction record
func (h *InvestmentHandler) Delete(c *gin.Context) {
	if err := h.investmentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func investmentInput(date, action, name, category, quantity, price, amount, note string) (*services.InvestmentInput, error) {
	parsedDate, err := dates.Parse(date)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date: "+date)
	}
	parsedAmount, err := parseAmount("amount", amount)
	if err != nil {
		return nil, err
	}
	parsedQuantity, err := parseOptionalAmount("quantity", quantity)
	if err != nil {
		return nil, err
	}
	parsedPrice, err := parseOptionalAmount("price", price)
	if err != nil {
		return nil, err
	}
	return &services.InvestmentInput{
		Date:     parsedDate,
		Action:   models.Action(action),
		Name:     name,
		Category: category,
		Quantity: parsedQuantity,
		Price:    parsedPrice,
		Amount:   parsedAmount,
		Note:     note,
	}, nil
}

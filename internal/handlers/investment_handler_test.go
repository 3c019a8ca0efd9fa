package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/services"
)

// --- mock investment service ---

type mockInvestmentService struct {
	listFn    func(filter services.InvestmentFilter) ([]models.Investment, error)
	addFn     func(input services.InvestmentInput) (*models.Investment, error)
	addBulkFn func(inputs []services.InvestmentInput) ([]models.Investment, error)
	updateFn  func(id string, input services.InvestmentInput) (*models.Investment, error)
	deleteFn  func(id string) error
}

func (m *mockInvestmentService) List(_ context.Context, filter services.InvestmentFilter) ([]models.Investment, error) {
	if m.listFn != nil {
		return m.listFn(filter)
	}
	return []models.Investment{}, nil
}

func (m *mockInvestmentService) Add(_ context.Context, input services.InvestmentInput) (*models.Investment, error) {
	if m.addFn != nil {
		return m.addFn(input)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) AddBulk(_ context.Context, inputs []services.InvestmentInput) ([]models.Investment, error) {
	if m.addBulkFn != nil {
		return m.addBulkFn(inputs)
	}
	return []models.Investment{}, nil
}

func (m *mockInvestmentService) Update(_ context.Context, id string, input services.InvestmentInput) (*models.Investment, error) {
	if m.updateFn != nil {
		return m.updateFn(id, input)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) Delete(_ context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

var _ services.InvestmentServicer = (*mockInvestmentService)(nil)

func setupInvestmentRouter(handler *InvestmentHandler) *gin.Engine {
	r := gin.New()
	r.GET("/investments", handler.List)
	r.POST("/investments", handler.Create)
	r.POST("/investments/bulk", handler.CreateBulk)
	r.PUT("/investments/:id", handler.Update)
	r.DELETE("/investments/:id", handler.Delete)
	return r
}

// --- tests ---

func TestInvestmentHandler_Create(t *testing.T) {
	t.Run("logs a buy with quantity and unit price", func(t *testing.T) {
		var got services.InvestmentInput
		svc := &mockInvestmentService{
			addFn: func(input services.InvestmentInput) (*models.Investment, error) {
				got = input
				return &models.Investment{
					ID:       "i1",
					Date:     input.Date,
					Action:   input.Action,
					Name:     input.Name,
					Category: input.Category,
					Quantity: input.Quantity,
					Price:    input.Price,
					Amount:   input.Amount,
				}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodPost, "/investments",
			`{"date":"2025-01-10","action":"Buy","name":"VTI","category":"Stocks","quantity":"0.1","price":"45,000.00","amount":"4500"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Action != models.ActionBuy || got.Quantity == nil || got.Price == nil {
			t.Fatalf("input = %+v", got)
		}
		if !got.Quantity.Equal(mustDecimal(t, "0.1")) || !got.Price.Equal(mustDecimal(t, "45000")) {
			t.Errorf("quantity = %s, price = %s", got.Quantity, got.Price)
		}
		record := parseJSON(t, rec)["record"].(map[string]interface{})
		if record["quantity"] != "0.1" || record["price"] != "45000" {
			t.Errorf("unexpected record: %v", record)
		}
	})

	t.Run("deposit needs no asset name", func(t *testing.T) {
		var got services.InvestmentInput
		svc := &mockInvestmentService{
			addFn: func(input services.InvestmentInput) (*models.Investment, error) {
				got = input
				return &models.Investment{ID: "i1", Date: input.Date, Action: input.Action, Amount: input.Amount}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodPost, "/investments",
			`{"date":"2025-01-02","action":"Deposit","category":"Stocks","amount":"4500"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name != "" || got.Quantity != nil || got.Price != nil {
			t.Errorf("input = %+v", got)
		}
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		called := false
		svc := &mockInvestmentService{
			addFn: func(input services.InvestmentInput) (*models.Investment, error) {
				called = true
				return &models.Investment{}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodPost, "/investments",
			`{"date":"2025-01-10","action":"Stake","name":"SOL","category":"Crypto","amount":"1000"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		if called {
			t.Error("service called despite invalid action")
		}
	})

	t.Run("rejects non-numeric quantity", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}))

		rec := doRequest(r, http.MethodPost, "/investments",
			`{"date":"2025-01-10","action":"Buy","name":"VTI","category":"Stocks","quantity":"three","amount":"4500"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects non-numeric price", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}))

		rec := doRequest(r, http.MethodPost, "/investments",
			`{"date":"2025-01-10","action":"Buy","name":"VTI","category":"Stocks","price":"??","amount":"4500"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestInvestmentHandler_CreateBulk(t *testing.T) {
	t.Run("shares one date across records", func(t *testing.T) {
		var got []services.InvestmentInput
		svc := &mockInvestmentService{
			addBulkFn: func(inputs []services.InvestmentInput) ([]models.Investment, error) {
				got = inputs
				out := make([]models.Investment, len(inputs))
				for i, in := range inputs {
					out[i] = models.Investment{ID: "id", Date: in.Date, Action: in.Action, Amount: in.Amount}
				}
				return out, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodPost, "/investments/bulk",
			`{"date":"2025-01-02","records":[
				{"action":"Deposit","category":"Stocks","amount":"4500"},
				{"action":"Buy","name":"VTI","category":"Stocks","quantity":"18","price":"250","amount":"4500"}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(got))
		}
		want, _ := time.Parse("2006-01-02", "2025-01-02")
		if !got[0].Date.Equal(want) || !got[1].Date.Equal(want) {
			t.Errorf("dates not shared: %v / %v", got[0].Date, got[1].Date)
		}
	})

	t.Run("rejects a bad action anywhere in the batch", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}))

		rec := doRequest(r, http.MethodPost, "/investments/bulk",
			`{"date":"2025-01-02","records":[
				{"action":"Deposit","category":"Stocks","amount":"4500"},
				{"action":"Borrow","category":"Stocks","amount":"100"}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects empty records", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}))

		rec := doRequest(r, http.MethodPost, "/investments/bulk", `{"date":"2025-01-02","records":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_List(t *testing.T) {
	t.Run("passes all filters through", func(t *testing.T) {
		var gotFilter services.InvestmentFilter
		date, _ := time.Parse("2006-01-02", "2025-01-10")
		svc := &mockInvestmentService{
			listFn: func(filter services.InvestmentFilter) ([]models.Investment, error) {
				gotFilter = filter
				return []models.Investment{{ID: "i1", Date: date, Action: models.ActionBuy, Name: "VTI", Category: "Stocks", Amount: mustDecimal(t, "4500")}}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodGet, "/investments?name=vti&category=Stocks&action=Buy&year=2025", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFilter.Name != "vti" || gotFilter.Category != "Stocks" || gotFilter.Action != "Buy" || gotFilter.Year != 2025 {
			t.Errorf("filter = %+v", gotFilter)
		}
		records := parseJSON(t, rec)["records"].([]interface{})
		first := records[0].(map[string]interface{})
		if first["display_date"] != "10/01/2025" {
			t.Errorf("record = %v", first)
		}
	})

	t.Run("store failure maps to 502", func(t *testing.T) {
		svc := &mockInvestmentService{
			listFn: func(services.InvestmentFilter) ([]models.Investment, error) {
				return nil, apperrors.ErrStoreUnavailable
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodGet, "/investments", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STORE_UNAVAILABLE")
	})
}

func TestInvestmentHandler_Delete(t *testing.T) {
	t.Run("returns 404 for unknown id", func(t *testing.T) {
		svc := &mockInvestmentService{
			deleteFn: func(string) error { return apperrors.ErrRecordNotFound },
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc))

		rec := doRequest(r, http.MethodDelete, "/investments/nope", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECORD_NOT_FOUND")
	})
}

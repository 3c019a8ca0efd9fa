package services

import (
	"context"
	"sort"
	"strings"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/store"
	"sheetfolio/internal/uuid"
)

// investmentService manages the transaction log in the Investment worksheet.
type investmentService struct {
	store store.TabularStore
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(st store.TabularStore) InvestmentServicer {
	return &investmentService{store: st}
}

func (s *investmentService) List(ctx context.Context, filter InvestmentFilter) ([]models.Investment, error) {
	investments, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := investments[:0]
	for _, inv := range investments {
		if filter.Name != "" && !strings.Contains(strings.ToLower(inv.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && inv.Category != filter.Category {
			continue
		}
		if filter.Action != "" && string(inv.Action) != filter.Action {
			continue
		}
		if filter.Year != 0 && inv.Date.Year() != filter.Year {
			continue
		}
		filtered = append(filtered, inv)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].RowIndex > filtered[j].RowIndex
	})
	return filtered, nil
}

func (s *investmentService) Add(ctx context.Context, input InvestmentInput) (*models.Investment, error) {
	investment := newInvestment(input)
	if err := s.store.AppendRow(ctx, store.TableInvestment, investment.SheetRow()); err != nil {
		return nil, err
	}
	return &investment, nil
}

func (s *investmentService) AddBulk(ctx context.Context, inputs []InvestmentInput) ([]models.Investment, error) {
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No records to add")
	}
	investments := make([]models.Investment, 0, len(inputs))
	rows := make([][]string, 0, len(inputs))
	for _, input := range inputs {
		investment := newInvestment(input)
		investments = append(investments, investment)
		rows = append(rows, investment.SheetRow())
	}
	if err := s.store.AppendRows(ctx, store.TableInvestment, rows); err != nil {
		return nil, err
	}
	return investments, nil
}

func (s *investmentService) Update(ctx context.Context, id string, input InvestmentInput) (*models.Investment, error) {
	index, err := findRowByID(ctx, s.store, store.TableInvestment, models.ColInvID, id)
	if err != nil {
		return nil, err
	}
	investment := newInvestment(input)
	investment.ID = id
	investment.RowIndex = index
	if err := s.store.UpdateRow(ctx, store.TableInvestment, index, investment.SheetRow()); err != nil {
		return nil, err
	}
	return &investment, nil
}

func (s *investmentService) Delete(ctx context.Context, id string) error {
	index, err := findRowByID(ctx, s.store, store.TableInvestment, models.ColInvID, id)
	if err != nil {
		return err
	}
	return s.store.DeleteRow(ctx, store.TableInvestment, index)
}

func (s *investmentService) readAll(ctx context.Context) ([]models.Investment, error) {
	rows, err := s.store.ReadAll(ctx, store.TableInvestment)
	if err != nil {
		return nil, err
	}
	investments := make([]models.Investment, 0, len(rows))
	for _, row := range rows {
		investment, err := models.InvestmentFromRow(row)
		if err != nil {
			return nil, err
		}
		investments = append(investments, investment)
	}
	return investments, nil
}

func newInvestment(input InvestmentInput) models.Investment {
	return models.Investment{
		ID:       uuid.New(),
		Date:     input.Date,
		Action:   input.Action,
		Name:     input.Name,
		Category: input.Category,
		Quantity: input.Quantity,
		Price:    input.Price,
		Amount:   input.Amount,
		Note:     input.Note,
	}
}

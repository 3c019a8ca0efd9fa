package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/store"
	"sheetfolio/internal/uuid"
)

// Dividend analysis grouping modes.
const (
	AnalysisYearly  = "yearly"
	AnalysisMonthly = "monthly"
)

// dividendService manages dividend records in the Dividends worksheet.
type dividendService struct {
	store store.TabularStore
}

// NewDividendService creates a new DividendServicer.
func NewDividendService(st store.TabularStore) DividendServicer {
	return &dividendService{store: st}
}

func (s *dividendService) List(ctx context.Context, filter DividendFilter) ([]models.Dividend, error) {
	dividends, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := dividends[:0]
	for _, d := range dividends {
		if filter.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Year != 0 && d.Date.Year() != filter.Year {
			continue
		}
		filtered = append(filtered, d)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].RowIndex > filtered[j].RowIndex
	})
	return filtered, nil
}

func (s *dividendService) Add(ctx context.Context, input DividendInput) (*models.Dividend, error) {
	dividend := models.Dividend{
		ID:         uuid.New(),
		Date:       input.Date,
		Name:       input.Name,
		Category:   input.Category,
		Amount:     input.Amount,
		Reinvested: input.Reinvested,
		Note:       input.Note,
	}
	if err := s.store.AppendRow(ctx, store.TableDividends, dividend.SheetRow()); err != nil {
		return nil, err
	}
	return &dividend, nil
}

// Analysis groups dividend totals by year or by calendar month for the
// year-over-year view, optionally filtered to one holding.
func (s *dividendService) Analysis(ctx context.Context, mode, name string) (*DividendAnalysis, error) {
	if mode == "" {
		mode = AnalysisYearly
	}
	if mode != AnalysisYearly && mode != AnalysisMonthly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown analysis mode: "+mode)
	}

	dividends, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, d := range dividends {
		if name != "" && !strings.EqualFold(d.Name, name) {
			continue
		}
		key := d.Date.Format("2006")
		if mode == AnalysisMonthly {
			key = dates.MonthKey(d.Date)
		}
		totals[key] = totals[key].Add(d.Amount)
	}

	labels := make([]string, 0, len(totals))
	for key := range totals {
		labels = append(labels, key)
	}
	sort.Strings(labels)

	values := make([]decimal.Decimal, 0, len(labels))
	for _, key := range labels {
		values = append(values, totals[key])
	}

	return &DividendAnalysis{Mode: mode, Labels: labels, Values: values}, nil
}

func (s *dividendService) readAll(ctx context.Context) ([]models.Dividend, error) {
	rows, err := s.store.ReadAll(ctx, store.TableDividends)
	if err != nil {
		return nil, err
	}
	dividends := make([]models.Dividend, 0, len(rows))
	for _, row := range rows {
		dividend, err := models.DividendFromRow(row)
		if err != nil {
			return nil, err
		}
		dividends = append(dividends, dividend)
	}
	return dividends, nil
}

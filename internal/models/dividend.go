package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/money"
	"sheetfolio/internal/store"
)

// Dividends worksheet columns.
const (
	ColDivID         = "ID"
	ColDivDate       = "Date"
	ColDivAsset      = "Asset"
	ColDivCategory   = "Category"
	ColDivAmount     = "Amount"
	ColDivReinvested = "Reinvested"
	ColDivNote       = "Note"
)

// Dividend is one dividend payment record, append-only like the
// transaction log.
type Dividend struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"-"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Reinvested bool            `json:"reinvested"`
	Note       string          `json:"note,omitempty"`

	RowIndex int `json:"-"`
}

// DividendFromRow parses a Dividends worksheet row, failing fast with a
// FORMAT_ERROR that names the offending cell.
func DividendFromRow(row store.Row) (Dividend, error) {
	date, err := dates.Parse(row.Get(ColDivDate))
	if err != nil {
		return Dividend{}, apperrors.Format(store.TableDividends, row.Index, ColDivDate, row.Get(ColDivDate))
	}

	amount, err := money.Parse(row.Get(ColDivAmount))
	if err != nil {
		return Dividend{}, apperrors.Format(store.TableDividends, row.Index, ColDivAmount, row.Get(ColDivAmount))
	}

	category := row.Get(ColDivCategory)
	if category == "" {
		category = CategoryUncategorized
	}

	return Dividend{
		ID:         row.Get(ColDivID),
		Date:       date,
		Name:       row.Get(ColDivAsset),
		Category:   category,
		Amount:     amount,
		Reinvested: parseYesNo(row.Get(ColDivReinvested)),
		Note:       row.Get(ColDivNote),
		RowIndex:   row.Index,
	}, nil
}

// SheetRow renders the record in worksheet column order.
func (d Dividend) SheetRow() []string {
	reinvested := "No"
	if d.Reinvested {
		reinvested = "Yes"
	}
	return []string{
		d.ID,
		dates.FormatDate(d.Date),
		d.Name,
		d.Category,
		money.Format(d.Amount),
		reinvested,
		d.Note,
	}
}

// parseYesNo accepts the yes/true/1 spellings that appear in the sheet.
func parseYesNo(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/money"
	"sheetfolio/internal/store"
)

// CategoryUncategorized is assigned to snapshot rows without a category.
const CategoryUncategorized = "Uncategorized"

// Current Asset worksheet columns.
const (
	ColAssetID          = "ID"
	ColAssetDate        = "Date"
	ColAssetAmount      = "Amount"
	ColAssetDescription = "Description"
	ColAssetCategory    = "Category"
)

// Asset is a point-in-time value snapshot for one holding. Snapshots are
// immutable once recorded; newer snapshots supersede older ones.
type Asset struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"-"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`

	// RowIndex is where the record sits in the worksheet; used for
	// update/delete addressing and for same-date tie-breaks.
	RowIndex int `json:"-"`
}

// AssetFromRow parses a Current Asset worksheet row, failing fast with a
// FORMAT_ERROR that names the offending cell.
func AssetFromRow(row store.Row) (Asset, error) {
	date, err := dates.Parse(row.Get(ColAssetDate))
	if err != nil {
		return Asset{}, apperrors.Format(store.TableCurrentAsset, row.Index, ColAssetDate, row.Get(ColAssetDate))
	}

	amount, err := money.Parse(row.Get(ColAssetAmount))
	if err != nil {
		return Asset{}, apperrors.Format(store.TableCurrentAsset, row.Index, ColAssetAmount, row.Get(ColAssetAmount))
	}

	category := row.Get(ColAssetCategory)
	if category == "" {
		category = CategoryUncategorized
	}

	return Asset{
		ID:       row.Get(ColAssetID),
		Date:     date,
		Name:     row.Get(ColAssetDescription),
		Category: category,
		Amount:   amount,
		RowIndex: row.Index,
	}, nil
}

// SheetRow renders the record in worksheet column order.
func (a Asset) SheetRow() []string {
	return []string{
		a.ID,
		dates.FormatDate(a.Date),
		money.Format(a.Amount),
		a.Name,
		a.Category,
	}
}

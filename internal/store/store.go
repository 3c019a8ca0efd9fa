// Package store is the tabular persistence boundary. All state lives in a
// remote spreadsheet; the engine and services only ever borrow read-only
// copies of rows for the duration of one request.
package store

import "context"

// Worksheet names inside the portfolio spreadsheet.
const (
	TableSettings     = "Settings"
	TableCurrentAsset = "Current Asset"
	TableInvestment   = "Investment"
	TableDividends    = "Dividends"
)

// Row is a single worksheet row keyed by header column name. Index is the
// 1-based position of the row among the data rows (header excluded) and is
// what update/delete operations address.
type Row struct {
	Index  int
	Values map[string]string
}

// Get returns the named cell, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r.Values[column]
}

// TabularStore moves raw text rows between the application and the remote
// spreadsheet. Parsing and formatting are the caller's responsibility.
type TabularStore interface {
	// ReadAll returns every data row of the table in store order.
	ReadAll(ctx context.Context, table string) ([]Row, error)
	// AppendRow appends one row of cell values in worksheet column order.
	AppendRow(ctx context.Context, table string, values []string) error
	// AppendRows appends several rows in a single call.
	AppendRows(ctx context.Context, table string, rows [][]string) error
	// UpdateRow rewrites the data row at the given 1-based index.
	UpdateRow(ctx context.Context, table string, index int, values []string) error
	// DeleteRow removes the data row at the given 1-based index.
	DeleteRow(ctx context.Context, table string, index int) error
}

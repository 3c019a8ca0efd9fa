// Package testutil provides test helpers: an in-memory tabular store,
// worksheet row fixtures, and assertions.
package testutil

import (
	"context"
	"sync"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/store"
)

// tableHeaders mirrors the worksheet layouts the real spreadsheet uses.
var tableHeaders = map[string][]string{
	store.TableSettings: {
		models.ColSettingCategory,
		models.ColSettingCategoryActive,
		models.ColSettingTarget,
		models.ColSettingAsset,
		models.ColSettingAssetActive,
	},
	store.TableCurrentAsset: {
		models.ColAssetID,
		models.ColAssetDate,
		models.ColAssetAmount,
		models.ColAssetDescription,
		models.ColAssetCategory,
	},
	store.TableInvestment: {
		models.ColInvID,
		models.ColInvDate,
		models.ColInvAction,
		models.ColInvAsset,
		models.ColInvCategory,
		models.ColInvQuantity,
		models.ColInvPrice,
		models.ColInvAmount,
		models.ColInvNote,
	},
	store.TableDividends: {
		models.ColDivID,
		models.ColDivDate,
		models.ColDivAsset,
		models.ColDivCategory,
		models.ColDivAmount,
		models.ColDivReinvested,
		models.ColDivNote,
	},
}

// MemoryStore is an in-memory store.TabularStore for tests. It keeps raw
// cell values per table, exactly like the spreadsheet does.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][][]string

	// err, when set, is returned by every operation to simulate an
	// unreachable backend.
	err error
}

// NewMemoryStore creates an empty MemoryStore with the standard worksheets.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][][]string)}
}

// Seed appends raw rows to a table without going through the store API.
func (m *MemoryStore) Seed(table string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[table] = append(m.rows[table], rows...)
}

// FailWith makes every subsequent operation return err.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Len reports the number of data rows in a table.
func (m *MemoryStore) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows[table])
}

// Raw returns a copy of the stored cell values of one data row.
func (m *MemoryStore) Raw(table string, index int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.rows[table]
	if index < 1 || index > len(rows) {
		return nil
	}
	out := make([]string, len(rows[index-1]))
	copy(out, rows[index-1])
	return out
}

// ReadAll implements store.TabularStore.
func (m *MemoryStore) ReadAll(_ context.Context, table string) ([]store.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	headers := tableHeaders[table]
	out := make([]store.Row, 0, len(m.rows[table]))
	for i, values := range m.rows[table] {
		cells := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(values) {
				cells[h] = values[j]
			}
		}
		out = append(out, store.Row{Index: i + 1, Values: cells})
	}
	return out, nil
}

// AppendRow implements store.TabularStore.
func (m *MemoryStore) AppendRow(ctx context.Context, table string, values []string) error {
	return m.AppendRows(ctx, table, [][]string{values})
}

// AppendRows implements store.TabularStore.
func (m *MemoryStore) AppendRows(_ context.Context, table string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows[table] = append(m.rows[table], rows...)
	return nil
}

// UpdateRow implements store.TabularStore.
func (m *MemoryStore) UpdateRow(_ context.Context, table string, index int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if index < 1 || index > len(m.rows[table]) {
		return apperrors.ErrNotFound
	}
	m.rows[table][index-1] = values
	return nil
}

// DeleteRow implements store.TabularStore.
func (m *MemoryStore) DeleteRow(_ context.Context, table string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rows := m.rows[table]
	if index < 1 || index > len(rows) {
		return apperrors.ErrNotFound
	}
	m.rows[table] = append(rows[:index-1], rows[index:]...)
	return nil
}

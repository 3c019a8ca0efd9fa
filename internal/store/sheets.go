package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "sheetfolio/internal/errors"
)

// SheetsStore implements TabularStore against one Google Spreadsheet, with
// each table backed by a worksheet whose first row is the column header.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

var _ TabularStore = (*SheetsStore)(nil)

// NewSheetsStore authenticates with a service-account credentials file and
// binds to the given spreadsheet.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// ReadAll fetches the whole worksheet. The first row is the header; every
// following row becomes a Row keyed by the header columns, in store order.
func (s *SheetsStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tableRange(table)).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	rows := make([]Row, 0, len(resp.Values)-1)
	for i, raw := range resp.Values[1:] {
		values := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" {
				continue
			}
			if j < len(raw) {
				values[col] = strings.TrimSpace(fmt.Sprint(raw[j]))
			} else {
				values[col] = ""
			}
		}
		rows = append(rows, Row{Index: i + 1, Values: values})
	}
	return rows, nil
}

// AppendRow appends one row after the last data row of the worksheet.
func (s *SheetsStore) AppendRow(ctx context.Context, table string, values []string) error {
	return s.AppendRows(ctx, table, [][]string{values})
}

// AppendRows appends several rows in a single API call.
func (s *SheetsStore) AppendRows(ctx context.Context, table string, rows [][]string) error {
	vr := &sheets.ValueRange{Values: toCellRows(rows)}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, tableRange(table), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// UpdateRow rewrites the data row at the given 1-based index. Sheet row 1 is
// the header, so data row i lives at sheet row i+1.
func (s *SheetsStore) UpdateRow(ctx context.Context, table string, index int, values []string) error {
	vr := &sheets.ValueRange{Values: toCellRows([][]string{values})}
	rangeRef := fmt.Sprintf("'%s'!A%d", table, index+1)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeRef, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteRow removes the data row at the given 1-based index.
func (s *SheetsStore) DeleteRow(ctx context.Context, table string, index int) error {
	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index), // 0-based; header occupies index 0
					EndIndex:   int64(index) + 1,
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// sheetID resolves a worksheet title to its numeric sheet ID, cached after
// the first lookup.
func (s *SheetsStore) sheetID(ctx context.Context, table string) (int64, error) {
	s.mu.Lock()
	id, ok := s.sheetIDs[table]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}
	id, ok = s.sheetIDs[table]
	if !ok {
		return 0, apperrors.WithMessage(apperrors.ErrStoreUnavailable, "Worksheet not found: "+table)
	}
	return id, nil
}

func tableRange(table string) string {
	return "'" + table + "'"
}

func toCellRows(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

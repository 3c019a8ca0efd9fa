package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/store"
	"sheetfolio/internal/uuid"
)

// assetService manages snapshot records in the Current Asset worksheet.
type assetService struct {
	store store.TabularStore
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(st store.TabularStore) AssetServicer {
	return &assetService{store: st}
}

func (s *assetService) List(ctx context.Context, filter AssetFilter) ([]models.Asset, error) {
	assets, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := assets[:0]
	for _, a := range assets {
		if filter.Name != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Year != 0 && a.Date.Year() != filter.Year {
			continue
		}
		filtered = append(filtered, a)
	}

	// Newest first; same-date records keep store order, later rows first.
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].RowIndex > filtered[j].RowIndex
	})
	return filtered, nil
}

func (s *assetService) Add(ctx context.Context, input AssetInput) (*models.Asset, error) {
	asset := newAsset(input)
	if err := s.store.AppendRow(ctx, store.TableCurrentAsset, asset.SheetRow()); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *assetService) AddBulk(ctx context.Context, inputs []AssetInput) ([]models.Asset, error) {
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No records to add")
	}
	assets := make([]models.Asset, 0, len(inputs))
	rows := make([][]string, 0, len(inputs))
	for _, input := range inputs {
		asset := newAsset(input)
		assets = append(assets, asset)
		rows = append(rows, asset.SheetRow())
	}
	if err := s.store.AppendRows(ctx, store.TableCurrentAsset, rows); err != nil {
		return nil, err
	}
	return assets, nil
}

func (s *assetService) Update(ctx context.Context, id string, input AssetInput) (*models.Asset, error) {
	index, err := findRowByID(ctx, s.store, store.TableCurrentAsset, models.ColAssetID, id)
	if err != nil {
		return nil, err
	}
	asset := newAsset(input)
	asset.ID = id
	asset.RowIndex = index
	if err := s.store.UpdateRow(ctx, store.TableCurrentAsset, index, asset.SheetRow()); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *assetService) Delete(ctx context.Context, id string) error {
	index, err := findRowByID(ctx, s.store, store.TableCurrentAsset, models.ColAssetID, id)
	if err != nil {
		return err
	}
	return s.store.DeleteRow(ctx, store.TableCurrentAsset, index)
}

// LatestPortfolioValue sums the latest snapshot of every holding across all
// years, the headline figure above the records table.
func (s *assetService) LatestPortfolioValue(ctx context.Context) (decimal.Decimal, error) {
	assets, err := s.readAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range latestByName(assets) {
		total = total.Add(a.Amount)
	}
	return total, nil
}

func (s *assetService) readAll(ctx context.Context) ([]models.Asset, error) {
	rows, err := s.store.ReadAll(ctx, store.TableCurrentAsset)
	if err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(rows))
	for _, row := range rows {
		asset, err := models.AssetFromRow(row)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func newAsset(input AssetInput) models.Asset {
	return models.Asset{
		ID:       uuid.New(),
		Date:     input.Date,
		Name:     input.Name,
		Category: input.Category,
		Amount:   input.Amount,
	}
}

// latestByName keeps only the latest-dated snapshot per holding name;
// same-date duplicates resolve to the row appended last.
func latestByName(assets []models.Asset) map[string]models.Asset {
	latest := make(map[string]models.Asset)
	for _, a := range assets {
		cur, ok := latest[a.Name]
		if !ok || a.Date.After(cur.Date) || (a.Date.Equal(cur.Date) && a.RowIndex > cur.RowIndex) {
			latest[a.Name] = a
		}
	}
	return latest
}

// findRowByID scans a worksheet for the record with the given ID and returns
// its row index. The scan reads raw rows so a malformed unrelated record
// cannot block addressing this one.
func findRowByID(ctx context.Context, st store.TabularStore, table, idColumn, id string) (int, error) {
	rows, err := st.ReadAll(ctx, table)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if row.Get(idColumn) == id {
			return row.Index, nil
		}
	}
	return 0, apperrors.ErrRecordNotFound
}

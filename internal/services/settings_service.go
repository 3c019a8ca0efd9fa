package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/models"
	"sheetfolio/internal/money"
	"sheetfolio/internal/store"
)

// settingsService manages the category and asset-name definitions in the
// Settings worksheet.
type settingsService struct {
	store store.TabularStore
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(st store.TabularStore) SettingsServicer {
	return &settingsService{store: st}
}

func (s *settingsService) GetSettings(ctx context.Context, onlyActive bool) (models.Settings, error) {
	rows, err := s.store.ReadAll(ctx, store.TableSettings)
	if err != nil {
		return models.Settings{}, err
	}
	settings, err := models.SettingsFromRows(rows)
	if err != nil {
		return models.Settings{}, err
	}
	if onlyActive {
		settings = models.Settings{
			Categories: settings.ActiveCategories(),
			Assets:     settings.ActiveAssets(),
		}
	}
	return settings, nil
}

func (s *settingsService) AddCategory(ctx context.Context, name string) error {
	settings, err := s.GetSettings(ctx, false)
	if err != nil {
		return err
	}
	for _, c := range settings.Categories {
		if strings.EqualFold(c.Name, name) {
			return apperrors.ErrDuplicateSetting
		}
	}
	return s.store.AppendRow(ctx, store.TableSettings,
		[]string{name, "TRUE", money.Format(decimal.Zero), "", ""})
}

func (s *settingsService) AddAsset(ctx context.Context, name string) error {
	settings, err := s.GetSettings(ctx, false)
	if err != nil {
		return err
	}
	for _, a := range settings.Assets {
		if strings.EqualFold(a.Name, name) {
			return apperrors.ErrDuplicateSetting
		}
	}
	return s.store.AppendRow(ctx, store.TableSettings,
		[]string{"", "", "", name, "TRUE"})
}

func (s *settingsService) ToggleCategory(ctx context.Context, name string) error {
	rows, err := s.store.ReadAll(ctx, store.TableSettings)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !strings.EqualFold(row.Get(models.ColSettingCategory), name) {
			continue
		}
		updated := settingsSheetRow(row)
		updated[1] = flipActive(row.Get(models.ColSettingCategoryActive))
		return s.store.UpdateRow(ctx, store.TableSettings, row.Index, updated)
	}
	return apperrors.ErrSettingNotFound
}

func (s *settingsService) ToggleAsset(ctx context.Context, name string) error {
	rows, err := s.store.ReadAll(ctx, store.TableSettings)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !strings.EqualFold(row.Get(models.ColSettingAsset), name) {
			continue
		}
		updated := settingsSheetRow(row)
		updated[4] = flipActive(row.Get(models.ColSettingAssetActive))
		return s.store.UpdateRow(ctx, store.TableSettings, row.Index, updated)
	}
	return apperrors.ErrSettingNotFound
}

func (s *settingsService) UpdateTarget(ctx context.Context, name string, targetPct decimal.Decimal) error {
	if targetPct.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Target percentage must not be negative")
	}
	rows, err := s.store.ReadAll(ctx, store.TableSettings)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !strings.EqualFold(row.Get(models.ColSettingCategory), name) {
			continue
		}
		updated := settingsSheetRow(row)
		updated[2] = money.Format(targetPct)
		return s.store.UpdateRow(ctx, store.TableSettings, row.Index, updated)
	}
	return apperrors.ErrSettingNotFound
}

// settingsSheetRow reconstructs a Settings row in worksheet column order so
// an update can rewrite one cell without disturbing the paired columns.
func settingsSheetRow(row store.Row) []string {
	return []string{
		row.Get(models.ColSettingCategory),
		row.Get(models.ColSettingCategoryActive),
		row.Get(models.ColSettingTarget),
		row.Get(models.ColSettingAsset),
		row.Get(models.ColSettingAssetActive),
	}
}

func flipActive(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "TRUE") || strings.TrimSpace(raw) == "" {
		return "FALSE"
	}
	return "TRUE"
}

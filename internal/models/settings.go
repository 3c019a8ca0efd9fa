package models

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/money"
	"sheetfolio/internal/store"
)

// Settings worksheet columns. Each row can hold a category definition, an
// asset-name definition, or both side by side.
const (
	ColSettingCategory       = "Category"
	ColSettingCategoryActive = "Category Active"
	ColSettingTarget         = "Target %"
	ColSettingAsset          = "Asset"
	ColSettingAssetActive    = "Asset Active"
)

// CategorySetting is a user-defined investment bucket with a target
// allocation percentage on the 0-100 scale.
type CategorySetting struct {
	Name      string          `json:"name"`
	Active    bool            `json:"active"`
	TargetPct decimal.Decimal `json:"target_pct"`

	RowIndex int `json:"-"`
}

// AssetSetting is a user-defined asset name used for record entry dropdowns
// and the per-asset pivot view.
type AssetSetting struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`

	RowIndex int `json:"-"`
}

// Settings is the immutable configuration value passed into the engine's
// entry points; it is re-read from the store on every request.
type Settings struct {
	Categories []CategorySetting `json:"categories"`
	Assets     []AssetSetting    `json:"assets"`
}

// SettingsFromRows parses the Settings worksheet. A malformed target
// percentage fails the whole read.
func SettingsFromRows(rows []store.Row) (Settings, error) {
	var s Settings
	for _, row := range rows {
		if name := row.Get(ColSettingCategory); name != "" {
			target := decimal.Zero
			if raw := row.Get(ColSettingTarget); raw != "" {
				parsed, err := money.Parse(raw)
				if err != nil {
					return Settings{}, apperrors.Format(store.TableSettings, row.Index, ColSettingTarget, raw)
				}
				target = parsed
			}
			s.Categories = append(s.Categories, CategorySetting{
				Name:      name,
				Active:    parseActive(row.Get(ColSettingCategoryActive)),
				TargetPct: target,
				RowIndex:  row.Index,
			})
		}

		if name := row.Get(ColSettingAsset); name != "" {
			s.Assets = append(s.Assets, AssetSetting{
				Name:     name,
				Active:   parseActive(row.Get(ColSettingAssetActive)),
				RowIndex: row.Index,
			})
		}
	}
	return s, nil
}

// ActiveCategories returns only the categories currently switched on.
func (s Settings) ActiveCategories() []CategorySetting {
	var out []CategorySetting
	for _, c := range s.Categories {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

// ActiveAssets returns only the asset names currently switched on.
func (s Settings) ActiveAssets() []AssetSetting {
	var out []AssetSetting
	for _, a := range s.Assets {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}

// TargetByCategory maps active category names to their target percentage.
func (s Settings) TargetByCategory() map[string]decimal.Decimal {
	targets := make(map[string]decimal.Decimal)
	for _, c := range s.ActiveCategories() {
		targets[c.Name] = c.TargetPct
	}
	return targets
}

// TotalTarget sums the active categories' target percentages. The engine
// reports deviations even when the sum exceeds 100; the UI surfaces the sum
// so the user can fix their settings.
func (s Settings) TotalTarget() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.ActiveCategories() {
		total = total.Add(c.TargetPct)
	}
	return total
}

// parseActive reads the TRUE/FALSE cells the sheet uses for checkboxes.
// A blank cell counts as active.
func parseActive(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(raw), "TRUE")
}

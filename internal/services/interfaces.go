package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"sheetfolio/internal/engine"
	"sheetfolio/internal/models"
)

// AssetFilter holds optional filter parameters for listing snapshots.
type AssetFilter struct {
	Name     string
	Category string
	Year     int
}

// InvestmentFilter holds optional filter parameters for listing transactions.
type InvestmentFilter struct {
	Name     string
	Category string
	Action   string
	Year     int
}

// DividendFilter holds optional filter parameters for listing dividends.
type DividendFilter struct {
	Name string
	Year int
}

// AssetInput carries a validated snapshot record to create or rewrite.
type AssetInput struct {
	Date     time.Time
	Name     string
	Category string
	Amount   decimal.Decimal
}

// InvestmentInput carries a validated transaction record to create or rewrite.
type InvestmentInput struct {
	Date     time.Time
	Action   models.Action
	Name     string
	Category string
	Quantity *decimal.Decimal
	Price    *decimal.Decimal
	Amount   decimal.Decimal
	Note     string
}

// DividendInput carries a validated dividend record to create.
type DividendInput struct {
	Date       time.Time
	Name       string
	Category   string
	Amount     decimal.Decimal
	Reinvested bool
	Note       string
}

// SettingsServicer defines the contract for settings management.
type SettingsServicer interface {
	GetSettings(ctx context.Context, onlyActive bool) (models.Settings, error)
	AddCategory(ctx context.Context, name string) error
	AddAsset(ctx context.Context, name string) error
	ToggleCategory(ctx context.Context, name string) error
	ToggleAsset(ctx context.Context, name string) error
	UpdateTarget(ctx context.Context, name string, targetPct decimal.Decimal) error
}

// AssetServicer defines the contract for snapshot record management.
type AssetServicer interface {
	List(ctx context.Context, filter AssetFilter) ([]models.Asset, error)
	Add(ctx context.Context, input AssetInput) (*models.Asset, error)
	AddBulk(ctx context.Context, inputs []AssetInput) ([]models.Asset, error)
	Update(ctx context.Context, id string, input AssetInput) (*models.Asset, error)
	Delete(ctx context.Context, id string) error
	LatestPortfolioValue(ctx context.Context) (decimal.Decimal, error)
}

// InvestmentServicer defines the contract for transaction record management.
type InvestmentServicer interface {
	List(ctx context.Context, filter InvestmentFilter) ([]models.Investment, error)
	Add(ctx context.Context, input InvestmentInput) (*models.Investment, error)
	AddBulk(ctx context.Context, inputs []InvestmentInput) ([]models.Investment, error)
	Update(ctx context.Context, id string, input InvestmentInput) (*models.Investment, error)
	Delete(ctx context.Context, id string) error
}

// DividendAnalysis is a label/value series of dividend totals grouped by
// year or by calendar month.
type DividendAnalysis struct {
	Mode   string            `json:"mode"`
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// DividendServicer defines the contract for dividend records and analysis.
type DividendServicer interface {
	List(ctx context.Context, filter DividendFilter) ([]models.Dividend, error)
	Add(ctx context.Context, input DividendInput) (*models.Dividend, error)
	Analysis(ctx context.Context, mode, name string) (*DividendAnalysis, error)
}

// DashboardServicer composes the aggregation and rebalancing engine into
// the dashboard payloads.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, year int) (*Dashboard, error)
	GetRebalance(ctx context.Context) (*engine.Result, error)
	GetDCA(ctx context.Context, asset string) (*DCADashboard, error)
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
	"sheetfolio/internal/engine"
	"sheetfolio/internal/models"
	"sheetfolio/internal/store"
)

// Summary is the headline figures for the selected year.
type Summary struct {
	TotalInvestment decimal.Decimal `json:"total_investment"`
	CurrentAsset    decimal.Decimal `json:"current_asset"`
	ProfitLoss      decimal.Decimal `json:"profit_loss"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
}

// PieSlice is one category's share of the current allocation.
type PieSlice struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

// PivotRow is one row of the per-category or per-asset monthly pivot:
// twelve monthly sums, the latest recorded value, and the monthly average.
type PivotRow struct {
	Name   string            `json:"name"`
	Months []decimal.Decimal `json:"months"`
	Total  decimal.Decimal   `json:"total"`
	Avg    decimal.Decimal   `json:"avg"`
}

// MonthlySummary tracks cumulative invested capital against recorded asset
// value per month of the selected year.
type MonthlySummary struct {
	Investment []decimal.Decimal `json:"investment"`
	Asset      []decimal.Decimal `json:"asset"`
	Diff       []decimal.Decimal `json:"diff"`
	DiffPct    []decimal.Decimal `json:"diff_percent"`

	TotalInvestment decimal.Decimal `json:"total_investment"`
	TotalAsset      decimal.Decimal `json:"total_asset"`
	TotalDiff       decimal.Decimal `json:"total_diff"`
	TotalDiffPct    decimal.Decimal `json:"total_diff_percent"`
}

// Dashboard is the full payload behind the main dashboard page.
type Dashboard struct {
	Year           int             `json:"year"`
	Summary        Summary         `json:"summary"`
	Rebalance      engine.Result   `json:"rebalance"`
	Allocation     []PieSlice      `json:"allocation"`
	MonthlySummary MonthlySummary  `json:"monthly_summary"`
	CategoryPivot  []PivotRow      `json:"category_pivot"`
	AssetPivot     []PivotRow      `json:"asset_pivot"`
	TotalTargetPct decimal.Decimal `json:"total_target_pct"`
}

// DCAMetrics summarizes accumulation across all counted buys.
type DCAMetrics struct {
	TotalInvested   decimal.Decimal `json:"total_invested"`
	TotalUnits      decimal.Decimal `json:"total_units"`
	AvgCost         decimal.Decimal `json:"avg_cost"`
	LastPrice       decimal.Decimal `json:"last_price"`
	UnrealizedPL    decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPct decimal.Decimal `json:"unrealized_pl_pct"`
}

// DCAHolding is one asset's accumulation: units bought, capital spent, and
// average cost against the most recent buy price.
type DCAHolding struct {
	Name         string          `json:"name"`
	Invested     decimal.Decimal `json:"invested"`
	Units        decimal.Decimal `json:"units"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	LastPrice    decimal.Decimal `json:"last_price"`
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
}

// DCACostPoint is one buy on the cost-versus-market chart: cumulative capital
// spent, and all units so far valued at that buy's price.
type DCACostPoint struct {
	Date        string          `json:"date"`
	Cost        decimal.Decimal `json:"cost"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// DCAMonthly is the buy totals series per calendar month with activity.
type DCAMonthly struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// DCADashboard is the dollar-cost-averaging view over the Buy transactions.
type DCADashboard struct {
	Metrics     DCAMetrics     `json:"metrics"`
	Breakdown   []DCAHolding   `json:"breakdown"`
	Assets      []string       `json:"assets"`
	CostHistory []DCACostPoint `json:"cost_history"`
	MonthlyBuys DCAMonthly     `json:"monthly_buys"`
}

// dashboardService composes the engine over one fresh read of the three
// tables per request. Nothing is cached between requests.
type dashboardService struct {
	store store.TabularStore
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(st store.TabularStore) DashboardServicer {
	return &dashboardService{store: st}
}

func (s *dashboardService) GetDashboard(ctx context.Context, year int) (*Dashboard, error) {
	settings, assets, investments, err := s.readInputs(ctx)
	if err != nil {
		return nil, err
	}

	yearAssets := filterAssetYear(assets, year)
	yearInvestments := filterInvestmentYear(investments, year)

	activeCategories := settings.ActiveCategories()
	categoryNames := make([]string, 0, len(activeCategories))
	for _, c := range activeCategories {
		categoryNames = append(categoryNames, c.Name)
	}

	transactions := engineTransactions(yearInvestments)
	snapshots := categorySnapshots(yearAssets)

	alloc := engine.Aggregate(snapshots, transactions, categoryNames)
	rebalance := engine.Rebalance(alloc, settings.TargetByCategory())
	totalInvested := engine.TotalFlow(transactions)

	monthly := buildMonthlySummary(year, transactions, yearAssets, alloc.Total)

	dashboard := &Dashboard{
		Year: year,
		Summary: Summary{
			TotalInvestment: totalInvested,
			CurrentAsset:    alloc.Total,
			ProfitLoss:      alloc.Total.Sub(totalInvested),
			StartDate:       fmt.Sprintf("%d-01-01", year),
			EndDate:         fmt.Sprintf("%d-12-31", year),
		},
		Rebalance:      rebalance,
		Allocation:     pieSlices(alloc),
		MonthlySummary: monthly,
		CategoryPivot:  categoryPivot(categoryNames, yearAssets, alloc),
		AssetPivot:     assetPivot(settings.ActiveAssets(), yearAssets),
		TotalTargetPct: settings.TotalTarget(),
	}
	return dashboard, nil
}

// GetRebalance computes allocation versus target over the whole history,
// without the dashboard's year scoping.
func (s *dashboardService) GetRebalance(ctx context.Context) (*engine.Result, error) {
	settings, assets, investments, err := s.readInputs(ctx)
	if err != nil {
		return nil, err
	}

	activeCategories := settings.ActiveCategories()
	categoryNames := make([]string, 0, len(activeCategories))
	for _, c := range activeCategories {
		categoryNames = append(categoryNames, c.Name)
	}

	alloc := engine.Aggregate(categorySnapshots(assets), engineTransactions(investments), categoryNames)
	result := engine.Rebalance(alloc, settings.TargetByCategory())
	return &result, nil
}

// GetDCA builds the dollar-cost-averaging view from the Buy transactions,
// optionally narrowed to one asset name. Buys with no quantity or unit price
// recorded are left out of every figure.
func (s *dashboardService) GetDCA(ctx context.Context, asset string) (*DCADashboard, error) {
	settingRows, err := s.store.ReadAll(ctx, store.TableSettings)
	if err != nil {
		return nil, err
	}
	settings, err := models.SettingsFromRows(settingRows)
	if err != nil {
		return nil, err
	}

	investmentRows, err := s.store.ReadAll(ctx, store.TableInvestment)
	if err != nil {
		return nil, err
	}
	buys := make([]models.Investment, 0, len(investmentRows))
	for _, row := range investmentRows {
		inv, err := models.InvestmentFromRow(row)
		if err != nil {
			return nil, err
		}
		if inv.Action != models.ActionBuy || inv.Quantity == nil || inv.Price == nil {
			continue
		}
		if asset != "" && !strings.EqualFold(inv.Name, asset) {
			continue
		}
		buys = append(buys, inv)
	}
	sort.SliceStable(buys, func(i, j int) bool {
		if !buys[i].Date.Equal(buys[j].Date) {
			return buys[i].Date.Before(buys[j].Date)
		}
		return buys[i].RowIndex < buys[j].RowIndex
	})

	dca := &DCADashboard{
		Breakdown:   []DCAHolding{},
		Assets:      []string{},
		CostHistory: make([]DCACostPoint, 0, len(buys)),
		MonthlyBuys: DCAMonthly{Labels: []string{}, Values: []decimal.Decimal{}},
	}
	for _, a := range settings.ActiveAssets() {
		dca.Assets = append(dca.Assets, a.Name)
	}

	holdings := make(map[string]*DCAHolding)
	monthly := make(map[string]decimal.Decimal)
	cost, units := decimal.Zero, decimal.Zero
	for _, buy := range buys {
		spent := buy.Amount.Abs()

		h := holdings[buy.Name]
		if h == nil {
			h = &DCAHolding{Name: buy.Name}
			holdings[buy.Name] = h
		}
		h.Invested = h.Invested.Add(spent)
		h.Units = h.Units.Add(*buy.Quantity)
		h.LastPrice = *buy.Price

		cost = cost.Add(spent)
		units = units.Add(*buy.Quantity)
		dca.CostHistory = append(dca.CostHistory, DCACostPoint{
			Date:        dates.Display(buy.Date),
			Cost:        cost,
			MarketValue: units.Mul(*buy.Price).Round(2),
		})

		key := dates.MonthKey(buy.Date)
		monthly[key] = monthly[key].Add(spent)
	}

	for _, h := range holdings {
		if h.Units.IsPositive() {
			h.AvgPrice = h.Invested.Div(h.Units).Round(2)
		}
		h.UnrealizedPL = h.LastPrice.Mul(h.Units).Sub(h.Invested).Round(2)
		dca.Breakdown = append(dca.Breakdown, *h)
	}
	sort.Slice(dca.Breakdown, func(i, j int) bool { return dca.Breakdown[i].Name < dca.Breakdown[j].Name })

	labels := make([]string, 0, len(monthly))
	for key := range monthly {
		labels = append(labels, key)
	}
	sort.Strings(labels)
	for _, key := range labels {
		dca.MonthlyBuys.Labels = append(dca.MonthlyBuys.Labels, key)
		dca.MonthlyBuys.Values = append(dca.MonthlyBuys.Values, monthly[key])
	}

	dca.Metrics = DCAMetrics{TotalInvested: cost, TotalUnits: units}
	if len(buys) > 0 {
		dca.Metrics.LastPrice = *buys[len(buys)-1].Price
	}
	if units.IsPositive() {
		dca.Metrics.AvgCost = cost.Div(units).Round(2)
		value := dca.Metrics.LastPrice.Mul(units)
		dca.Metrics.UnrealizedPL = value.Sub(cost).Round(2)
		if cost.IsPositive() {
			dca.Metrics.UnrealizedPLPct = value.Sub(cost).Mul(hundred).Div(cost).Round(2)
		}
	}
	return dca, nil
}

// readInputs performs the one full read of the tables that backs a request.
// A FORMAT_ERROR in any row aborts the whole computation.
func (s *dashboardService) readInputs(ctx context.Context) (models.Settings, []models.Asset, []models.Investment, error) {
	settingRows, err := s.store.ReadAll(ctx, store.TableSettings)
	if err != nil {
		return models.Settings{}, nil, nil, err
	}
	settings, err := models.SettingsFromRows(settingRows)
	if err != nil {
		return models.Settings{}, nil, nil, err
	}

	assetRows, err := s.store.ReadAll(ctx, store.TableCurrentAsset)
	if err != nil {
		return models.Settings{}, nil, nil, err
	}
	assets := make([]models.Asset, 0, len(assetRows))
	for _, row := range assetRows {
		asset, err := models.AssetFromRow(row)
		if err != nil {
			return models.Settings{}, nil, nil, err
		}
		assets = append(assets, asset)
	}

	investmentRows, err := s.store.ReadAll(ctx, store.TableInvestment)
	if err != nil {
		return models.Settings{}, nil, nil, err
	}
	investments := make([]models.Investment, 0, len(investmentRows))
	for _, row := range investmentRows {
		investment, err := models.InvestmentFromRow(row)
		if err != nil {
			return models.Settings{}, nil, nil, err
		}
		investments = append(investments, investment)
	}

	return settings, assets, investments, nil
}

// engineTransactions reduces transaction records to the engine's inputs.
func engineTransactions(investments []models.Investment) []engine.Transaction {
	transactions := make([]engine.Transaction, 0, len(investments))
	for _, inv := range investments {
		transactions = append(transactions, engine.Transaction{
			Category: inv.Category,
			Date:     inv.Date,
			Net:      inv.NetEffect(),
			Flow:     inv.FlowAmount(),
		})
	}
	return transactions
}

// categorySnapshots collapses per-holding snapshot records into one snapshot
// per category: the latest record of each holding, summed by category. The
// synthesized snapshot carries the newest date and row order so the engine's
// latest-wins rule is a no-op over it.
func categorySnapshots(assets []models.Asset) []engine.Snapshot {
	byCategory := make(map[string]*engine.Snapshot)
	for _, a := range latestByName(assets) {
		snap := byCategory[a.Category]
		if snap == nil {
			snap = &engine.Snapshot{Category: a.Category}
			byCategory[a.Category] = snap
		}
		snap.Amount = snap.Amount.Add(a.Amount)
		if a.Date.After(snap.Date) {
			snap.Date = a.Date
		}
		if a.RowIndex > snap.Order {
			snap.Order = a.RowIndex
		}
	}

	snapshots := make([]engine.Snapshot, 0, len(byCategory))
	for _, snap := range byCategory {
		snapshots = append(snapshots, *snap)
	}
	return snapshots
}

func pieSlices(alloc engine.Allocation) []PieSlice {
	slices := make([]PieSlice, 0, len(alloc.Values))
	for category, value := range alloc.Values {
		slices = append(slices, PieSlice{Category: category, Value: value})
	}
	sort.Slice(slices, func(i, j int) bool { return slices[i].Category < slices[j].Category })
	return slices
}

// buildMonthlySummary tracks the running invested total against the asset
// value recorded in each month. Months with neither records nor flows stay
// zeroed so the table reads as "no data" rather than a flat line.
func buildMonthlySummary(year int, transactions []engine.Transaction, assets []models.Asset, currentAsset decimal.Decimal) MonthlySummary {
	flows := engine.MonthlyFlows(transactions)

	monthlyFlow := make([]decimal.Decimal, 12)
	for _, byMonth := range flows {
		for key, amount := range byMonth {
			var y, m int
			if _, err := fmt.Sscanf(key, "%d-%d", &y, &m); err != nil || y != year {
				continue
			}
			monthlyFlow[m-1] = monthlyFlow[m-1].Add(amount)
		}
	}

	monthlyAsset := make([]decimal.Decimal, 12)
	for _, a := range assets {
		if a.Date.Year() == year {
			m := int(a.Date.Month())
			monthlyAsset[m-1] = monthlyAsset[m-1].Add(a.Amount)
		}
	}

	summary := MonthlySummary{
		Investment: make([]decimal.Decimal, 12),
		Asset:      make([]decimal.Decimal, 12),
		Diff:       make([]decimal.Decimal, 12),
		DiffPct:    make([]decimal.Decimal, 12),
	}

	running := decimal.Zero
	for m := 0; m < 12; m++ {
		running = running.Add(monthlyFlow[m])
		asset := monthlyAsset[m]

		if asset.IsZero() && monthlyFlow[m].IsZero() {
			continue
		}

		diff := asset.Sub(running)
		summary.Investment[m] = running
		summary.Asset[m] = asset
		summary.Diff[m] = diff
		if running.IsPositive() {
			summary.DiffPct[m] = diff.Mul(hundred).Div(running)
		}
	}

	summary.TotalInvestment = running
	summary.TotalAsset = currentAsset
	summary.TotalDiff = currentAsset.Sub(running)
	if running.IsPositive() {
		summary.TotalDiffPct = summary.TotalDiff.Mul(hundred).Div(running)
	}
	return summary
}

// categoryPivot builds the per-category monthly view: monthly snapshot sums,
// the category's current value, and the monthly average.
func categoryPivot(categoryNames []string, assets []models.Asset, alloc engine.Allocation) []PivotRow {
	monthly := make(map[string][]decimal.Decimal)
	for _, a := range assets {
		months := monthly[a.Category]
		if months == nil {
			months = make([]decimal.Decimal, 12)
			monthly[a.Category] = months
		}
		months[int(a.Date.Month())-1] = months[int(a.Date.Month())-1].Add(a.Amount)
	}

	rows := make([]PivotRow, 0, len(categoryNames))
	for _, name := range categoryNames {
		months := monthly[name]
		if months == nil {
			months = make([]decimal.Decimal, 12)
		}
		rows = append(rows, PivotRow{
			Name:   name,
			Months: months,
			Total:  alloc.Values[name],
			Avg:    average(months),
		})
	}
	return rows
}

// assetPivot builds the per-holding monthly view over the active asset names.
func assetPivot(activeAssets []models.AssetSetting, assets []models.Asset) []PivotRow {
	monthly := make(map[string][]decimal.Decimal)
	for _, a := range assets {
		months := monthly[a.Name]
		if months == nil {
			months = make([]decimal.Decimal, 12)
			monthly[a.Name] = months
		}
		months[int(a.Date.Month())-1] = months[int(a.Date.Month())-1].Add(a.Amount)
	}

	latest := latestByName(assets)

	rows := make([]PivotRow, 0, len(activeAssets))
	for _, setting := range activeAssets {
		months := monthly[setting.Name]
		if months == nil {
			months = make([]decimal.Decimal, 12)
		}
		rows = append(rows, PivotRow{
			Name:   setting.Name,
			Months: months,
			Total:  latest[setting.Name].Amount,
			Avg:    average(months),
		})
	}
	return rows
}

func average(months []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range months {
		total = total.Add(v)
	}
	return total.Div(decimal.NewFromInt(12))
}

func filterAssetYear(assets []models.Asset, year int) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if a.Date.Year() == year {
			out = append(out, a)
		}
	}
	return out
}

func filterInvestmentYear(investments []models.Investment, year int) []models.Investment {
	out := make([]models.Investment, 0, len(investments))
	for _, inv := range investments {
		if inv.Date.Year() == year {
			out = append(out, inv)
		}
	}
	return out
}

// hundred matches the engine's percentage scale.
var hundred = decimal.NewFromInt(100)

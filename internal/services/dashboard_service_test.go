package services

import (
	"context"
	"testing"

	"sheetfolio/internal/store"
	"sheetfolio/internal/testutil"
)

func seedDashboard() *testutil.MemoryStore {
	st := testutil.NewMemoryStore()
	st.Seed(store.TableSettings,
		testutil.CategoryRow("Stocks", true, "60.00"),
		testutil.CategoryRow("Bonds", true, "40.00"),
		testutil.AssetNameRow("VTI", true),
		testutil.AssetNameRow("BND", true),
	)
	st.Seed(store.TableCurrentAsset,
		testutil.AssetRow("a1", "2025-01-31", "4800", "VTI", "Stocks"),
		testutil.AssetRow("a2", "2025-02-28", "5000", "VTI", "Stocks"),
		testutil.AssetRow("a3", "2025-02-28", "5000", "BND", "Bonds"),
	)
	st.Seed(store.TableInvestment,
		testutil.CashFlowRow("i1", "2025-01-02", "Deposit", "Stocks", "4500"),
		testutil.CashFlowRow("i2", "2025-01-02", "Deposit", "Bonds", "4700"),
		testutil.InvestmentRow("i3", "2025-01-10", "Buy", "VTI", "Stocks", "18", "250", "4500", ""),
	)
	return st
}

func TestGetDashboard(t *testing.T) {
	t.Run("composes_engine_results", func(t *testing.T) {
		svc := NewDashboardService(seedDashboard())

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)

		if dashboard.Year != 2025 {
			t.Errorf("year = %d", dashboard.Year)
		}
		// Latest snapshots: VTI 5000 + BND 5000.
		assertDecimal(t, dashboard.Summary.CurrentAsset, "10000")
		// Deposits only; the buy is not an external flow.
		assertDecimal(t, dashboard.Summary.TotalInvestment, "9200")
		assertDecimal(t, dashboard.Summary.ProfitLoss, "800")
		assertDecimal(t, dashboard.TotalTargetPct, "100")

		if dashboard.Rebalance.NoCapital {
			t.Fatal("unexpected no_capital")
		}
		// 50/50 actual vs 60/40 target on 10k: move 1000 into Stocks.
		for _, rec := range dashboard.Rebalance.Recommendations {
			switch rec.Category {
			case "Stocks":
				assertDecimal(t, rec.RecommendedDelta, "1000")
			case "Bonds":
				assertDecimal(t, rec.RecommendedDelta, "-1000")
			default:
				t.Errorf("unexpected category %q", rec.Category)
			}
		}

		if len(dashboard.Allocation) != 2 || dashboard.Allocation[0].Category != "Bonds" {
			t.Errorf("allocation = %+v", dashboard.Allocation)
		}
	})

	t.Run("monthly_summary_running_invested", func(t *testing.T) {
		svc := NewDashboardService(seedDashboard())

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)

		monthly := dashboard.MonthlySummary
		// January: 9200 invested, 4800 recorded.
		assertDecimal(t, monthly.Investment[0], "9200")
		assertDecimal(t, monthly.Asset[0], "4800")
		assertDecimal(t, monthly.Diff[0], "-4400")
		// February: no new flow, running total carries.
		assertDecimal(t, monthly.Investment[1], "9200")
		assertDecimal(t, monthly.Asset[1], "10000")
		// March onwards: no data, stays zero.
		if !monthly.Investment[2].IsZero() || !monthly.Asset[2].IsZero() {
			t.Errorf("expected zeroed month, got inv=%s asset=%s", monthly.Investment[2], monthly.Asset[2])
		}
		assertDecimal(t, monthly.TotalInvestment, "9200")
		assertDecimal(t, monthly.TotalAsset, "10000")
		assertDecimal(t, monthly.TotalDiff, "800")
	})

	t.Run("pivots_follow_settings", func(t *testing.T) {
		svc := NewDashboardService(seedDashboard())

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)

		if len(dashboard.CategoryPivot) != 2 {
			t.Fatalf("category pivot rows = %d", len(dashboard.CategoryPivot))
		}
		stocks := dashboard.CategoryPivot[0]
		if stocks.Name != "Stocks" {
			t.Fatalf("first pivot row = %q", stocks.Name)
		}
		assertDecimal(t, stocks.Months[0], "4800")
		assertDecimal(t, stocks.Months[1], "5000")
		assertDecimal(t, stocks.Total, "5000")

		if len(dashboard.AssetPivot) != 2 {
			t.Fatalf("asset pivot rows = %d", len(dashboard.AssetPivot))
		}
		vti := dashboard.AssetPivot[0]
		if vti.Name != "VTI" {
			t.Fatalf("first asset row = %q", vti.Name)
		}
		assertDecimal(t, vti.Total, "5000")
	})

	t.Run("year_scoping_excludes_other_years", func(t *testing.T) {
		st := seedDashboard()
		st.Seed(store.TableCurrentAsset, testutil.AssetRow("a9", "2024-12-31", "99999", "VTI", "Stocks"))
		st.Seed(store.TableInvestment, testutil.CashFlowRow("i9", "2024-12-01", "Deposit", "Stocks", "99999"))
		svc := NewDashboardService(st)

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)
		assertDecimal(t, dashboard.Summary.CurrentAsset, "10000")
		assertDecimal(t, dashboard.Summary.TotalInvestment, "9200")
	})

	t.Run("inactive_category_excluded_from_targets", func(t *testing.T) {
		st := testutil.NewMemoryStore()
		st.Seed(store.TableSettings,
			testutil.CategoryRow("Stocks", true, "100.00"),
			testutil.CategoryRow("Old", false, "50.00"),
		)
		st.Seed(store.TableCurrentAsset,
			testutil.AssetRow("a1", "2025-01-31", "1000", "VTI", "Stocks"),
		)
		svc := NewDashboardService(st)

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)
		assertDecimal(t, dashboard.TotalTargetPct, "100")
		for _, rec := range dashboard.Rebalance.Recommendations {
			if rec.Category == "Old" {
				t.Error("inactive category leaked into rebalance")
			}
		}
	})

	t.Run("configured_category_without_activity", func(t *testing.T) {
		st := testutil.NewMemoryStore()
		st.Seed(store.TableSettings,
			testutil.CategoryRow("Stocks", true, "80.00"),
			testutil.CategoryRow("Gold", true, "20.00"),
		)
		st.Seed(store.TableCurrentAsset,
			testutil.AssetRow("a1", "2025-01-31", "8000", "VTI", "Stocks"),
		)
		svc := NewDashboardService(st)

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)

		found := false
		for _, rec := range dashboard.Rebalance.Recommendations {
			if rec.Category == "Gold" {
				found = true
				assertDecimal(t, rec.RecommendedDelta, "1600")
			}
		}
		if !found {
			t.Error("zero-activity category missing from rebalance")
		}
	})

	t.Run("malformed_row_aborts_whole_dashboard", func(t *testing.T) {
		st := seedDashboard()
		st.Seed(store.TableInvestment, testutil.InvestmentRow("bad", "2025-05-01", "Deposit", "", "Stocks", "", "", "1,x00", ""))
		svc := NewDashboardService(st)

		_, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertAppError(t, err, "FORMAT_ERROR")
	})

	t.Run("empty_sheets_report_no_capital", func(t *testing.T) {
		svc := NewDashboardService(testutil.NewMemoryStore())

		dashboard, err := svc.GetDashboard(context.Background(), 2025)
		testutil.AssertNoError(t, err)
		if !dashboard.Rebalance.NoCapital {
			t.Error("expected no_capital with no data")
		}
	})
}

func TestGetRebalance(t *testing.T) {
	t.Run("uses_full_history", func(t *testing.T) {
		st := seedDashboard()
		// A later snapshot outside 2025 still counts here.
		st.Seed(store.TableCurrentAsset, testutil.AssetRow("a9", "2026-01-31", "6000", "VTI", "Stocks"))
		svc := NewDashboardService(st)

		result, err := svc.GetRebalance(context.Background())
		testutil.AssertNoError(t, err)
		assertDecimal(t, result.TotalValue, "11000")
	})

	t.Run("store_failure_propagates", func(t *testing.T) {
		st := seedDashboard()
		st.FailWith(errStoreDown)
		svc := NewDashboardService(st)

		_, err := svc.GetRebalance(context.Background())
		testutil.AssertAppError(t, err, "STORE_UNAVAILABLE")
	})
}

func seedDCA() *testutil.MemoryStore {
	st := testutil.NewMemoryStore()
	st.Seed(store.TableSettings,
		testutil.CategoryRow("Crypto", true, "50.00"),
		testutil.AssetNameRow("BTC", true),
		testutil.AssetNameRow("ETH", true),
		testutil.AssetNameRow("AAPL", true),
	)
	st.Seed(store.TableInvestment,
		testutil.InvestmentRow("i1", "2025-01-01", "Buy", "BTC", "Crypto", "0.1", "40000", "4000", ""),
		testutil.InvestmentRow("i2", "2025-02-01", "Buy", "BTC", "Crypto", "0.1", "45000", "4500", ""),
		testutil.InvestmentRow("i3", "2025-03-01", "Buy", "ETH", "Crypto", "1", "3000", "3000", ""),
		testutil.CashFlowRow("i4", "2025-04-01", "Deposit", "Crypto", "10000"),
	)
	return st
}

func TestGetDCA(t *testing.T) {
	t.Run("accumulates_buys_only", func(t *testing.T) {
		svc := NewDashboardService(seedDCA())

		dca, err := svc.GetDCA(context.Background(), "")
		testutil.AssertNoError(t, err)

		assertDecimal(t, dca.Metrics.TotalInvested, "11500")
		assertDecimal(t, dca.Metrics.TotalUnits, "1.2")
		assertDecimal(t, dca.Metrics.AvgCost, "9583.33")
		// Most recent buy is the ETH one.
		assertDecimal(t, dca.Metrics.LastPrice, "3000")
		// 1.2 units at 3000 against 11500 spent.
		assertDecimal(t, dca.Metrics.UnrealizedPL, "-7900")
		assertDecimal(t, dca.Metrics.UnrealizedPLPct, "-68.70")

		if len(dca.Breakdown) != 2 {
			t.Fatalf("breakdown = %+v", dca.Breakdown)
		}
		if len(dca.Assets) != 3 || dca.Assets[0] != "BTC" {
			t.Errorf("assets = %v", dca.Assets)
		}
	})

	t.Run("per_asset_breakdown", func(t *testing.T) {
		svc := NewDashboardService(seedDCA())

		dca, err := svc.GetDCA(context.Background(), "")
		testutil.AssertNoError(t, err)

		btc := dca.Breakdown[0]
		if btc.Name != "BTC" {
			t.Fatalf("breakdown[0] = %+v", btc)
		}
		assertDecimal(t, btc.Invested, "8500")
		assertDecimal(t, btc.Units, "0.2")
		assertDecimal(t, btc.AvgPrice, "42500")
		assertDecimal(t, btc.LastPrice, "45000")
		// 0.2 units at 45000 against 8500 spent.
		assertDecimal(t, btc.UnrealizedPL, "500")

		eth := dca.Breakdown[1]
		assertDecimal(t, eth.Invested, "3000")
		assertDecimal(t, eth.Units, "1")
	})

	t.Run("asset_filter_narrows_every_figure", func(t *testing.T) {
		svc := NewDashboardService(seedDCA())

		dca, err := svc.GetDCA(context.Background(), "btc")
		testutil.AssertNoError(t, err)

		assertDecimal(t, dca.Metrics.TotalInvested, "8500")
		assertDecimal(t, dca.Metrics.TotalUnits, "0.2")
		assertDecimal(t, dca.Metrics.AvgCost, "42500")
		assertDecimal(t, dca.Metrics.LastPrice, "45000")
		if len(dca.Breakdown) != 1 || dca.Breakdown[0].Name != "BTC" {
			t.Errorf("breakdown = %+v", dca.Breakdown)
		}
	})

	t.Run("cost_history_is_cumulative", func(t *testing.T) {
		svc := NewDashboardService(seedDCA())

		dca, err := svc.GetDCA(context.Background(), "")
		testutil.AssertNoError(t, err)

		if len(dca.CostHistory) != 3 {
			t.Fatalf("cost history = %+v", dca.CostHistory)
		}
		assertDecimal(t, dca.CostHistory[0].Cost, "4000")
		assertDecimal(t, dca.CostHistory[1].Cost, "8500")
		assertDecimal(t, dca.CostHistory[2].Cost, "11500")
		// All units so far valued at each buy's price.
		assertDecimal(t, dca.CostHistory[0].MarketValue, "4000")
		assertDecimal(t, dca.CostHistory[1].MarketValue, "9000")
		assertDecimal(t, dca.CostHistory[2].MarketValue, "3600")
		if dca.CostHistory[0].Date != "01/01/2025" {
			t.Errorf("date = %q", dca.CostHistory[0].Date)
		}
	})

	t.Run("monthly_buy_totals", func(t *testing.T) {
		svc := NewDashboardService(seedDCA())

		dca, err := svc.GetDCA(context.Background(), "")
		testutil.AssertNoError(t, err)

		wantLabels := []string{"2025-01", "2025-02", "2025-03"}
		if len(dca.MonthlyBuys.Labels) != len(wantLabels) {
			t.Fatalf("labels = %v", dca.MonthlyBuys.Labels)
		}
		for i, want := range wantLabels {
			if dca.MonthlyBuys.Labels[i] != want {
				t.Errorf("labels[%d] = %q", i, dca.MonthlyBuys.Labels[i])
			}
		}
		assertDecimal(t, dca.MonthlyBuys.Values[1], "4500")
	})

	t.Run("skips_buys_without_quantity_or_price", func(t *testing.T) {
		st := seedDCA()
		st.Seed(store.TableInvestment,
			testutil.InvestmentRow("i5", "2025-05-01", "Buy", "SOL", "Crypto", "", "100", "1000", ""),
			testutil.InvestmentRow("i6", "2025-05-02", "Buy", "SOL", "Crypto", "10", "", "1000", ""),
		)
		svc := NewDashboardService(st)

		dca, err := svc.GetDCA(context.Background(), "")
		testutil.AssertNoError(t, err)

		assertDecimal(t, dca.Metrics.TotalInvested, "11500")
		if len(dca.Breakdown) != 2 {
			t.Errorf("breakdown = %+v", dca.Breakdown)
		}
	})

	t.Run("empty_log_yields_zeroes", func(t *testing.T) {
		svc := NewDashboardService(testutil.NewMemoryStore())

		dca, err := svc.GetDCA(context.Background(), "")
		testutil.AssertNoError(t, err)

		assertDecimal(t, dca.Metrics.TotalInvested, "0")
		assertDecimal(t, dca.Metrics.UnrealizedPLPct, "0")
		if len(dca.Breakdown) != 0 || len(dca.CostHistory) != 0 {
			t.Errorf("unexpected data: %+v", dca)
		}
	})

	t.Run("store_failure_propagates", func(t *testing.T) {
		st := seedDCA()
		st.FailWith(errStoreDown)
		svc := NewDashboardService(st)

		_, err := svc.GetDCA(context.Background(), "")
		testutil.AssertAppError(t, err, "STORE_UNAVAILABLE")
	})
}

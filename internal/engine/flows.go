package engine

import (
	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
)

// MonthlyFlows buckets the signed external cash flows by category and
// calendar month ("2006-01" keys). Trades move value between categories but
// are not external flows, so they contribute nothing here.
func MonthlyFlows(transactions []Transaction) map[string]map[string]decimal.Decimal {
	flows := make(map[string]map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Flow.IsZero() {
			continue
		}
		byMonth := flows[t.Category]
		if byMonth == nil {
			byMonth = make(map[string]decimal.Decimal)
			flows[t.Category] = byMonth
		}
		key := dates.MonthKey(t.Date)
		byMonth[key] = byMonth[key].Add(t.Flow)
	}
	return flows
}

// TotalFlow sums the signed external cash flows across all transactions;
// this is the "total invested" figure on the dashboard.
func TotalFlow(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Flow)
	}
	return total
}

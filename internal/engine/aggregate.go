// Package engine turns raw snapshot and transaction data into current
// allocations, target deviations, and rebalancing recommendations.
//
// Every function here is pure: no I/O, no caching, deterministic output for
// the same input. The services read fresh rows from the store on each
// request and adapt them into the engine's input types.
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time value for one category. Order is the row's
// position in store order and breaks ties between snapshots sharing the
// latest date: the row appended last wins.
type Snapshot struct {
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Order    int
}

// Transaction is one entry of the transaction log, reduced to what the
// engine needs: the signed effect on the category's holdings (Net) and the
// signed external cash flow (Flow).
type Transaction struct {
	Category string
	Date     time.Time
	Net      decimal.Decimal
	Flow     decimal.Decimal
}

// Allocation maps each category to its current value.
type Allocation struct {
	Values map[string]decimal.Decimal
	Total  decimal.Decimal
}

// Aggregate computes the current value per category.
//
// For each category only the latest-dated snapshot counts; categories with
// no snapshot at all fall back to the running net of their transactions,
// starting from zero. Negative derived values are retained as-is: they
// signal a data-entry or oversell condition and are surfaced, not hidden.
//
// The result contains exactly the union of categories appearing in the
// configured category list, the snapshots, and the transactions, so a
// configured category with zero activity still shows up with value 0.
func Aggregate(snapshots []Snapshot, transactions []Transaction, categories []string) Allocation {
	latest := make(map[string]Snapshot)
	for _, s := range snapshots {
		cur, ok := latest[s.Category]
		if !ok || s.Date.After(cur.Date) || (s.Date.Equal(cur.Date) && s.Order > cur.Order) {
			latest[s.Category] = s
		}
	}

	net := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		net[t.Category] = net[t.Category].Add(t.Net)
	}

	values := make(map[string]decimal.Decimal)
	for _, c := range categories {
		values[c] = decimal.Zero
	}
	for c := range net {
		values[c] = decimal.Zero
	}
	for c, s := range latest {
		values[c] = s.Amount
	}
	for c := range values {
		if _, ok := latest[c]; !ok {
			values[c] = net[c]
		}
	}

	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}

	return Allocation{Values: values, Total: total}
}

package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Recommendation is the corrective action for one category. Field names are
// a stable output contract consumed by the presentation layer.
type Recommendation struct {
	Category         string          `json:"category"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	CurrentPct       decimal.Decimal `json:"current_pct"`
	TargetPct        decimal.Decimal `json:"target_pct"`
	DeviationPct     decimal.Decimal `json:"deviation_pct"`
	RecommendedDelta decimal.Decimal `json:"recommended_delta"`
}

// Result is the outcome of a rebalancing calculation. NoCapital marks the
// zero-total case: the UI shows "add funds" instead of dividing by zero.
type Result struct {
	NoCapital       bool             `json:"no_capital"`
	TotalValue      decimal.Decimal  `json:"total_value"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Rebalance compares the current allocation against the target percentages
// and emits the signed amount to move into (+) or out of (-) each category
// to hit the target exactly, holding the total constant.
//
// Categories present on only one side are treated as 0 on the other: a
// newly added target category naturally starts at 0%. Percentages are on
// the 0-100 scale. Recommendations are ordered by |delta| descending so the
// largest corrective action comes first, ties broken by category name.
//
// The deltas are derived as target%*total - value, so they sum to zero
// exactly whenever the targets sum to 100%; cent-rounding keeps the sum
// within a one-cent epsilon.
func Rebalance(alloc Allocation, targets map[string]decimal.Decimal) Result {
	union := make(map[string]struct{}, len(alloc.Values)+len(targets))
	for c := range alloc.Values {
		union[c] = struct{}{}
	}
	for c := range targets {
		union[c] = struct{}{}
	}

	noCapital := alloc.Total.IsZero()
	recs := make([]Recommendation, 0, len(union))

	for c := range union {
		value := alloc.Values[c]
		target := targets[c]

		rec := Recommendation{
			Category:     c,
			CurrentValue: value,
			TargetPct:    target,
		}

		if !noCapital {
			rec.CurrentPct = value.Mul(hundred).Div(alloc.Total)
			rec.DeviationPct = target.Sub(rec.CurrentPct)
			rec.RecommendedDelta = target.Mul(alloc.Total).Div(hundred).Sub(value).Round(2)
		}

		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		cmp := recs[i].RecommendedDelta.Abs().Cmp(recs[j].RecommendedDelta.Abs())
		if cmp != 0 {
			return cmp > 0
		}
		return recs[i].Category < recs[j].Category
	})

	return Result{
		NoCapital:       noCapital,
		TotalValue:      alloc.Total,
		Recommendations: recs,
	}
}

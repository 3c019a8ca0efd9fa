package testutil

import (
	"fmt"
	"sync/atomic"
)

// counter provides unique IDs across fixtures within a test run.
var counter atomic.Int64

// NextID returns a unique record ID for fixtures.
func NextID() string {
	return fmt.Sprintf("test-id-%04d", counter.Add(1))
}

// CategoryRow builds a Settings row defining a category.
func CategoryRow(name string, active bool, targetPct string) []string {
	return []string{name, boolCell(active), targetPct, "", ""}
}

// AssetNameRow builds a Settings row defining an asset name.
func AssetNameRow(name string, active bool) []string {
	return []string{"", "", "", name, boolCell(active)}
}

// AssetRow builds a Current Asset row in worksheet column order.
func AssetRow(id, date, amount, name, category string) []string {
	return []string{id, date, amount, name, category}
}

// InvestmentRow builds an Investment row in worksheet column order.
func InvestmentRow(id, date, action, name, category, quantity, price, amount, note string) []string {
	return []string{id, date, action, name, category, quantity, price, amount, note}
}

// CashFlowRow builds a Deposit or Withdraw Investment row (no quantity or
// unit price).
func CashFlowRow(id, date, action, category, amount string) []string {
	return InvestmentRow(id, date, action, "", category, "", "", amount, "")
}

// DividendRow builds a Dividends row in worksheet column order.
func DividendRow(id, date, name, category, amount, reinvested, note string) []string {
	return []string{id, date, name, category, amount, reinvested, note}
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

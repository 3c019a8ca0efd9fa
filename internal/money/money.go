// Package money parses and formats monetary amounts.
//
// The spreadsheet adapter only moves raw text, so every amount crosses this
// boundary twice: once when a cell is parsed into an exact decimal and once
// when a decimal is written back. Parse and Format are pure and round-trip:
// Parse(Format(x)) == x.Round(2) for every x.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Symbols stripped before numeric parsing. The sheet mixes bare numbers with
// display strings like "฿1,000.50".
var currencySymbols = []string{"฿", "$", "€", "£"}

// Parse converts a raw cell value into an exact decimal amount.
// It strips currency symbols, thousands separators, and surrounding
// whitespace. Negative amounts are permitted (withdrawals and sells).
// Empty or non-numeric input is an error; callers attach the row context.
func Parse(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	for _, sym := range currencySymbols {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a numeric amount: %q", raw)
	}
	return d, nil
}

// Format renders an amount with fixed two-decimal precision and thousands
// separators, without a currency symbol. This is the canonical store/write
// representation.
func Format(d decimal.Decimal) string {
	fixed := d.Round(2).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	out := grouped + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// Display renders an amount with the currency symbol for the given ISO 4217
// code, e.g. "฿1,000.50" for THB.
func Display(d decimal.Decimal, code string) string {
	minor := d.Round(2).Shift(2).IntPart()
	return gomoney.New(minor, code).Display()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "sheetfolio/internal/errors"
)

// errStoreDown simulates the spreadsheet backend being unreachable.
var errStoreDown = apperrors.Wrap(apperrors.ErrStoreUnavailable, errors.New("sheet backend down"))

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Errorf("got %s, want %s", got, want)
	}
}

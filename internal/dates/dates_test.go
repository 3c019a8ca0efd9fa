package dates

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := Parse("2025-03-14")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("Parse = %v, want %v", got, want)
		}
	})

	t.Run("trims_whitespace", func(t *testing.T) {
		if _, err := Parse("  2025-03-14 "); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects_other_formats", func(t *testing.T) {
		for _, raw := range []string{"14/03/2025", "2025-3-4", "March 14, 2025", "", "not-a-date"} {
			if _, err := Parse(raw); err == nil {
				t.Errorf("Parse(%q) expected error, got nil", raw)
			}
		}
	})
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2025-03-14" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := Display(d); got != "14/03/2025" {
		t.Errorf("Display = %q", got)
	}
	if got := MonthKey(d); got != "2025-03" {
		t.Errorf("MonthKey = %q", got)
	}
}

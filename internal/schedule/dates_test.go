package schedule

import (
	"testing"
	"time"
)

func TestResolveDate_YearRollover(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		month    time.Month
		ctxYear  int
		ctxMonth time.Month
		want     string
	}{
		{"same month", 8, time.December, 2024, time.December, "2024-12-08"},
		{"december context january token", 2, time.January, 2024, time.December, "2025-01-02"},
		{"december context february token", 15, time.February, 2024, time.December, "2025-02-15"},
		{"december context march token stays", 1, time.March, 2024, time.December, "2024-03-01"},
		{"november context january token stays", 2, time.January, 2024, time.November, "2024-01-02"},
		{"january context december token stays", 30, time.December, 2025, time.January, "2025-12-30"},
		{"mid year", 20, time.June, 2024, time.June, "2024-06-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDate(tt.day, tt.month, tt.ctxYear, tt.ctxMonth)
			if got != tt.want {
				t.Errorf("ResolveDate(%d, %v, %d, %v) = %s, want %s",
					tt.day, tt.month, tt.ctxYear, tt.ctxMonth, got, tt.want)
			}
		})
	}
}

func TestParseDayMonthToken(t *testing.T) {
	day, month, err := ParseDayMonthToken("08Dec")
	if err != nil {
		t.Fatalf("ParseDayMonthToken failed: %v", err)
	}
	if day != 8 || month != time.December {
		t.Errorf("got day=%d month=%v, want 8 December", day, month)
	}

	day, month, err = ParseDayMonthToken("8Jan")
	if err != nil {
		t.Fatalf("single-digit day failed: %v", err)
	}
	if day != 8 || month != time.January {
		t.Errorf("got day=%d month=%v, want 8 January", day, month)
	}

	for _, bad := range []string{"", "Dec", "08Dez", "99Dec", "0Dec", "Decem"} {
		if _, _, err := ParseDayMonthToken(bad); err == nil {
			t.Errorf("ParseDayMonthToken(%q) should fail", bad)
		}
	}
}

func TestResolveDateToken(t *testing.T) {
	got, err := ResolveDateToken("02Jan", 2024, time.December)
	if err != nil {
		t.Fatalf("ResolveDateToken failed: %v", err)
	}
	if got != "2025-01-02" {
		t.Errorf("got %s, want 2025-01-02", got)
	}

	if _, err := ResolveDateToken("bogus", 2024, time.December); err == nil {
		t.Error("ResolveDateToken should fail on malformed token")
	}
}

func TestMonthFromAbbrev_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"dec", "Dec", "DEC"} {
		m, ok := MonthFromAbbrev(s)
		if !ok || m != time.December {
			t.Errorf("MonthFromAbbrev(%q) = %v, %v", s, m, ok)
		}
	}
	if _, ok := MonthFromAbbrev("xyz"); ok {
		t.Error("MonthFromAbbrev should reject unknown abbreviations")
	}
}

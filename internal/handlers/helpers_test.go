package handlers

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		month     string
		year      string
		wantMonth int
		wantYear  int
		wantErr   bool
	}{
		{"both empty", "", "", 3, 2025, false},
		{"month only", "11", "", 11, 2025, false},
		{"year only", "", "2024", 3, 2024, false},
		{"both", "1", "2030", 1, 2030, false},
		{"month zero", "0", "", 0, 0, true},
		{"month 13", "13", "", 0, 0, true},
		{"month text", "march", "", 0, 0, true},
		{"year 1999", "", "1999", 0, 0, true},
		{"year 2101", "", "2101", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year, err := parsePeriod(tt.month, tt.year, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if month != tt.wantMonth || year != tt.wantYear {
				t.Errorf("expected %d/%d, got %d/%d", tt.wantMonth, tt.wantYear, month, year)
			}
		})
	}
}

func TestParsePeriodUsesUTC(t *testing.T) {
	// 23:30 on Jan 31 at UTC-5 is already February in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	now := time.Date(2025, time.January, 31, 23, 30, 0, 0, loc)

	month, year, err := parsePeriod("", "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if month != 2 || year != 2025 {
		t.Errorf("expected 2/2025, got %d/%d", month, year)
	}
}

func TestParseFlexibleTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-03-14", time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), false},
		{"2025-03-14T08:30:00Z", time.Date(2025, time.March, 14, 8, 30, 0, 0, time.UTC), false},
		{"14/03/2025", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFlexibleTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

package timezone_test

import (
	"meridian/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	// Test Now() function
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	// Test GetLocation()
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("Expected converted time to have a location")
	}
}

func TestDate(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}

	// Midnight in Jakarta and midnight UTC on the same calendar date are
	// different instants but the same date.
	local := time.Date(2026, 5, 1, 0, 0, 0, 0, jakarta)
	utc := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	if !timezone.Date(local).Equal(timezone.Date(utc)) {
		t.Errorf("Date() mismatch: %v vs %v", timezone.Date(local), timezone.Date(utc))
	}

	if got := timezone.Date(local); got.Location() != time.UTC {
		t.Errorf("Date() location = %v, want UTC", got.Location())
	}
}

func TestDaysBetween(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "plain three day span",
			from: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
			want: 3,
		},
		{
			name: "spring forward keeps both nights",
			from: time.Date(2027, 3, 13, 0, 0, 0, 0, newYork),
			to:   time.Date(2027, 3, 15, 0, 0, 0, 0, newYork),
			want: 2,
		},
		{
			name: "fall back does not add a night",
			from: time.Date(2026, 10, 31, 0, 0, 0, 0, newYork),
			to:   time.Date(2026, 11, 2, 0, 0, 0, 0, newYork),
			want: 2,
		},
		{
			name: "same date",
			from: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := timezone.DaysBetween(tc.from, tc.to); got != tc.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

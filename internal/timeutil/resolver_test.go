package timeutil

import (
	"testing"
	"time"
)

func TestCodingDay(t *testing.T) {
	tests := []struct {
		name     string
		instant  string
		offset   float64
		boundary int
		expected string
	}{
		{"midday UTC, no offset", "2024-03-10T12:00:00Z", 0, 0, "2024-03-10"},
		{"2am before boundary counts as previous day", "2024-03-10T02:30:00Z", 0, 4, "2024-03-09"},
		{"4am exactly starts the new day", "2024-03-10T04:00:00Z", 0, 4, "2024-03-10"},
		{"fractional offset IST", "2024-03-10T20:00:00Z", 5.5, 0, "2024-03-11"},
		{"negative offset crosses back", "2024-03-10T01:00:00Z", -5, 0, "2024-03-09"},
		{"offset and boundary combine", "2024-03-10T08:00:00Z", -5, 4, "2024-03-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := time.Parse(time.RFC3339, tt.instant)
			if err != nil {
				t.Fatalf("parse instant: %v", err)
			}
			got := CodingDay(instant, tt.offset, tt.boundary)
			if got != tt.expected {
				t.Errorf("CodingDay(%s, %v, %d) = %s, expected %s",
					tt.instant, tt.offset, tt.boundary, got, tt.expected)
			}
		})
	}
}

func TestLocalHour(t *testing.T) {
	instant, _ := time.Parse(time.RFC3339, "2024-03-10T20:00:00Z")

	if got := LocalHour(instant, 0); got != 20 {
		t.Errorf("LocalHour UTC = %d, expected 20", got)
	}
	if got := LocalHour(instant, 5.5); got != 1 {
		t.Errorf("LocalHour +5.5 = %d, expected 1 (next local day)", got)
	}
	if got := LocalHour(instant, -8); got != 12 {
		t.Errorf("LocalHour -8 = %d, expected 12", got)
	}
}

func TestLocalHourIndependentOfBoundary(t *testing.T) {
	// LocalHour ignores the day boundary entirely; only CodingDay shifts.
	instant, _ := time.Parse(time.RFC3339, "2024-03-10T02:30:00Z")
	if got := LocalHour(instant, 0); got != 2 {
		t.Errorf("LocalHour = %d, expected 2", got)
	}
	if day := CodingDay(instant, 0, 4); day != "2024-03-09" {
		t.Errorf("CodingDay = %s, expected 2024-03-09", day)
	}
}

func TestSameCodingDay(t *testing.T) {
	late, _ := time.Parse(time.RFC3339, "2024-03-09T23:30:00Z")
	early, _ := time.Parse(time.RFC3339, "2024-03-10T02:00:00Z")
	morning, _ := time.Parse(time.RFC3339, "2024-03-10T09:00:00Z")

	// With boundary 4, a 23:30→02:00 run is one coding day.
	if !SameCodingDay(late, early, 0, 4) {
		t.Error("23:30 and 02:00 should share a coding day with boundary 4")
	}
	if SameCodingDay(early, morning, 0, 4) {
		t.Error("02:00 and 09:00 should not share a coding day with boundary 4")
	}
	// With boundary 0 the calendar date splits them.
	if SameCodingDay(late, early, 0, 0) {
		t.Error("23:30 and 02:00 should split at midnight with boundary 0")
	}
}

func TestHourKey(t *testing.T) {
	instant, _ := time.Parse(time.RFC3339, "2024-03-10T02:30:00Z")
	key := HourKey(instant, 0, 4)
	expected := DayHour{Day: "2024-03-09", Hour: 2}
	if key != expected {
		t.Errorf("HourKey = %+v, expected %+v", key, expected)
	}
}

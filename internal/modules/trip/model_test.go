package trip

import (
	"testing"
	"time"
)

// TestCanTransition verifies the status transition table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusCompleted, true},
		{StatusCancelled, StatusActive, true},
		// completed is terminal
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		// no cancelled → completed shortcut
		{StatusCancelled, StatusCompleted, false},
		{StatusActive, StatusActive, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"car", ModeCar, true},
		{"  Train ", ModeTrain, true},
		{"FLIGHT", ModeFlight, true},
		{"hovercraft", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseMode(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParsePreference(t *testing.T) {
	cases := []struct {
		in   string
		want Preference
		ok   bool
	}{
		{"cheapest", PreferCheapest, true},
		{"Fastest", PreferFastest, true},
		{"", PreferShortest, true},
		{"scenic", "", false},
	}
	for _, tc := range cases {
		got, ok := ParsePreference(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePreference(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSameCalendarDate(t *testing.T) {
	d1 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	d3 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	if !SameCalendarDate(d1, d2) {
		t.Error("same day, different times must match")
	}
	if SameCalendarDate(d2, d3) {
		t.Error("adjacent days must not match")
	}
}

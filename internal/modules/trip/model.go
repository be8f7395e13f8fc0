// README: Trip aggregate, enums, and status transitions.
package trip

import (
	"strings"
	"time"

	"waymate/internal/types"
)

type Mode string

const (
	ModeCar     Mode = "car"
	ModeCycling Mode = "cycling"
	ModeWalking Mode = "walking"
	ModeBus     Mode = "bus"
	ModeTrain   Mode = "train"
	ModeFlight  Mode = "flight"
)

func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCar, ModeCycling, ModeWalking, ModeBus, ModeTrain, ModeFlight:
		return m, true
	default:
		return "", false
	}
}

type Preference string

const (
	PreferShortest Preference = "shortest"
	PreferCheapest Preference = "cheapest"
	PreferFastest  Preference = "fastest"
)

// ParsePreference defaults to shortest when the input is empty.
func ParsePreference(s string) (Preference, bool) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferShortest, PreferCheapest, PreferFastest:
		return p, true
	case "":
		return PreferShortest, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// AllowedTransitions represents the trip status flow as code. Cancelling is
// reversible; completion is terminal.
var AllowedTransitions = map[Status][]Status{
	StatusActive:    {StatusCancelled, StatusCompleted},
	StatusCancelled: {StatusActive},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type Trip struct {
	ID              types.ID
	UserID          types.ID
	Origin          string
	Destination     string
	OriginCoord     *types.Point
	DestCoord       *types.Point
	Date            time.Time // calendar date; time-of-day carried separately
	TimeOfDay       string    // "HH:MM", informational
	Mode            Mode
	Preference      Preference
	Status          Status
	Polyline        []types.Point // empty when routing was unavailable
	DistanceMeters  int
	DurationSeconds int
	EstimatedCost   float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasRoute reports whether a resolved polyline is attached. Route-proximity
// scoring rules are skipped without one.
func (t *Trip) HasRoute() bool {
	return len(t.Polyline) > 0
}

// SameCalendarDate compares only year/month/day.
func SameCalendarDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

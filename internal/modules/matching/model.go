// README: Match records, scoring rule weights, and reason tags.
package matching

import (
	"time"

	"waymate/internal/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Match is one direction of a mirrored pair: the subject trip's owner sees it
// in their match list. The mirror row swaps subject and candidate and carries
// the same score and creation time.
type Match struct {
	ID              types.ID
	SubjectTripID   types.ID
	CandidateTripID types.ID
	Score           int
	Status          Status
	CreatedAt       time.Time
}

// Reason tags which scoring rules fired, for diagnostics.
type Reason string

const (
	ReasonSameDestination Reason = "same_destination"
	ReasonPickupOnRoute   Reason = "pickup_on_route"
	ReasonDropoffOnRoute  Reason = "dropoff_on_route"
	ReasonRouteOverlap    Reason = "route_overlap"
	ReasonSameDate        Reason = "same_date"
	ReasonSameMode        Reason = "same_mode"
)

// Rule weights. A candidate must strictly exceed the configured threshold
// (default 50), so a destination-only hit alone never matches.
const (
	pointsSameDestination = 50
	pointsPickupOnRoute   = 40
	pointsDropoffOnRoute  = 40
	pointsRouteOverlap    = 30
	pointsSameDate        = 30
	pointsSameMode        = 20
)

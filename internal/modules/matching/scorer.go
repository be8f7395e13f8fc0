// README: Pairwise trip compatibility scoring (pure function).
package matching

import (
	"strings"

	"waymate/internal/geo"
	"waymate/internal/modules/trip"
)

// Score computes the compatibility of candidate against subject. Rules are
// additive and independent; route-proximity rules are silently skipped when
// the required polyline or coordinate is missing. The proximity rules are
// deliberately asymmetric: Score(a, b) need not equal Score(b, a).
func Score(subject, candidate *trip.Trip, radiusKm float64) (int, []Reason) {
	score := 0
	var reasons []Reason
	hit := func(points int, r Reason) {
		score += points
		reasons = append(reasons, r)
	}

	if sameText(subject.Destination, candidate.Destination) {
		hit(pointsSameDestination, ReasonSameDestination)
	}
	if subject.OriginCoord != nil && candidate.HasRoute() &&
		geo.IsNearRouteKm(*subject.OriginCoord, candidate.Polyline, radiusKm) {
		hit(pointsPickupOnRoute, ReasonPickupOnRoute)
	}
	if subject.DestCoord != nil && candidate.HasRoute() &&
		geo.IsNearRouteKm(*subject.DestCoord, candidate.Polyline, radiusKm) {
		hit(pointsDropoffOnRoute, ReasonDropoffOnRoute)
	}
	if candidate.OriginCoord != nil && subject.HasRoute() &&
		geo.IsNearRouteKm(*candidate.OriginCoord, subject.Polyline, radiusKm) {
		hit(pointsRouteOverlap, ReasonRouteOverlap)
	}
	if trip.SameCalendarDate(subject.Date, candidate.Date) {
		hit(pointsSameDate, ReasonSameDate)
	}
	if sameText(string(subject.Mode), string(candidate.Mode)) {
		hit(pointsSameMode, ReasonSameMode)
	}

	return score, reasons
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

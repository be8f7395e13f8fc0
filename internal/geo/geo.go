// Package geo contains pure geographic computation helpers.
package geo

import (
	"math"

	"waymate/internal/types"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// DistanceToPolylineKm returns the minimum vertex distance from p to the
// polyline. Vertex-based approximation: typical route polylines are dense
// enough that projecting onto segments buys little. Returns +Inf for an
// empty polyline.
func DistanceToPolylineKm(p types.Point, line []types.Point) float64 {
	minKm := math.Inf(1)
	for _, v := range line {
		if d := HaversineKm(p, v); d < minKm {
			minKm = d
		}
	}
	return minKm
}

// IsNearRouteKm reports whether p lies within thresholdKm of any vertex of
// the polyline.
func IsNearRouteKm(p types.Point, line []types.Point, thresholdKm float64) bool {
	return DistanceToPolylineKm(p, line) <= thresholdKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

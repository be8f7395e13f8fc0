package geo

import (
	"math"
	"testing"

	"waymate/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 25.033, Lng: 121.565},
			b:         types.Point{Lat: 25.033, Lng: 121.565},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Berlin to Munich (~504km)",
			a:         types.Point{Lat: 52.5200, Lng: 13.4050},
			b:         types.Point{Lat: 48.1351, Lng: 11.5820},
			wantKm:    504,
			tolerance: 10,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 25.0, Lng: 121.0}
	b := types.Point{Lat: 26.0, Lng: 122.0}
	d1 := HaversineKm(a, b)
	d2 := HaversineKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceToPolylineKm_PicksClosestVertex(t *testing.T) {
	line := []types.Point{
		{Lat: 48.0, Lng: 11.0},
		{Lat: 49.0, Lng: 11.5},
		{Lat: 50.0, Lng: 12.0},
	}
	p := types.Point{Lat: 49.01, Lng: 11.5}

	got := DistanceToPolylineKm(p, line)
	want := HaversineKm(p, line[1])
	if math.Abs(got-want) > 0.0001 {
		t.Errorf("DistanceToPolylineKm() = %f, want %f", got, want)
	}

	// Must equal the minimum over all vertices.
	for _, v := range line {
		if HaversineKm(p, v) < got {
			t.Errorf("found vertex closer (%f) than reported minimum (%f)", HaversineKm(p, v), got)
		}
	}
}

func TestDistanceToPolylineKm_Empty(t *testing.T) {
	got := DistanceToPolylineKm(types.Point{Lat: 1, Lng: 1}, nil)
	if !math.IsInf(got, 1) {
		t.Errorf("expected +Inf for empty polyline, got %f", got)
	}
	if IsNearRouteKm(types.Point{Lat: 1, Lng: 1}, nil, 5) {
		t.Error("empty polyline must never be near")
	}
}

func TestIsNearRouteKm_Threshold(t *testing.T) {
	line := []types.Point{{Lat: 52.5200, Lng: 13.4050}}
	onVertex := types.Point{Lat: 52.5200, Lng: 13.4050}
	// roughly 5.5km north of the vertex
	farPoint := types.Point{Lat: 52.5695, Lng: 13.4050}

	if !IsNearRouteKm(onVertex, line, 5) {
		t.Error("point on vertex must be near")
	}
	if IsNearRouteKm(farPoint, line, 5) {
		t.Error("point ~5.5km away must not be within 5km")
	}
	if !IsNearRouteKm(farPoint, line, 6) {
		t.Error("point ~5.5km away must be within 6km")
	}
}

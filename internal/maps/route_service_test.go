package maps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"googlemaps.github.io/maps"
)

// encodedTestPolyline is Google's documented polyline-encoding example and
// decodes to (38.5,-120.2), (40.7,-120.95), (43.252,-126.453).
const encodedTestPolyline = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

// newMockMapsServer serves canned Geocoding and Directions responses the way
// the real API shapes them.
func newMockMapsServer(t *testing.T, geocodeStatus, directionsStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if geocodeStatus != "OK" {
			fmt.Fprintf(w, `{"results":[],"status":%q}`, geocodeStatus)
			return
		}
		lat, lng := 52.5200, 13.4050
		if strings.Contains(strings.ToLower(r.URL.Query().Get("address")), "munich") {
			lat, lng = 48.1351, 11.5820
		}
		fmt.Fprintf(w, `{"results":[{"geometry":{"location":{"lat":%f,"lng":%f}}}],"status":"OK"}`, lat, lng)
	})

	mux.HandleFunc("/maps/api/directions/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if directionsStatus != "OK" {
			fmt.Fprintf(w, `{"routes":[],"geocoded_waypoints":[],"status":%q}`, directionsStatus)
			return
		}
		fmt.Fprintf(w, `{
			"routes":[{
				"overview_polyline":{"points":%q},
				"legs":[{
					"distance":{"value":584000,"text":"584 km"},
					"duration":{"value":21600,"text":"6 hours"},
					"steps":[]
				}]
			}],
			"geocoded_waypoints":[],
			"status":"OK"
		}`, encodedTestPolyline)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newServiceUnderTest(t *testing.T, srv *httptest.Server) *RouteService {
	t.Helper()
	client, err := maps.NewClient(maps.WithAPIKey("test-key"), maps.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("maps client: %v", err)
	}
	return NewRouteService(client, NewGoogleGeocoder(client), 5*time.Second)
}

func TestResolve_HappyPath(t *testing.T) {
	svc := newServiceUnderTest(t, newMockMapsServer(t, "OK", "OK"))

	res, err := svc.Resolve(context.Background(), "Berlin", "Munich", "car", "fastest")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if math.Abs(res.Origin.Lat-52.52) > 0.001 || math.Abs(res.Origin.Lng-13.405) > 0.001 {
		t.Errorf("unexpected origin: %+v", res.Origin)
	}
	if math.Abs(res.Destination.Lat-48.1351) > 0.001 {
		t.Errorf("unexpected destination: %+v", res.Destination)
	}
	if len(res.Polyline) != 3 {
		t.Fatalf("expected 3 polyline points, got %d", len(res.Polyline))
	}
	// (lat, lng) ordering must hold regardless of provider convention.
	if math.Abs(res.Polyline[0].Lat-38.5) > 0.001 || math.Abs(res.Polyline[0].Lng+120.2) > 0.001 {
		t.Errorf("unexpected first polyline point: %+v", res.Polyline[0])
	}
	if res.DistanceMeters != 584000 {
		t.Errorf("distance = %d, want 584000", res.DistanceMeters)
	}
	if res.DurationSeconds != 21600 {
		t.Errorf("duration = %d, want 21600", res.DurationSeconds)
	}
	// 584km of car at 0.5/km
	if math.Abs(res.EstimatedCost-292.0) > 0.001 {
		t.Errorf("cost = %f, want 292", res.EstimatedCost)
	}
}

func TestResolve_GeocodeMissIsLocationNotFound(t *testing.T) {
	svc := newServiceUnderTest(t, newMockMapsServer(t, "ZERO_RESULTS", "OK"))

	_, err := svc.Resolve(context.Background(), "xyzzy", "Munich", "car", "fastest")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestResolve_NoRouteIsRouteUnavailable(t *testing.T) {
	svc := newServiceUnderTest(t, newMockMapsServer(t, "OK", "ZERO_RESULTS"))

	_, err := svc.Resolve(context.Background(), "Berlin", "Munich", "car", "fastest")
	if !errors.Is(err, ErrRouteUnavailable) {
		t.Fatalf("expected ErrRouteUnavailable, got %v", err)
	}
}

func TestTravelMode_Mapping(t *testing.T) {
	tests := []struct {
		mode string
		want maps.Mode
	}{
		{"car", maps.TravelModeDriving},
		{"cycling", maps.TravelModeBicycling},
		{"walking", maps.TravelModeWalking},
		{"bus", maps.TravelModeDriving},
		{"train", maps.TravelModeDriving},
		{"flight", maps.TravelModeDriving},
		{"CYCLING", maps.TravelModeBicycling},
	}
	for _, tt := range tests {
		if got := travelMode(tt.mode); got != tt.want {
			t.Errorf("travelMode(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

// README: Route acquisition via the Google Geocoding and Directions APIs.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"waymate/internal/types"
)

var (
	// ErrLocationNotFound means geocoding returned no usable coordinate for
	// the given text. User-correctable input error.
	ErrLocationNotFound = errors.New("location not found")
	// ErrRouteUnavailable means the routing service failed or returned no
	// route. Trips may still be created without geometry.
	ErrRouteUnavailable = errors.New("route unavailable")
)

// RouteResult is the normalized output of a geocode+directions round trip.
// Polyline points are always (lat, lng) regardless of the provider's native
// ordering.
type RouteResult struct {
	Origin          types.Point
	Destination     types.Point
	Polyline        []types.Point
	DistanceMeters  int
	DurationSeconds int
	EstimatedCost   float64
}

// Geocoder resolves free-form location text to a single best-match coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

// RouteService handles interactions with the Google Maps API.
type RouteService struct {
	client   *maps.Client
	geocoder Geocoder
	timeout  time.Duration
}

// NewRouteService wraps a maps client and a geocoder (usually the same client
// behind the redis cache). timeout bounds each external call.
func NewRouteService(client *maps.Client, geocoder Geocoder, timeout time.Duration) *RouteService {
	return &RouteService{client: client, geocoder: geocoder, timeout: timeout}
}

// Resolve geocodes both endpoints and fetches a route between them.
// Bus, train, and flight have no directions profile; they fall back to
// driving, so the returned geometry is illustrative for those modes.
func (s *RouteService) Resolve(ctx context.Context, origin, destination, mode, preference string) (*RouteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	from, err := s.geocoder.Geocode(ctx, origin)
	if err != nil {
		return nil, err
	}
	to, err := s.geocoder.Geocode(ctx, destination)
	if err != nil {
		return nil, err
	}

	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        travelMode(mode),
	}
	routes, _, err := s.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrRouteUnavailable
	}

	route := routes[0]
	decoded, err := route.OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: decode polyline: %v", ErrRouteUnavailable, err)
	}
	polyline := make([]types.Point, 0, len(decoded))
	for _, ll := range decoded {
		polyline = append(polyline, types.Point{Lat: ll.Lat, Lng: ll.Lng})
	}

	var meters int
	var duration time.Duration
	for _, leg := range route.Legs {
		meters += leg.Distance.Meters
		duration += leg.Duration
	}

	return &RouteResult{
		Origin:          from,
		Destination:     to,
		Polyline:        polyline,
		DistanceMeters:  meters,
		DurationSeconds: int(duration.Seconds()),
		EstimatedCost:   EstimateCost(meters, mode, preference),
	}, nil
}

func travelMode(mode string) maps.Mode {
	switch strings.ToLower(mode) {
	case "cycling":
		return maps.TravelModeBicycling
	case "walking":
		return maps.TravelModeWalking
	default:
		// car, plus bus/train/flight approximated as driving
		return maps.TravelModeDriving
	}
}

// GoogleGeocoder is the uncached Geocoder backed by the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

func NewGoogleGeocoder(client *maps.Client) *GoogleGeocoder {
	return &GoogleGeocoder{client: client}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (types.Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}
	if len(results) == 0 {
		return types.Point{}, ErrLocationNotFound
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

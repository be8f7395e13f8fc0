// README: Trip service implements creation (with best-effort routing and matching) and lifecycle transitions.
package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"waymate/internal/maps"
	"waymate/internal/types"
)

var (
	ErrNotFound     = errors.New("trip not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("trip state conflict")
)

// Store is the persistence capability the service needs. Implemented by
// PGStore; tests use in-memory fakes.
type Store interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id types.ID) (*Trip, error)
	ListByUser(ctx context.Context, userID types.ID) ([]*Trip, error)
	ListActiveExcludingUser(ctx context.Context, userID types.ID) ([]*Trip, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)
	UpdateDetails(ctx context.Context, t *Trip) error
}

// RouteResolver acquires normalized route geometry for a trip.
type RouteResolver interface {
	Resolve(ctx context.Context, origin, destination, mode, preference string) (*maps.RouteResult, error)
}

// Matcher builds match records for a freshly created trip. Its failure must
// never fail trip creation.
type Matcher interface {
	BuildForTrip(ctx context.Context, subject *Trip) (int, error)
}

type Service struct {
	store   Store
	routes  RouteResolver
	matcher Matcher
	log     *zap.Logger
}

func NewService(store Store, routes RouteResolver, matcher Matcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, routes: routes, matcher: matcher, log: log}
}

type CreateCommand struct {
	UserID      types.ID
	Origin      string
	Destination string
	Date        time.Time
	TimeOfDay   string
	Mode        string
	Preference  string
}

// Create validates the command, resolves the route, persists the trip, and
// kicks off matching. Routing failures degrade to a trip without geometry;
// matching failures are logged and swallowed. Only an unresolvable location
// (or a store error) fails the request.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	origin := strings.TrimSpace(cmd.Origin)
	destination := strings.TrimSpace(cmd.Destination)
	if cmd.UserID == 0 || origin == "" || destination == "" || cmd.Date.IsZero() {
		return nil, ErrBadRequest
	}
	mode, ok := ParseMode(cmd.Mode)
	if !ok {
		return nil, ErrBadRequest
	}
	pref, ok := ParsePreference(cmd.Preference)
	if !ok {
		return nil, ErrBadRequest
	}

	now := time.Now()
	t := &Trip{
		UserID:      cmd.UserID,
		Origin:      origin,
		Destination: destination,
		Date:        cmd.Date,
		TimeOfDay:   cmd.TimeOfDay,
		Mode:        mode,
		Preference:  pref,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.routes != nil {
		res, err := s.routes.Resolve(ctx, origin, destination, string(mode), string(pref))
		switch {
		case err == nil:
			t.OriginCoord = &res.Origin
			t.DestCoord = &res.Destination
			t.Polyline = res.Polyline
			t.DistanceMeters = res.DistanceMeters
			t.DurationSeconds = res.DurationSeconds
			t.EstimatedCost = res.EstimatedCost
		case errors.Is(err, maps.ErrLocationNotFound):
			return nil, err
		default:
			// ErrRouteUnavailable and anything unexpected: keep the trip,
			// lose the geometry.
			s.log.Warn("route acquisition failed, creating trip without geometry",
				zap.String("origin", origin),
				zap.String("destination", destination),
				zap.Error(err))
		}
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	if s.matcher != nil {
		if n, err := s.matcher.BuildForTrip(ctx, t); err != nil {
			s.log.Warn("matching failed for new trip",
				zap.Int64("trip_id", int64(t.ID)),
				zap.Error(err))
		} else if n > 0 {
			s.log.Info("matches created",
				zap.Int64("trip_id", int64(t.ID)),
				zap.Int("pairs", n))
		}
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID types.ID) ([]*Trip, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Cancel(ctx context.Context, callerID, id types.ID) error {
	return s.transition(ctx, callerID, id, StatusCancelled)
}

func (s *Service) Reactivate(ctx context.Context, callerID, id types.ID) error {
	return s.transition(ctx, callerID, id, StatusActive)
}

func (s *Service) Complete(ctx context.Context, callerID, id types.ID) error {
	return s.transition(ctx, callerID, id, StatusCompleted)
}

func (s *Service) transition(ctx context.Context, callerID, id types.ID, to Status) error {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != callerID {
		return ErrForbidden
	}
	if !CanTransition(t.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, t.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

type UpdateCommand struct {
	ID          types.ID
	Origin      string
	Destination string
	Date        time.Time
	TimeOfDay   string
	Mode        string
	Preference  string
}

// Update rewrites the editable fields. Known limitation: edits do not
// re-geocode or rescore; the route geometry from creation time stands.
func (s *Service) Update(ctx context.Context, callerID types.ID, cmd UpdateCommand) (*Trip, error) {
	t, err := s.store.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if t.UserID != callerID {
		return nil, ErrForbidden
	}

	origin := strings.TrimSpace(cmd.Origin)
	destination := strings.TrimSpace(cmd.Destination)
	if origin == "" || destination == "" || cmd.Date.IsZero() {
		return nil, ErrBadRequest
	}
	mode, ok := ParseMode(cmd.Mode)
	if !ok {
		return nil, ErrBadRequest
	}
	pref, ok := ParsePreference(cmd.Preference)
	if !ok {
		return nil, ErrBadRequest
	}

	t.Origin = origin
	t.Destination = destination
	t.Date = cmd.Date
	t.TimeOfDay = cmd.TimeOfDay
	t.Mode = mode
	t.Preference = pref
	t.UpdatedAt = time.Now()

	if err := s.store.UpdateDetails(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

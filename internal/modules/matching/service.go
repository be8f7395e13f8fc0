// README: Match set builder and accept/decline lifecycle.
package matching

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"waymate/internal/config"
	"waymate/internal/modules/group"
	"waymate/internal/modules/trip"
	"waymate/internal/types"
)

var (
	ErrNotFound     = errors.New("match not found")
	ErrForbidden    = errors.New("forbidden")
	ErrTripNotFound = errors.New("matched trip not found")
	ErrInvalidState = errors.New("match already resolved")
)

// Store is the persistence capability the service needs. Implemented by
// PGStore; tests use in-memory fakes.
type Store interface {
	InsertPairs(ctx context.Context, records []*Match) error
	Get(ctx context.Context, id types.ID) (*Match, error)
	ListBySubjectTrip(ctx context.Context, tripID types.ID) ([]*Match, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)
	UpdateStatusPair(ctx context.Context, subjectTripID, candidateTripID types.ID, from, to Status) (int64, error)
}

// TripSource reads trips. Implemented by trip.PGStore.
type TripSource interface {
	Get(ctx context.Context, id types.ID) (*trip.Trip, error)
	ListActiveExcludingUser(ctx context.Context, userID types.ID) ([]*trip.Trip, error)
}

// GroupProvisioner creates or reuses the shared group when a match is
// accepted. Implemented by group.Service.
type GroupProvisioner interface {
	ProvisionForMatch(ctx context.Context, subject, candidate *trip.Trip) (*group.Group, error)
}

type Service struct {
	store  Store
	trips  TripSource
	groups GroupProvisioner
	cfg    config.MatchingConfig
	log    *zap.Logger
}

func NewService(store Store, trips TripSource, groups GroupProvisioner, cfg config.MatchingConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, trips: trips, groups: groups, cfg: cfg, log: log}
}

// BuildForTrip scores the subject against every other user's active trip and
// persists mirrored pending records for all candidates strictly above the
// threshold. Returns the number of matched pairs. Evaluation order is
// irrelevant: scoring is pairwise-independent.
func (s *Service) BuildForTrip(ctx context.Context, subject *trip.Trip) (int, error) {
	candidates, err := s.trips.ListActiveExcludingUser(ctx, subject.UserID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var records []*Match
	for _, c := range candidates {
		score, reasons := Score(subject, c, s.cfg.RadiusKm)
		if score <= s.cfg.Threshold {
			continue
		}
		s.log.Debug("candidate matched",
			zap.Int64("subject_trip_id", int64(subject.ID)),
			zap.Int64("candidate_trip_id", int64(c.ID)),
			zap.Int("score", score),
			zap.Any("reasons", reasons))
		records = append(records,
			&Match{SubjectTripID: subject.ID, CandidateTripID: c.ID, Score: score, Status: StatusPending, CreatedAt: now},
			&Match{SubjectTripID: c.ID, CandidateTripID: subject.ID, Score: score, Status: StatusPending, CreatedAt: now},
		)
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := s.store.InsertPairs(ctx, records); err != nil {
		return 0, err
	}
	return len(records) / 2, nil
}

// MatchView pairs a directional record with the candidate trip it points at.
type MatchView struct {
	Match     *Match
	Candidate *trip.Trip
}

// ListForTrip returns the caller's matches for one of their trips, best score
// first. Candidates whose trip has since been deleted are skipped.
func (s *Service) ListForTrip(ctx context.Context, callerID, tripID types.ID) ([]MatchView, error) {
	t, err := s.trips.Get(ctx, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	if t.UserID != callerID {
		return nil, ErrForbidden
	}

	matches, err := s.store.ListBySubjectTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		c, err := s.trips.Get(ctx, m.CandidateTripID)
		if err != nil {
			if errors.Is(err, trip.ErrNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, MatchView{Match: m, Candidate: c})
	}
	return views, nil
}

// Accept marks both mirror records accepted and provisions the shared group.
// Only the owner of the subject trip of this directional record may accept.
func (s *Service) Accept(ctx context.Context, callerID, matchID types.ID) (*group.Group, error) {
	m, subject, err := s.resolveOwned(ctx, callerID, matchID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.trips.Get(ctx, m.CandidateTripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	n, err := s.store.UpdateStatusPair(ctx, m.SubjectTripID, m.CandidateTripID, StatusPending, StatusAccepted)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInvalidState
	}

	return s.groups.ProvisionForMatch(ctx, subject, candidate)
}

// Decline marks only this directional record declined; the mirror stays
// pending so the other trip's owner can still act on their side.
func (s *Service) Decline(ctx context.Context, callerID, matchID types.ID) error {
	m, _, err := s.resolveOwned(ctx, callerID, matchID)
	if err != nil {
		return err
	}
	ok, err := s.store.UpdateStatus(ctx, m.ID, StatusPending, StatusDeclined)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	return nil
}

func (s *Service) resolveOwned(ctx context.Context, callerID, matchID types.ID) (*Match, *trip.Trip, error) {
	m, err := s.store.Get(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	subject, err := s.trips.Get(ctx, m.SubjectTripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			// data-integrity fault: cascading deletes should prevent this
			return nil, nil, ErrTripNotFound
		}
		return nil, nil, err
	}
	if subject.UserID != callerID {
		return nil, nil, ErrForbidden
	}
	if m.Status != StatusPending {
		return nil, nil, ErrInvalidState
	}
	return m, subject, nil
}

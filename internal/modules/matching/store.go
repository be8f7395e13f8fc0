// README: Match store backed by PostgreSQL; inserts are idempotent per trip pair.
package matching

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"waymate/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// InsertPairs batch-inserts match records. The unique constraint on
// (subject_trip_id, candidate_trip_id) plus DO NOTHING makes retries and
// concurrent builders converge on one row per direction.
func (s *PGStore) InsertPairs(ctx context.Context, records []*Match) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range records {
		batch.Queue(`
			INSERT INTO matches (subject_trip_id, candidate_trip_id, score, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (subject_trip_id, candidate_trip_id) DO NOTHING`,
			int64(m.SubjectTripID), int64(m.CandidateTripID), m.Score, string(m.Status), m.CreatedAt)
	}
	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Match, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, subject_trip_id, candidate_trip_id, score, status, created_at
		FROM matches WHERE id = $1`, int64(id))
	m, err := scanMatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// ListBySubjectTrip returns the trip's matches ordered by score descending
// for presentation.
func (s *PGStore) ListBySubjectTrip(ctx context.Context, tripID types.ID) ([]*Match, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, subject_trip_id, candidate_trip_id, score, status, created_at
		FROM matches
		WHERE subject_trip_id = $1
		ORDER BY score DESC, id`, int64(tripID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a single directional record.
func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE matches SET status = $1
		WHERE id = $2 AND status = $3`,
		string(to), int64(id), string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatusPair transitions both mirror records of a trip pair in one
// statement, preserving the symmetric invariant.
func (s *PGStore) UpdateStatusPair(ctx context.Context, subjectTripID, candidateTripID types.ID, from, to Status) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE matches SET status = $1
		WHERE status = $2
		  AND ((subject_trip_id = $3 AND candidate_trip_id = $4)
		    OR (subject_trip_id = $4 AND candidate_trip_id = $3))`,
		string(to), string(from), int64(subjectTripID), int64(candidateTripID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*Match, error) {
	var m Match
	var id, subj, cand int64
	var status string
	if err := row.Scan(&id, &subj, &cand, &m.Score, &status, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ID = types.ID(id)
	m.SubjectTripID = types.ID(subj)
	m.CandidateTripID = types.ID(cand)
	m.Status = Status(status)
	return &m, nil
}

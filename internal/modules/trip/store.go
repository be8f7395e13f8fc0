// README: Trip store backed by PostgreSQL.
package trip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"waymate/internal/types"
)

// PGStore is the pgx-backed Store implementation.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const tripColumns = `
	id, user_id, origin, destination,
	origin_lat, origin_lng, dest_lat, dest_lng,
	travel_date, time_of_day, mode, preference, status,
	polyline, distance_meters, duration_seconds, estimated_cost,
	created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, t *Trip) error {
	poly, err := marshalPolyline(t.Polyline)
	if err != nil {
		return err
	}
	var oLat, oLng, dLat, dLng *float64
	if t.OriginCoord != nil {
		oLat, oLng = &t.OriginCoord.Lat, &t.OriginCoord.Lng
	}
	if t.DestCoord != nil {
		dLat, dLng = &t.DestCoord.Lat, &t.DestCoord.Lng
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (
			user_id, origin, destination,
			origin_lat, origin_lng, dest_lat, dest_lng,
			travel_date, time_of_day, mode, preference, status,
			polyline, distance_meters, duration_seconds, estimated_cost,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18
		) RETURNING id`,
		int64(t.UserID), t.Origin, t.Destination,
		oLat, oLng, dLat, dLng,
		t.Date, t.TimeOfDay, string(t.Mode), string(t.Preference), string(t.Status),
		poly, t.DistanceMeters, t.DurationSeconds, t.EstimatedCost,
		t.CreatedAt, t.UpdatedAt,
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		return err
	}
	t.ID = types.ID(id)
	return nil
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, int64(id))
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *PGStore) ListByUser(ctx context.Context, userID types.ID) ([]*Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE user_id = $1
		ORDER BY travel_date, id`, int64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrips(rows)
}

// ListActiveExcludingUser is the candidate feed for the match set builder:
// every active trip owned by somebody else.
func (s *PGStore) ListActiveExcludingUser(ctx context.Context, userID types.ID) ([]*Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE status = $1 AND user_id <> $2
		ORDER BY id`, string(StatusActive), int64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrips(rows)
}

// UpdateStatus performs a compare-and-set status transition. Returns false
// when the row was not in the expected state.
func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(to), int64(id), string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateDetails rewrites the owner-editable fields. Route geometry is left
// untouched; edits do not re-geocode.
func (s *PGStore) UpdateDetails(ctx context.Context, t *Trip) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET origin = $1, destination = $2, travel_date = $3, time_of_day = $4,
		    mode = $5, preference = $6, updated_at = NOW()
		WHERE id = $7`,
		t.Origin, t.Destination, t.Date, t.TimeOfDay,
		string(t.Mode), string(t.Preference), int64(t.ID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalPolyline(line []types.Point) ([]byte, error) {
	if len(line) == 0 {
		return nil, nil
	}
	return json.Marshal(line)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	var t Trip
	var id, userID int64
	var oLat, oLng, dLat, dLng sql.NullFloat64
	var mode, pref, status string
	var poly []byte

	err := row.Scan(
		&id, &userID, &t.Origin, &t.Destination,
		&oLat, &oLng, &dLat, &dLng,
		&t.Date, &t.TimeOfDay, &mode, &pref, &status,
		&poly, &t.DistanceMeters, &t.DurationSeconds, &t.EstimatedCost,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.ID = types.ID(id)
	t.UserID = types.ID(userID)
	t.Mode = Mode(mode)
	t.Preference = Preference(pref)
	t.Status = Status(status)
	if oLat.Valid && oLng.Valid {
		t.OriginCoord = &types.Point{Lat: oLat.Float64, Lng: oLng.Float64}
	}
	if dLat.Valid && dLng.Valid {
		t.DestCoord = &types.Point{Lat: dLat.Float64, Lng: dLng.Float64}
	}
	if len(poly) > 0 {
		if err := json.Unmarshal(poly, &t.Polyline); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func collectTrips(rows pgx.Rows) ([]*Trip, error) {
	var out []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

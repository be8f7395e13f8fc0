// README: Group/membership/message store backed by PostgreSQL.
package group

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

// CreateWithMembers inserts the group and its initial memberships in one
// transaction.
func (s *PGStore) CreateWithMembers(ctx context.Context, g *Group, members []Membership) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var originTripID *int64
	if g.OriginTripID != nil {
		v := int64(*g.OriginTripID)
		originTripID = &v
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO groups (name, origin_trip_id, creator_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		g.Name, originTripID, int64(g.CreatorID), string(g.Status), g.CreatedAt)
	var id int64
	if err := row.Scan(&id); err != nil {
		return err
	}
	g.ID = types.ID(id)

	for _, m := range members {
		if _, err := tx.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (group_id, user_id) DO NOTHING`,
			id, int64(m.UserID), string(m.Role), m.JoinedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, origin_trip_id, creator_id, status, created_at
		FROM groups WHERE id = $1`, int64(id))
	g, err := scanGroup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT group_id, user_id, role, joined_at
		FROM group_members WHERE group_id = $1
		ORDER BY joined_at, user_id`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m Membership
		var gid, uid int64
		var role string
		if err := rows.Scan(&gid, &uid, &role, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.GroupID = types.ID(gid)
		m.UserID = types.ID(uid)
		m.Role = Role(role)
		g.Members = append(g.Members, m)
	}
	return g, rows.Err()
}

// FindByOriginTrip returns the single group provisioned for the trip, if any.
func (s *PGStore) FindByOriginTrip(ctx context.Context, tripID types.ID) (*Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, origin_trip_id, creator_id, status, created_at
		FROM groups WHERE origin_trip_id = $1`, int64(tripID))
	g, err := scanGroup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// AddMember is idempotent: a concurrent or repeated add of the same user is
// a no-op and the existing role is kept.
func (s *PGStore) AddMember(ctx context.Context, m Membership) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id) DO NOTHING`,
		int64(m.GroupID), int64(m.UserID), string(m.Role), m.JoinedAt)
	return err
}

func (s *PGStore) IsMember(ctx context.Context, groupID, userID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)`, int64(groupID), int64(userID)).Scan(&exists)
	return exists, err
}

func (s *PGStore) InsertMessage(ctx context.Context, m *Message) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO messages (group_id, sender_id, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		int64(m.GroupID), int64(m.SenderID), m.Body, m.CreatedAt)
	var id int64
	if err := row.Scan(&id); err != nil {
		return err
	}
	m.ID = types.ID(id)
	return nil
}

// ListMessages returns the group's messages oldest first.
func (s *PGStore) ListMessages(ctx context.Context, groupID types.ID) ([]*Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, group_id, sender_id, body, created_at
		FROM messages WHERE group_id = $1
		ORDER BY created_at, id`, int64(groupID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var m Message
		var id, gid, sid int64
		if err := rows.Scan(&id, &gid, &sid, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ID = types.ID(id)
		m.GroupID = types.ID(gid)
		m.SenderID = types.ID(sid)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *PGStore) GetMessage(ctx context.Context, id types.ID) (*Message, error) {
	var m Message
	var mid, gid, sid int64
	err := s.db.QueryRow(ctx, `
		SELECT id, group_id, sender_id, body, created_at
		FROM messages WHERE id = $1`, int64(id)).
		Scan(&mid, &gid, &sid, &m.Body, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	m.ID = types.ID(mid)
	m.GroupID = types.ID(gid)
	m.SenderID = types.ID(sid)
	return &m, nil
}

func (s *PGStore) DeleteMessage(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*Group, error) {
	var g Group
	var id, creatorID int64
	var originTripID *int64
	var status string
	if err := row.Scan(&id, &g.Name, &originTripID, &creatorID, &status, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.ID = types.ID(id)
	g.CreatorID = types.ID(creatorID)
	g.Status = Status(status)
	if originTripID != nil {
		v := types.ID(*originTripID)
		g.OriginTripID = &v
	}
	return &g, nil
}

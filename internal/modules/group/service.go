// README: Group service: provisioning on match acceptance, membership, and chat messages.
package group

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"waymate/internal/modules/trip"
	"waymate/internal/types"
)

var (
	ErrNotFound        = errors.New("group not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrForbidden       = errors.New("forbidden")
	ErrBadRequest      = errors.New("bad request")
)

// Store is the persistence capability the service needs. Implemented by
// PGStore; tests use in-memory fakes.
type Store interface {
	CreateWithMembers(ctx context.Context, g *Group, members []Membership) error
	Get(ctx context.Context, id types.ID) (*Group, error)
	FindByOriginTrip(ctx context.Context, tripID types.ID) (*Group, error)
	AddMember(ctx context.Context, m Membership) error
	IsMember(ctx context.Context, groupID, userID types.ID) (bool, error)
	InsertMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, groupID types.ID) ([]*Message, error)
	GetMessage(ctx context.Context, id types.ID) (*Message, error)
	DeleteMessage(ctx context.Context, id types.ID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create makes a user-initiated group with the creator as admin.
func (s *Service) Create(ctx context.Context, creatorID types.ID, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || creatorID == 0 {
		return nil, ErrBadRequest
	}
	now := time.Now()
	g := &Group{Name: name, CreatorID: creatorID, Status: StatusActive, CreatedAt: now}
	members := []Membership{{UserID: creatorID, Role: RoleAdmin, JoinedAt: now}}
	if err := s.store.CreateWithMembers(ctx, g, members); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, g.ID)
}

// ProvisionForMatch returns the shared group for an accepted match. If a
// group already originates from either trip, the accepting user (the subject
// owner) joins it as member; otherwise a new group is created with the
// subject owner as admin and the candidate owner as member.
func (s *Service) ProvisionForMatch(ctx context.Context, subject, candidate *trip.Trip) (*Group, error) {
	for _, tripID := range []types.ID{subject.ID, candidate.ID} {
		g, err := s.store.FindByOriginTrip(ctx, tripID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := s.store.AddMember(ctx, Membership{
			GroupID:  g.ID,
			UserID:   subject.UserID,
			Role:     RoleMember,
			JoinedAt: time.Now(),
		}); err != nil {
			return nil, err
		}
		return s.store.Get(ctx, g.ID)
	}

	now := time.Now()
	originTripID := subject.ID
	g := &Group{
		Name:         matchGroupName(subject),
		OriginTripID: &originTripID,
		CreatorID:    subject.UserID,
		Status:       StatusActive,
		CreatedAt:    now,
	}
	members := []Membership{
		{UserID: subject.UserID, Role: RoleAdmin, JoinedAt: now},
		{UserID: candidate.UserID, Role: RoleMember, JoinedAt: now},
	}
	if err := s.store.CreateWithMembers(ctx, g, members); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, g.ID)
}

func (s *Service) Get(ctx context.Context, callerID, id types.ID) (*Group, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	member, err := s.store.IsMember(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}
	return g, nil
}

// PostMessage appends a chat message; the sender must be a member and the
// body must be non-empty after trimming.
func (s *Service) PostMessage(ctx context.Context, senderID, groupID types.ID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBadRequest
	}
	if _, err := s.store.Get(ctx, groupID); err != nil {
		return nil, err
	}
	member, err := s.store.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}
	m := &Message{GroupID: groupID, SenderID: senderID, Body: body, CreatedAt: time.Now()}
	if err := s.store.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, callerID, groupID types.ID) ([]*Message, error) {
	member, err := s.store.IsMember(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}
	return s.store.ListMessages(ctx, groupID)
}

// DeleteMessage removes a message; only its sender may do so.
func (s *Service) DeleteMessage(ctx context.Context, callerID, messageID types.ID) error {
	m, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != callerID {
		return ErrForbidden
	}
	return s.store.DeleteMessage(ctx, messageID)
}

func matchGroupName(t *trip.Trip) string {
	return fmt.Sprintf("%s on %s", t.Destination, t.Date.Format("2006-01-02"))
}

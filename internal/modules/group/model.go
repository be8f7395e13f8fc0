// README: Group, membership, and message records.
package group

import (
	"time"

	"waymate/internal/types"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Status string

const StatusActive Status = "active"

// Group is a chat/coordination unit. OriginTripID links a group provisioned
// by match acceptance back to the trip it was created for; at most one group
// exists per originating trip (unique index, not convention).
type Group struct {
	ID           types.ID
	Name         string
	OriginTripID *types.ID
	CreatorID    types.ID
	Status       Status
	CreatedAt    time.Time
	Members      []Membership
}

// Membership joins a user to a group. Exactly one row per (group, user).
type Membership struct {
	GroupID  types.ID
	UserID   types.ID
	Role     Role
	JoinedAt time.Time
}

// Message is append-only chat content, displayed oldest first.
type Message struct {
	ID        types.ID
	GroupID   types.ID
	SenderID  types.ID
	Body      string
	CreatedAt time.Time
}

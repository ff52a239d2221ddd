package models

import "time"

// AccessLevel is the closed set of access levels a group can grant.
type AccessLevel string

const (
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
)

func (l AccessLevel) Valid() bool {
	switch l {
	case AccessRead, AccessWrite:
		return true
	}
	return false
}

type AccessGroup struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	AccessLevel AccessLevel `json:"access_level"`
	CreatedBy   int64       `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
}

// GroupSummary is a group annotated for listing: the creator's username and
// the live membership count, both computed at read time.
type GroupSummary struct {
	AccessGroup
	CreatedByUsername string `json:"created_by_username"`
	MembersCount      int    `json:"members_count"`
}

// GroupPatch carries partial updates for a group. Nil fields are untouched.
type GroupPatch struct {
	Name        *string      `json:"name,omitempty"`
	AccessLevel *AccessLevel `json:"access_level,omitempty"`
}

type GroupMember struct {
	ID       int64     `json:"id"`
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// Membership is a join record decorated with the member's identity for
// roster listings.
type Membership struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

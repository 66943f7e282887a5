package domain

import (
	"errors"
	"time"
)

// Role is the relationship a non-primary user holds on a pet.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleGuardian Role = "guardian"
	RoleViewer   Role = "viewer"
	RoleNone     Role = "none"
)

// ValidShareRole reports whether r may be granted through the sharing path.
func ValidShareRole(r Role) bool {
	return r == RoleOwner || r == RoleGuardian || r == RoleViewer
}

var ErrMemberNotFound = errors.New("membership not found")
var ErrPrimaryOwnerImplicit = errors.New("primary owner holds implicit membership")
var ErrUnauthorized = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("authentication required")

// Membership links a user to a pet with a granted role. At most one row
// exists per (pet, user) pair, and the primary owner never has a row — their
// authority derives from Pet.OwnerUserID alone.
type Membership struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PetID     string    `json:"pet_id" bson:"pet_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// MembershipDecision is the result of resolving a user's relationship to a
// pet. It is total: an absent pet or absent user yields {RoleNone, false}
// rather than an error.
type MembershipDecision struct {
	Role           Role `json:"role"`
	IsPrimaryOwner bool `json:"is_primary_owner"`
}

// CanEdit reports whether the decision grants write access. Viewers and
// unrelated users cannot edit.
func (d MembershipDecision) CanEdit() bool {
	return d.IsPrimaryOwner || d.Role == RoleOwner || d.Role == RoleGuardian
}

// CanView reports whether the decision grants read access. Any non-none
// relation may view.
func (d MembershipDecision) CanView() bool {
	return d.IsPrimaryOwner || d.Role != RoleNone
}

// PlatformOwner marks a user as holding cross-pet administrative privilege.
// At most one record exists per user; records are created and removed only
// through the privileged admin path, never by ordinary user action.
type PlatformOwner struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	GrantedBy string    `json:"granted_by,omitempty" bson:"granted_by,omitempty"`
	GrantedAt time.Time `json:"granted_at" bson:"granted_at"`
}

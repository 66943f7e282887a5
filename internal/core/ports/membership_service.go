package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// ShareInput grants or updates a role on a pet for a target user.
type ShareInput struct {
	PetID        string
	ActorUserID  string
	TargetUserID string
	Role         string
}

// RevokeInput removes a target user's membership. A member may revoke
// their own row (leave); everything else requires sharing authority.
type RevokeInput struct {
	PetID        string
	ActorUserID  string
	TargetUserID string
}

// MembershipService manages who a pet is shared with. Sharing authority is
// held by the primary owner and owner-role members; guardians and viewers
// cannot manage sharing. The primary owner can never be added as a member
// nor revoked through this path.
type MembershipService interface {
	Share(ctx context.Context, input ShareInput) (*domain.Membership, error)
	UpdateRole(ctx context.Context, input ShareInput) (*domain.Membership, error)
	Revoke(ctx context.Context, input RevokeInput) error
	// ListMembers is view-gated: any member or the primary owner may list.
	ListMembers(ctx context.Context, petID, userID string) ([]*domain.Membership, error)
}

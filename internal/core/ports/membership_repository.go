package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// MembershipRepository defines persistence for pet membership rows. The
// (pet_id, user_id) pair is unique; Upsert keeps it that way by replacing
// the role of an existing row instead of inserting a duplicate.
type MembershipRepository interface {
	Upsert(ctx context.Context, m *domain.Membership) error
	// FindByPetAndUser looks up the unique row for (petID, userID).
	// Returns domain.ErrMemberNotFound when no row exists.
	FindByPetAndUser(ctx context.Context, petID, userID string) (*domain.Membership, error)
	ListByPet(ctx context.Context, petID string) ([]*domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	// Delete removes the row for (petID, userID). Returns
	// domain.ErrMemberNotFound when nothing was deleted.
	Delete(ctx context.Context, petID, userID string) error
}

// PlatformOwnerRepository persists the platform-owner marker relation.
type PlatformOwnerRepository interface {
	Grant(ctx context.Context, o *domain.PlatformOwner) error
	Revoke(ctx context.Context, userID string) error
	IsPlatformOwner(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]*domain.PlatformOwner, error)
}

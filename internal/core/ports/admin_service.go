package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// ListAllPetsResult is returned by the admin cross-pet listing.
type ListAllPetsResult struct {
	Items      []*domain.Pet
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AdminService covers the platform-owner surface. Every operation assumes
// the caller already passed the platform-owner middleware; the service does
// not re-check.
type AdminService interface {
	ListAllPets(ctx context.Context, filter ListPetsFilter) (*ListAllPetsResult, error)
	GrantPlatformOwner(ctx context.Context, actorUserID, targetUserID string) error
	RevokePlatformOwner(ctx context.Context, actorUserID, targetUserID string) error
	ListPlatformOwners(ctx context.Context) ([]*domain.PlatformOwner, error)
}

package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// ListPetsFilter carries all query parameters for listing pets.
// OwnerUserID is enforced by the service layer; admins list unscoped.
type ListPetsFilter struct {
	OwnerUserID string // empty = no owner filter (admin)
	Status      string // optional: filter by lifecycle status
	Species     string // optional: filter by species tag
	Search      string // optional: partial match on name or slug
	Page        int    // 1-based
	Limit       int    // max rows per page (capped at 100 by service)
}

// PetChanges is the field-level delta applied by Update. Set holds bson
// field names mapped to replacement values; Unset lists fields to clear.
// Repositories apply the whole delta as one atomic single-document patch.
type PetChanges struct {
	Set   map[string]any
	Unset []string
}

// Empty reports whether the delta carries no changes at all.
func (c PetChanges) Empty() bool {
	return len(c.Set) == 0 && len(c.Unset) == 0
}

// PetRepository defines persistence operations for pet profiles.
type PetRepository interface {
	// Create inserts a new pet document. Returns domain.ErrSlugTaken when
	// the unique slug index rejects the insert.
	Create(ctx context.Context, p *domain.Pet) error
	FindByID(ctx context.Context, id string) (*domain.Pet, error)
	// FindBySlug retrieves a pet through the slug index.
	FindBySlug(ctx context.Context, slug string) (*domain.Pet, error)
	// SlugExists reports whether any pet document carries the exact slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Pet, error)
	// Update applies changes to a single pet document atomically.
	Update(ctx context.Context, id string, changes PetChanges) error
	// List returns a page of pets matching filter and the total count.
	List(ctx context.Context, filter ListPetsFilter) ([]*domain.Pet, int64, error)
}

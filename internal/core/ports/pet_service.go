package ports

import (
	"context"
	"time"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// CreatePetInput carries all data needed to register a new pet profile.
// UserID becomes the primary owner.
type CreatePetInput struct {
	UserID             string
	Name               string
	Species            string
	Breed              string
	Color              string
	Description        string
	Microchip          string
	ContactPhone       string
	ContactEmail       string
	AllowPublicProfile bool
}

// PetResult is returned after creating a pet.
type PetResult struct {
	ID        string
	Slug      string
	Status    string
	CreatedAt time.Time
}

// UpdatePetInput is the tri-state delta for PATCH. Fields left unset are
// not touched; Patch values carry set-vs-null explicitly. Slug and owner
// are immutable and deliberately absent here.
type UpdatePetInput struct {
	PetID  string
	UserID string

	Name               Patch[string]
	Species            Patch[string]
	Breed              Patch[string]
	Status             Patch[string]
	Color              Patch[string]
	Description        Patch[string]
	Microchip          Patch[string]
	ContactPhone       Patch[string]
	ContactEmail       Patch[string]
	AllowPublicProfile Patch[bool]
}

// PublicPetProfile is the reduced view served on the anonymous slug path.
// It intentionally omits ownership, microchip and contact internals beyond
// what the owner chose to publish.
type PublicPetProfile struct {
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Species     string              `json:"species"`
	Breed       string              `json:"breed,omitempty"`
	Status      string              `json:"status"`
	Color       string              `json:"color,omitempty"`
	Description string              `json:"description,omitempty"`
	Contact     domain.ContactInfo  `json:"contact"`
}

// ListMyPetsResult groups the caller's owned and shared pets.
type ListMyPetsResult struct {
	Owned  []*domain.Pet
	Shared []*domain.Pet
}

// PetService defines use-case operations over pet profiles. Every access
// decision goes through the membership resolver; handlers only translate
// the resulting domain errors.
type PetService interface {
	CreatePet(ctx context.Context, input CreatePetInput) (*PetResult, error)
	// GetPet requires view capability. A private pet the caller cannot view
	// is indistinguishable from an absent one (domain.ErrPetNotFound).
	GetPet(ctx context.Context, petID, userID string) (*domain.Pet, error)
	// GetPublicProfile serves the anonymous slug path. It never requires an
	// identity, and only pets with the public flag set resolve.
	GetPublicProfile(ctx context.Context, slug string) (*PublicPetProfile, error)
	ListMyPets(ctx context.Context, userID string) (*ListMyPetsResult, error)
	UpdatePet(ctx context.Context, input UpdatePetInput) (*domain.Pet, error)
	// ArchivePet soft-deletes: primary owner only, status moves to archived.
	ArchivePet(ctx context.Context, petID, userID string) error
	// ListActivity returns the pet's audit timeline, view-gated.
	ListActivity(ctx context.Context, petID, userID string, limit int) ([]*domain.ActivityEvent, error)
}

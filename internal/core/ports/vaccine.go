package ports

import (
	"context"
	"time"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// VaccineRepository persists vaccine records, indexed by pet.
type VaccineRepository interface {
	Create(ctx context.Context, r *domain.VaccineRecord) error
	// FindByID returns domain.ErrRecordNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.VaccineRecord, error)
	ListByPet(ctx context.Context, petID string) ([]*domain.VaccineRecord, error)
	Update(ctx context.Context, r *domain.VaccineRecord) error
	Delete(ctx context.Context, id string) error
}

// AddVaccineInput creates a new record on a pet.
type AddVaccineInput struct {
	PetID          string
	UserID         string
	Name           string
	AdministeredAt time.Time
	ExpiresAt      *time.Time
	VetName        string
	Notes          string
}

// UpdateVaccineInput is the tri-state delta for a record. ExpiresAt is the
// one clearable date; AdministeredAt may be replaced but never cleared.
type UpdateVaccineInput struct {
	PetID    string
	RecordID string
	UserID   string

	Name           Patch[string]
	AdministeredAt Patch[time.Time]
	ExpiresAt      Patch[time.Time]
	VetName        Patch[string]
	Notes          Patch[string]
}

// VaccineService manages vaccine records: view capability for reads, edit
// capability for writes. A record's pet must match the path pet.
type VaccineService interface {
	Add(ctx context.Context, input AddVaccineInput) (*domain.VaccineRecord, error)
	List(ctx context.Context, petID, userID string) ([]*domain.VaccineRecord, error)
	Update(ctx context.Context, input UpdateVaccineInput) (*domain.VaccineRecord, error)
	Remove(ctx context.Context, petID, recordID, userID string) error
}

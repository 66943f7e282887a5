package domain

import (
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("vaccine record not found")

// VaccineRecord is a single vaccination entry on a pet's medical history.
// ExpiresAt is optional; when present it must be after AdministeredAt.
type VaccineRecord struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	PetID          string     `json:"pet_id" bson:"pet_id"`
	Name           string     `json:"name" bson:"name"`
	AdministeredAt time.Time  `json:"administered_at" bson:"administered_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	VetName        string     `json:"vet_name,omitempty" bson:"vet_name,omitempty"`
	Notes          string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

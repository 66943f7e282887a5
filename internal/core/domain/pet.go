package domain

import (
	"errors"
	"time"
)

// PetStatus represents the lifecycle state of a pet profile.
type PetStatus string

const (
	StatusActive   PetStatus = "active"
	StatusDeceased PetStatus = "deceased"
	StatusArchived PetStatus = "archived"
)

// Species is the coarse species tag carried on a profile.
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

var ErrPetNotFound = errors.New("pet not found")
var ErrSlugTaken = errors.New("slug already taken")
var ErrValidation = errors.New("validation failed")

// ContactInfo holds the reachable-owner details shown on a profile.
type ContactInfo struct {
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// Pet is the core aggregate root: the stable identity record for an animal.
// OwnerUserID is the primary owner and is authoritative regardless of any
// membership rows. Slug is unique for the lifetime of the system and is
// never recycled, even after archival. Pets are never hard-deleted —
// deletion is a status transition to archived.
type Pet struct {
	ID                 string      `json:"id" bson:"_id,omitempty"`
	OwnerUserID        string      `json:"owner_user_id" bson:"owner_user_id"`
	Name               string      `json:"name" bson:"name"`
	Species            Species     `json:"species" bson:"species"`
	Breed              string      `json:"breed,omitempty" bson:"breed,omitempty"`
	Status             PetStatus   `json:"status" bson:"status"`
	Slug               string      `json:"slug" bson:"slug"`
	AllowPublicProfile bool        `json:"allow_public_profile" bson:"allow_public_profile"`
	Color              string      `json:"color,omitempty" bson:"color,omitempty"`
	Description        string      `json:"description,omitempty" bson:"description,omitempty"`
	Microchip          string      `json:"microchip,omitempty" bson:"microchip,omitempty"`
	Contact            ContactInfo `json:"contact" bson:"contact"`
	CreatedAt          time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" bson:"updated_at"`
}

// Viewable reports whether the profile is still publicly servable: archived
// pets drop out of the public path even when sharing was left enabled.
func (p *Pet) Viewable() bool {
	return p.Status != StatusArchived
}

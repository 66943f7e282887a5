package handler

import (
	"time"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type contactRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

type createPetRequest struct {
	Name               string         `json:"name"    validate:"required,min=1,max=100"`
	Species            string         `json:"species" validate:"required,oneof=dog cat bird rabbit other"`
	Breed              string         `json:"breed"`
	Color              string         `json:"color"`
	Description        string         `json:"description"`
	Microchip          string         `json:"microchip"`
	Contact            contactRequest `json:"contact"`
	AllowPublicProfile bool           `json:"allow_public_profile"`
}

// updatePetRequest is the tri-state PATCH body. Every field is optional;
// absent fields leave the stored value untouched, explicit nulls clear the
// clearable ones. Slug and ownership never appear here.
type updatePetRequest struct {
	Name               ports.Patch[string] `json:"name"`
	Species            ports.Patch[string] `json:"species"`
	Breed              ports.Patch[string] `json:"breed"`
	Status             ports.Patch[string] `json:"status"`
	Color              ports.Patch[string] `json:"color"`
	Description        ports.Patch[string] `json:"description"`
	Microchip          ports.Patch[string] `json:"microchip"`
	ContactPhone       ports.Patch[string] `json:"contact_phone"`
	ContactEmail       ports.Patch[string] `json:"contact_email"`
	AllowPublicProfile ports.Patch[bool]   `json:"allow_public_profile"`
}

// --- Response types ---
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type petLinks struct {
	Self    string `json:"self"`
	Profile string `json:"profile,omitempty"`
}

type contactResponse struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type createPetResponse struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Links     petLinks  `json:"_links"`
}

type petResponse struct {
	ID                 string          `json:"id"`
	OwnerUserID        string          `json:"owner_user_id,omitempty"`
	Name               string          `json:"name"`
	Species            string          `json:"species"`
	Breed              string          `json:"breed,omitempty"`
	Status             string          `json:"status"`
	Slug               string          `json:"slug"`
	AllowPublicProfile bool            `json:"allow_public_profile"`
	Color              string          `json:"color,omitempty"`
	Description        string          `json:"description,omitempty"`
	Microchip          string          `json:"microchip,omitempty"`
	Contact            contactResponse `json:"contact"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Links              petLinks        `json:"_links"`
}

type listMyPetsResponse struct {
	Owned  []petResponse `json:"owned"`
	Shared []petResponse `json:"shared"`
}

type activityEventResponse struct {
	Kind        string    `json:"kind"`
	ActorUserID string    `json:"actor_user_id"`
	Detail      string    `json:"detail,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type listActivityResponse struct {
	Data []activityEventResponse `json:"data"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// --- Mappers ---

func toPetResponse(p *domain.Pet) petResponse {
	links := petLinks{Self: "/v1/pets/" + p.ID}
	if p.AllowPublicProfile {
		links.Profile = "/v1/p/" + p.Slug
	}
	return petResponse{
		ID:                 p.ID,
		OwnerUserID:        p.OwnerUserID,
		Name:               p.Name,
		Species:            string(p.Species),
		Breed:              p.Breed,
		Status:             string(p.Status),
		Slug:               p.Slug,
		AllowPublicProfile: p.AllowPublicProfile,
		Color:              p.Color,
		Description:        p.Description,
		Microchip:          p.Microchip,
		Contact:            contactResponse{Phone: p.Contact.Phone, Email: p.Contact.Email},
		CreatedAt:          p.CreatedAt.UTC(),
		UpdatedAt:          p.UpdatedAt.UTC(),
		Links:              links,
	}
}

func toPetResponses(pets []*domain.Pet) []petResponse {
	out := make([]petResponse, len(pets))
	for i, p := range pets {
		out[i] = toPetResponse(p)
	}
	return out
}

func toActivityResponse(events []*domain.ActivityEvent) listActivityResponse {
	out := make([]activityEventResponse, len(events))
	for i, e := range events {
		out[i] = activityEventResponse{
			Kind:        string(e.Kind),
			ActorUserID: e.ActorUserID,
			Detail:      e.Detail,
			OccurredAt:  e.OccurredAt.UTC(),
		}
	}
	return listActivityResponse{Data: out}
}

func toUpdateInput(petID, userID string, req updatePetRequest) ports.UpdatePetInput {
	return ports.UpdatePetInput{
		PetID:              petID,
		UserID:             userID,
		Name:               req.Name,
		Species:            req.Species,
		Breed:              req.Breed,
		Status:             req.Status,
		Color:              req.Color,
		Description:        req.Description,
		Microchip:          req.Microchip,
		ContactPhone:       req.ContactPhone,
		ContactEmail:       req.ContactEmail,
		AllowPublicProfile: req.AllowPublicProfile,
	}
}

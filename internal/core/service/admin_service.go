package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// AdminService covers the platform-owner surface: cross-pet listing and the
// privileged grant/revoke path for the platform-owner marker itself. Route
// middleware has already proven the caller is a platform owner.
type AdminService struct {
	pets   ports.PetRepository
	owners ports.PlatformOwnerRepository
	log    zerolog.Logger
}

func NewAdminService(pets ports.PetRepository, owners ports.PlatformOwnerRepository, log zerolog.Logger) *AdminService {
	return &AdminService{pets: pets, owners: owners, log: log}
}

// ListAllPets pages through every pet, unscoped by owner.
func (s *AdminService) ListAllPets(ctx context.Context, filter ports.ListPetsFilter) (*ports.ListAllPetsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	filter.OwnerUserID = ""

	items, total, err := s.pets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListAllPetsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GrantPlatformOwner marks a user as platform owner. Granting an existing
// owner is a no-op at the store level (unique index upsert).
func (s *AdminService) GrantPlatformOwner(ctx context.Context, actorUserID, targetUserID string) error {
	if targetUserID == "" {
		return fmt.Errorf("%w: target user required", domain.ErrValidation)
	}

	err := s.owners.Grant(ctx, &domain.PlatformOwner{
		UserID:    targetUserID,
		GrantedBy: actorUserID,
		GrantedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("target", targetUserID).Str("actor", actorUserID).Msg("platform owner granted")
	return nil
}

// RevokePlatformOwner removes the marker. Revoking yourself is rejected so
// the platform can never lock out its last administrator by accident.
func (s *AdminService) RevokePlatformOwner(ctx context.Context, actorUserID, targetUserID string) error {
	if targetUserID == actorUserID {
		return fmt.Errorf("%w: cannot revoke your own platform ownership", domain.ErrValidation)
	}

	if err := s.owners.Revoke(ctx, targetUserID); err != nil {
		return err
	}

	s.log.Info().Str("target", targetUserID).Str("actor", actorUserID).Msg("platform owner revoked")
	return nil
}

func (s *AdminService) ListPlatformOwners(ctx context.Context) ([]*domain.PlatformOwner, error) {
	return s.owners.List(ctx)
}

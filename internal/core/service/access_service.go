package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// AccessService resolves a user's relationship to a pet and the derived
// view/edit capabilities. It holds no state of its own and only reads, so
// it is safe to share across concurrent requests.
//
// The resolver is total: an absent pet, an absent membership row or an
// empty user identifier all yield a none-decision rather than an error.
// Errors surface only for store I/O failures.
type AccessService struct {
	pets    ports.PetRepository
	members ports.MembershipRepository
	log     zerolog.Logger
}

func NewAccessService(pets ports.PetRepository, members ports.MembershipRepository, log zerolog.Logger) *AccessService {
	return &AccessService{pets: pets, members: members, log: log}
}

var noneDecision = domain.MembershipDecision{Role: domain.RoleNone}

// ResolveMembership loads the pet and determines the user's role on it.
// Primary ownership is authoritative and short-circuits before any
// membership lookup, even if a stray membership row exists for the owner.
func (s *AccessService) ResolveMembership(ctx context.Context, petID, userID string) (domain.MembershipDecision, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, domain.ErrPetNotFound) {
			return noneDecision, nil
		}
		return noneDecision, err
	}

	if userID != "" && pet.OwnerUserID == userID {
		return domain.MembershipDecision{Role: domain.RoleOwner, IsPrimaryOwner: true}, nil
	}

	if userID == "" {
		return noneDecision, nil
	}

	m, err := s.members.FindByPetAndUser(ctx, petID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return noneDecision, nil
		}
		return noneDecision, err
	}

	return domain.MembershipDecision{Role: m.Role}, nil
}

// CanEdit reports whether userID may mutate the pet or its sub-resources.
func (s *AccessService) CanEdit(ctx context.Context, petID, userID string) (bool, error) {
	d, err := s.ResolveMembership(ctx, petID, userID)
	if err != nil {
		return false, err
	}
	return d.CanEdit(), nil
}

// CanView reports whether userID may read the pet. With allowPublic set and
// the pet's public flag enabled, the answer is yes regardless of identity —
// including an empty userID. Otherwise an empty userID never views.
func (s *AccessService) CanView(ctx context.Context, petID, userID string, allowPublic bool) (bool, error) {
	if allowPublic {
		pet, err := s.pets.FindByID(ctx, petID)
		if err != nil && !errors.Is(err, domain.ErrPetNotFound) {
			return false, err
		}
		if pet != nil && pet.AllowPublicProfile {
			return true, nil
		}
	}

	if userID == "" {
		return false, nil
	}

	d, err := s.ResolveMembership(ctx, petID, userID)
	if err != nil {
		return false, err
	}
	return d.CanView(), nil
}

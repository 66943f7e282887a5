package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// MembershipService manages sharing: granting, changing and revoking roles
// on a pet. Sharing authority belongs to the primary owner and owner-role
// members; guardians and viewers cannot manage who a pet is shared with.
type MembershipService struct {
	pets     ports.PetRepository
	members  ports.MembershipRepository
	access   ports.AccessResolver
	recorder ActivityRecorder
	log      zerolog.Logger
}

func NewMembershipService(
	pets ports.PetRepository,
	members ports.MembershipRepository,
	access ports.AccessResolver,
	recorder ActivityRecorder,
	log zerolog.Logger,
) *MembershipService {
	return &MembershipService{pets: pets, members: members, access: access, recorder: recorder, log: log}
}

// Share grants role to the target user. Re-sharing with an existing member
// upserts the role, keeping the one-row-per-(pet,user) invariant.
func (s *MembershipService) Share(ctx context.Context, input ports.ShareInput) (*domain.Membership, error) {
	pet, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}

	if err := s.requireShareAuthority(ctx, input.PetID, input.ActorUserID); err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if !domain.ValidShareRole(role) {
		return nil, fmt.Errorf("%w: role must be owner, guardian or viewer", domain.ErrValidation)
	}
	if input.TargetUserID == "" {
		return nil, fmt.Errorf("%w: target user required", domain.ErrValidation)
	}
	if input.TargetUserID == pet.OwnerUserID {
		return nil, domain.ErrPrimaryOwnerImplicit
	}

	now := time.Now().UTC()
	m := &domain.Membership{
		PetID:     input.PetID,
		UserID:    input.TargetUserID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.members.Upsert(ctx, m); err != nil {
		return nil, err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       input.PetID,
		Kind:        domain.ActivityMemberAdded,
		ActorUserID: input.ActorUserID,
		Detail:      fmt.Sprintf("%s as %s", input.TargetUserID, role),
		OccurredAt:  now,
	})

	s.log.Info().Str("pet_id", input.PetID).Str("target", input.TargetUserID).Str("role", input.Role).Msg("pet shared")
	return m, nil
}

// UpdateRole changes an existing member's role.
func (s *MembershipService) UpdateRole(ctx context.Context, input ports.ShareInput) (*domain.Membership, error) {
	pet, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}

	if err := s.requireShareAuthority(ctx, input.PetID, input.ActorUserID); err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if !domain.ValidShareRole(role) {
		return nil, fmt.Errorf("%w: role must be owner, guardian or viewer", domain.ErrValidation)
	}
	if input.TargetUserID == pet.OwnerUserID {
		return nil, domain.ErrPrimaryOwnerImplicit
	}

	m, err := s.members.FindByPetAndUser(ctx, input.PetID, input.TargetUserID)
	if err != nil {
		return nil, err
	}

	m.Role = role
	m.UpdatedAt = time.Now().UTC()
	if err := s.members.Upsert(ctx, m); err != nil {
		return nil, err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       input.PetID,
		Kind:        domain.ActivityMemberUpdated,
		ActorUserID: input.ActorUserID,
		Detail:      fmt.Sprintf("%s to %s", input.TargetUserID, role),
		OccurredAt:  m.UpdatedAt,
	})

	return m, nil
}

// Revoke removes a membership row. A member may always remove themselves;
// removing anyone else takes sharing authority. The primary owner has no
// row, so their access can never be revoked here — ownership transfer is a
// different operation.
func (s *MembershipService) Revoke(ctx context.Context, input ports.RevokeInput) error {
	pet, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		return err
	}

	if input.TargetUserID == pet.OwnerUserID {
		return domain.ErrPrimaryOwnerImplicit
	}

	if input.ActorUserID != input.TargetUserID {
		if err := s.requireShareAuthority(ctx, input.PetID, input.ActorUserID); err != nil {
			return err
		}
	}

	if err := s.members.Delete(ctx, input.PetID, input.TargetUserID); err != nil {
		return err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       input.PetID,
		Kind:        domain.ActivityMemberRemoved,
		ActorUserID: input.ActorUserID,
		Detail:      input.TargetUserID,
		OccurredAt:  time.Now().UTC(),
	})

	s.log.Info().Str("pet_id", input.PetID).Str("target", input.TargetUserID).Msg("membership revoked")
	return nil
}

// ListMembers is view-gated.
func (s *MembershipService) ListMembers(ctx context.Context, petID, userID string) ([]*domain.Membership, error) {
	if _, err := s.pets.FindByID(ctx, petID); err != nil {
		return nil, err
	}

	ok, err := s.access.CanView(ctx, petID, userID, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	return s.members.ListByPet(ctx, petID)
}

// requireShareAuthority allows the primary owner and owner-role members.
func (s *MembershipService) requireShareAuthority(ctx context.Context, petID, userID string) error {
	d, err := s.access.ResolveMembership(ctx, petID, userID)
	if err != nil {
		return err
	}
	if d.IsPrimaryOwner || d.Role == domain.RoleOwner {
		return nil
	}
	if d.CanView() {
		return domain.ErrUnauthorized
	}
	return domain.ErrPetNotFound
}

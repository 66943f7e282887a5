package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// createAttempts bounds re-allocation when the unique slug index rejects an
// insert that raced another creation with the same generated candidate.
const createAttempts = 3

// ActivityRecorder abstracts the async audit trail (queue dispatcher).
// Recording is fire-and-forget; a lost event never fails the mutation.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ProfileCache abstracts the public-profile cache (Redis). Get returns
// (nil, nil) on a miss.
type ProfileCache interface {
	Get(ctx context.Context, slug string) (*ports.PublicPetProfile, error)
	Set(ctx context.Context, slug string, profile *ports.PublicPetProfile) error
	Invalidate(ctx context.Context, slug string) error
}

// PetService implements pet profile use cases on top of the membership
// resolver and the slug allocator.
type PetService struct {
	pets     ports.PetRepository
	members  ports.MembershipRepository
	access   ports.AccessResolver
	alloc    *SlugAllocator
	activity ports.ActivityRepository
	recorder ActivityRecorder
	cache    ProfileCache
	log      zerolog.Logger
}

func NewPetService(
	pets ports.PetRepository,
	members ports.MembershipRepository,
	access ports.AccessResolver,
	alloc *SlugAllocator,
	activity ports.ActivityRepository,
	recorder ActivityRecorder,
	cache ProfileCache,
	log zerolog.Logger,
) *PetService {
	return &PetService{
		pets:     pets,
		members:  members,
		access:   access,
		alloc:    alloc,
		activity: activity,
		recorder: recorder,
		cache:    cache,
		log:      log,
	}
}

func validSpecies(s string) bool {
	switch domain.Species(s) {
	case domain.SpeciesDog, domain.SpeciesCat, domain.SpeciesBird, domain.SpeciesRabbit, domain.SpeciesOther:
		return true
	}
	return false
}

// CreatePet validates the profile, allocates a unique slug and inserts the
// document. The caller becomes primary owner. A duplicate-key rejection from
// the slug index triggers a bounded re-allocation.
func (s *PetService) CreatePet(ctx context.Context, input ports.CreatePetInput) (*ports.PetResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be 1-100 characters", domain.ErrValidation)
	}
	if !validSpecies(input.Species) {
		return nil, fmt.Errorf("%w: unknown species %q", domain.ErrValidation, input.Species)
	}

	var pet *domain.Pet
	for attempt := 1; ; attempt++ {
		slug, err := s.alloc.Allocate(ctx, name)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		pet = &domain.Pet{
			OwnerUserID:        input.UserID,
			Name:               name,
			Species:            domain.Species(input.Species),
			Breed:              input.Breed,
			Status:             domain.StatusActive,
			Slug:               slug,
			AllowPublicProfile: input.AllowPublicProfile,
			Color:              input.Color,
			Description:        input.Description,
			Microchip:          input.Microchip,
			Contact: domain.ContactInfo{
				Phone: input.ContactPhone,
				Email: input.ContactEmail,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.pets.Create(ctx, pet)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrSlugTaken) || attempt >= createAttempts {
			s.log.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create pet")
			return nil, err
		}
		s.log.Warn().Str("slug", slug).Int("attempt", attempt).Msg("slug raced an insert, reallocating")
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       pet.ID,
		Kind:        domain.ActivityPetCreated,
		ActorUserID: input.UserID,
		Detail:      pet.Name,
		OccurredAt:  pet.CreatedAt,
	})

	s.log.Info().Str("pet_id", pet.ID).Str("slug", pet.Slug).Str("owner", input.UserID).Msg("pet created")

	return &ports.PetResult{
		ID:        pet.ID,
		Slug:      pet.Slug,
		Status:    string(pet.Status),
		CreatedAt: pet.CreatedAt,
	}, nil
}

// GetPet returns the full profile when the caller may view it. A private
// pet the caller has no relation to looks exactly like an absent one.
func (s *PetService) GetPet(ctx context.Context, petID, userID string) (*domain.Pet, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.CanView(ctx, petID, userID, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	return pet, nil
}

// GetPublicProfile serves the anonymous slug path through the cache.
func (s *PetService) GetPublicProfile(ctx context.Context, slug string) (*ports.PublicPetProfile, error) {
	if cached, err := s.cache.Get(ctx, slug); err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("profile cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	pet, err := s.pets.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !pet.AllowPublicProfile || !pet.Viewable() {
		return nil, domain.ErrPetNotFound
	}

	profile := &ports.PublicPetProfile{
		Slug:        pet.Slug,
		Name:        pet.Name,
		Species:     string(pet.Species),
		Breed:       pet.Breed,
		Status:      string(pet.Status),
		Color:       pet.Color,
		Description: pet.Description,
		Contact:     pet.Contact,
	}

	if err := s.cache.Set(ctx, slug, profile); err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("profile cache write failed")
	}
	return profile, nil
}

// ListMyPets returns the pets the caller owns and the ones shared with them.
func (s *PetService) ListMyPets(ctx context.Context, userID string) (*ports.ListMyPetsResult, error) {
	owned, _, err := s.pets.List(ctx, ports.ListPetsFilter{OwnerUserID: userID, Page: 1, Limit: 100})
	if err != nil {
		return nil, err
	}

	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.PetID)
	}

	shared, err := s.pets.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ports.ListMyPetsResult{Owned: owned, Shared: shared}, nil
}

// UpdatePet applies a tri-state delta. Fields absent from the request stay
// untouched; explicit nulls clear the clearable fields. Slug and owner are
// immutable.
func (s *PetService) UpdatePet(ctx context.Context, input ports.UpdatePetInput) (*domain.Pet, error) {
	pet, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, pet, input.UserID); err != nil {
		return nil, err
	}

	changes, err := buildPetChanges(input)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return pet, nil
	}
	changes.Set["updated_at"] = time.Now().UTC()

	if err := s.pets.Update(ctx, input.PetID, changes); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, pet.Slug); err != nil {
		s.log.Warn().Err(err).Str("slug", pet.Slug).Msg("profile cache invalidation failed")
	}

	updated, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       pet.ID,
		Kind:        domain.ActivityPetUpdated,
		ActorUserID: input.UserID,
		OccurredAt:  time.Now().UTC(),
	})

	return updated, nil
}

// buildPetChanges translates the tri-state input into a store-level delta.
// Name, species, status and the public flag are never clearable; breed,
// color, description, microchip and the contact fields are.
func buildPetChanges(input ports.UpdatePetInput) (ports.PetChanges, error) {
	changes := ports.PetChanges{Set: map[string]any{}}

	if input.Name.Set {
		if !input.Name.Valid {
			return changes, fmt.Errorf("%w: name cannot be null", domain.ErrValidation)
		}
		name := strings.TrimSpace(input.Name.Value)
		if name == "" || len(name) > 100 {
			return changes, fmt.Errorf("%w: name must be 1-100 characters", domain.ErrValidation)
		}
		changes.Set["name"] = name
	}
	if input.Species.Set {
		if !input.Species.Valid || !validSpecies(input.Species.Value) {
			return changes, fmt.Errorf("%w: unknown species", domain.ErrValidation)
		}
		changes.Set["species"] = input.Species.Value
	}
	if input.Status.Set {
		if !input.Status.Valid {
			return changes, fmt.Errorf("%w: status cannot be null", domain.ErrValidation)
		}
		switch domain.PetStatus(input.Status.Value) {
		case domain.StatusActive, domain.StatusDeceased:
			changes.Set["status"] = input.Status.Value
		case domain.StatusArchived:
			return changes, fmt.Errorf("%w: archive through the delete endpoint", domain.ErrValidation)
		default:
			return changes, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status.Value)
		}
	}
	if input.AllowPublicProfile.Set {
		if !input.AllowPublicProfile.Valid {
			return changes, fmt.Errorf("%w: allow_public_profile cannot be null", domain.ErrValidation)
		}
		changes.Set["allow_public_profile"] = input.AllowPublicProfile.Value
	}

	clearable := []struct {
		patch ports.Patch[string]
		field string
	}{
		{input.Breed, "breed"},
		{input.Color, "color"},
		{input.Description, "description"},
		{input.Microchip, "microchip"},
		{input.ContactPhone, "contact.phone"},
		{input.ContactEmail, "contact.email"},
	}
	for _, f := range clearable {
		if !f.patch.Set {
			continue
		}
		if f.patch.Valid {
			changes.Set[f.field] = f.patch.Value
		} else {
			changes.Unset = append(changes.Unset, f.field)
		}
	}

	return changes, nil
}

// ArchivePet soft-deletes a profile. Primary owner only — even owner-role
// members cannot archive.
func (s *PetService) ArchivePet(ctx context.Context, petID, userID string) error {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return err
	}

	d, err := s.access.ResolveMembership(ctx, petID, userID)
	if err != nil {
		return err
	}
	if !d.IsPrimaryOwner {
		if d.CanView() {
			return domain.ErrUnauthorized
		}
		return domain.ErrPetNotFound
	}

	changes := ports.PetChanges{Set: map[string]any{
		"status":     string(domain.StatusArchived),
		"updated_at": time.Now().UTC(),
	}}
	if err := s.pets.Update(ctx, petID, changes); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, pet.Slug); err != nil {
		s.log.Warn().Err(err).Str("slug", pet.Slug).Msg("profile cache invalidation failed")
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       petID,
		Kind:        domain.ActivityPetArchived,
		ActorUserID: userID,
		OccurredAt:  time.Now().UTC(),
	})

	s.log.Info().Str("pet_id", petID).Str("actor", userID).Msg("pet archived")
	return nil
}

// ListActivity returns the audit timeline, member-gated (the public flag
// does not expose activity).
func (s *PetService) ListActivity(ctx context.Context, petID, userID string, limit int) ([]*domain.ActivityEvent, error) {
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

	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.activity.ListByPet(ctx, petID, limit)
}

// requireEdit enforces the standard ordering: resource loaded first (the
// caller already did that), capability second, mutation last. Callers who
// can view but not edit get Unauthorized; everyone else sees NotFound.
func (s *PetService) requireEdit(ctx context.Context, pet *domain.Pet, userID string) error {
	d, err := s.access.ResolveMembership(ctx, pet.ID, userID)
	if err != nil {
		return err
	}
	if d.CanEdit() {
		return nil
	}
	if d.CanView() {
		return domain.ErrUnauthorized
	}
	return domain.ErrPetNotFound
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// VaccineService manages vaccine records under the pet's capability gates.
type VaccineService struct {
	pets     ports.PetRepository
	records  ports.VaccineRepository
	access   ports.AccessResolver
	recorder ActivityRecorder
	log      zerolog.Logger
}

func NewVaccineService(
	pets ports.PetRepository,
	records ports.VaccineRepository,
	access ports.AccessResolver,
	recorder ActivityRecorder,
	log zerolog.Logger,
) *VaccineService {
	return &VaccineService{pets: pets, records: records, access: access, recorder: recorder, log: log}
}

func validVaccineDates(administered time.Time, expires *time.Time) error {
	if administered.IsZero() {
		return fmt.Errorf("%w: administered_at required", domain.ErrValidation)
	}
	if expires != nil && !expires.After(administered) {
		return fmt.Errorf("%w: expires_at must be after administered_at", domain.ErrValidation)
	}
	return nil
}

// Add creates a record; edit capability required.
func (s *VaccineService) Add(ctx context.Context, input ports.AddVaccineInput) (*domain.VaccineRecord, error) {
	if _, err := s.pets.FindByID(ctx, input.PetID); err != nil {
		return nil, err
	}
	if err := s.requireEdit(ctx, input.PetID, input.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: vaccine name required", domain.ErrValidation)
	}
	if err := validVaccineDates(input.AdministeredAt, input.ExpiresAt); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &domain.VaccineRecord{
		PetID:          input.PetID,
		Name:           name,
		AdministeredAt: input.AdministeredAt.UTC(),
		ExpiresAt:      input.ExpiresAt,
		VetName:        input.VetName,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       input.PetID,
		Kind:        domain.ActivityVaccineAdded,
		ActorUserID: input.UserID,
		Detail:      name,
		OccurredAt:  now,
	})
	return rec, nil
}

// List is view-gated.
func (s *VaccineService) List(ctx context.Context, petID, userID string) ([]*domain.VaccineRecord, error) {
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
	return s.records.ListByPet(ctx, petID)
}

// Update applies a tri-state delta to a record. ExpiresAt is clearable;
// name and administered_at are not.
func (s *VaccineService) Update(ctx context.Context, input ports.UpdateVaccineInput) (*domain.VaccineRecord, error) {
	if _, err := s.pets.FindByID(ctx, input.PetID); err != nil {
		return nil, err
	}
	if err := s.requireEdit(ctx, input.PetID, input.UserID); err != nil {
		return nil, err
	}

	rec, err := s.records.FindByID(ctx, input.RecordID)
	if err != nil {
		return nil, err
	}
	if rec.PetID != input.PetID {
		return nil, domain.ErrRecordNotFound
	}

	if input.Name.Set {
		if !input.Name.Valid || strings.TrimSpace(input.Name.Value) == "" {
			return nil, fmt.Errorf("%w: vaccine name cannot be empty", domain.ErrValidation)
		}
		rec.Name = strings.TrimSpace(input.Name.Value)
	}
	if input.AdministeredAt.Set {
		if !input.AdministeredAt.Valid {
			return nil, fmt.Errorf("%w: administered_at cannot be null", domain.ErrValidation)
		}
		rec.AdministeredAt = input.AdministeredAt.Value.UTC()
	}
	if input.ExpiresAt.Set {
		if input.ExpiresAt.Valid {
			t := input.ExpiresAt.Value.UTC()
			rec.ExpiresAt = &t
		} else {
			rec.ExpiresAt = nil
		}
	}
	if input.VetName.Set {
		if input.VetName.Valid {
			rec.VetName = input.VetName.Value
		} else {
			rec.VetName = ""
		}
	}
	if input.Notes.Set {
		if input.Notes.Valid {
			rec.Notes = input.Notes.Value
		} else {
			rec.Notes = ""
		}
	}

	if err := validVaccineDates(rec.AdministeredAt, rec.ExpiresAt); err != nil {
		return nil, err
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       input.PetID,
		Kind:        domain.ActivityVaccineUpdated,
		ActorUserID: input.UserID,
		Detail:      rec.Name,
		OccurredAt:  rec.UpdatedAt,
	})
	return rec, nil
}

// Remove deletes a record; edit capability required.
func (s *VaccineService) Remove(ctx context.Context, petID, recordID, userID string) error {
	if _, err := s.pets.FindByID(ctx, petID); err != nil {
		return err
	}
	if err := s.requireEdit(ctx, petID, userID); err != nil {
		return err
	}

	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.PetID != petID {
		return domain.ErrRecordNotFound
	}

	if err := s.records.Delete(ctx, recordID); err != nil {
		return err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       petID,
		Kind:        domain.ActivityVaccineRemoved,
		ActorUserID: userID,
		Detail:      rec.Name,
		OccurredAt:  time.Now().UTC(),
	})
	return nil
}

func (s *VaccineService) requireEdit(ctx context.Context, petID, userID string) error {
	d, err := s.access.ResolveMembership(ctx, petID, userID)
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

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// AttachmentService manages file attachment metadata. The bytes live in
// external blob storage; this layer only mints storage keys and records
// what was uploaded.
type AttachmentService struct {
	pets        ports.PetRepository
	attachments ports.AttachmentRepository
	access      ports.AccessResolver
	recorder    ActivityRecorder
	log         zerolog.Logger
}

func NewAttachmentService(
	pets ports.PetRepository,
	attachments ports.AttachmentRepository,
	access ports.AccessResolver,
	recorder ActivityRecorder,
	log zerolog.Logger,
) *AttachmentService {
	return &AttachmentService{pets: pets, attachments: attachments, access: access, recorder: recorder, log: log}
}

// Register stores metadata for an uploaded file and mints its storage key.
func (s *AttachmentService) Register(ctx context.Context, input ports.RegisterAttachmentInput) (*domain.Attachment, error) {
	if _, err := s.pets.FindByID(ctx, input.PetID); err != nil {
		return nil, err
	}
	if err := s.requireEdit(ctx, input.PetID, input.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.FileName)
	if name == "" {
		return nil, fmt.Errorf("%w: file name required", domain.ErrValidation)
	}
	if input.SizeBytes <= 0 || input.SizeBytes > domain.MaxAttachmentSize {
		return nil, fmt.Errorf("%w: file size out of bounds", domain.ErrValidation)
	}
	if input.ContentType == "" {
		return nil, fmt.Errorf("%w: content type required", domain.ErrValidation)
	}

	att := &domain.Attachment{
		PetID:       input.PetID,
		StorageKey:  uuid.NewString(),
		FileName:    name,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		UploadedBy:  input.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.attachments.Create(ctx, att); err != nil {
		return nil, err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       input.PetID,
		Kind:        domain.ActivityFileAdded,
		ActorUserID: input.UserID,
		Detail:      name,
		OccurredAt:  att.CreatedAt,
	})
	return att, nil
}

// List is view-gated.
func (s *AttachmentService) List(ctx context.Context, petID, userID string) ([]*domain.Attachment, error) {
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
	return s.attachments.ListByPet(ctx, petID)
}

// Remove deletes attachment metadata; edit capability required.
func (s *AttachmentService) Remove(ctx context.Context, petID, attachmentID, userID string) error {
	if _, err := s.pets.FindByID(ctx, petID); err != nil {
		return err
	}
	if err := s.requireEdit(ctx, petID, userID); err != nil {
		return err
	}

	att, err := s.attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}
	if att.PetID != petID {
		return domain.ErrAttachmentNotFound
	}

	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return err
	}

	s.recorder.Record(domain.ActivityEvent{
		PetID:       petID,
		Kind:        domain.ActivityFileRemoved,
		ActorUserID: userID,
		Detail:      att.FileName,
		OccurredAt:  time.Now().UTC(),
	})
	return nil
}

func (s *AttachmentService) requireEdit(ctx context.Context, petID, userID string) error {
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

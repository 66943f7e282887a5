package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// AttachmentRepository persists attachment metadata, indexed by pet.
type AttachmentRepository interface {
	Create(ctx context.Context, a *domain.Attachment) error
	// FindByID returns domain.ErrAttachmentNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByPet(ctx context.Context, petID string) ([]*domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}

// RegisterAttachmentInput registers the metadata of an uploaded file. The
// storage key is minted by the service; callers never choose it.
type RegisterAttachmentInput struct {
	PetID       string
	UserID      string
	FileName    string
	ContentType string
	SizeBytes   int64
}

// AttachmentService manages file attachment metadata with the same gating
// as vaccine records.
type AttachmentService interface {
	Register(ctx context.Context, input RegisterAttachmentInput) (*domain.Attachment, error)
	List(ctx context.Context, petID, userID string) ([]*domain.Attachment, error)
	Remove(ctx context.Context, petID, attachmentID, userID string) error
}

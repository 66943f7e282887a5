package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// ActivityRepository persists the append-only audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, e *domain.ActivityEvent) error
	// ListByPet returns the newest events first, capped at limit.
	ListByPet(ctx context.Context, petID string, limit int) ([]*domain.ActivityEvent, error)
}

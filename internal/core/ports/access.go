package ports

import (
	"context"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

// AccessResolver answers who a user is to a pet and what they may do.
// It is deliberately total: an absent pet or an empty user identifier is a
// normal input, never an error. The only errors it returns are store I/O
// failures. The decision to raise Unauthenticated/Unauthorized belongs to
// callers, which must check capabilities after loading the target resource
// and before applying any write.
type AccessResolver interface {
	// ResolveMembership determines the user's relationship to a pet.
	// Primary ownership wins over any stray membership row.
	ResolveMembership(ctx context.Context, petID, userID string) (domain.MembershipDecision, error)
	// CanEdit reports write capability: primary owner, owner or guardian.
	CanEdit(ctx context.Context, petID, userID string) (bool, error)
	// CanView reports read capability. When allowPublic is true and the
	// pet's public-profile flag is set, it returns true even for an empty
	// userID — the one path that tolerates an anonymous caller.
	CanView(ctx context.Context, petID, userID string, allowPublic bool) (bool, error)
}

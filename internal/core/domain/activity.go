package domain

import "time"

// ActivityKind identifies what happened on a pet profile.
type ActivityKind string

const (
	ActivityPetCreated     ActivityKind = "pet_created"
	ActivityPetUpdated     ActivityKind = "pet_updated"
	ActivityPetArchived    ActivityKind = "pet_archived"
	ActivityMemberAdded    ActivityKind = "member_added"
	ActivityMemberUpdated  ActivityKind = "member_updated"
	ActivityMemberRemoved  ActivityKind = "member_removed"
	ActivityVaccineAdded   ActivityKind = "vaccine_added"
	ActivityVaccineUpdated ActivityKind = "vaccine_updated"
	ActivityVaccineRemoved ActivityKind = "vaccine_removed"
	ActivityFileAdded      ActivityKind = "file_added"
	ActivityFileRemoved    ActivityKind = "file_removed"
)

// ActivityEvent is one append-only audit entry on a pet's timeline. Events
// are written asynchronously; ordering is guaranteed per pet, not globally.
type ActivityEvent struct {
	PetID       string       `json:"pet_id" bson:"pet_id"`
	Kind        ActivityKind `json:"kind" bson:"kind"`
	ActorUserID string       `json:"actor_user_id" bson:"actor_user_id"`
	Detail      string       `json:"detail,omitempty" bson:"detail,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at" bson:"occurred_at"`
}

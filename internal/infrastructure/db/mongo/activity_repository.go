package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

const collectionActivity = "pet_activity"

// ActivityRepository persists the append-only audit trail.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"pet_id":        e.PetID,
		"kind":          string(e.Kind),
		"actor_user_id": e.ActorUserID,
		"occurred_at":   e.OccurredAt.UTC(),
		"recorded_at":   time.Now().UTC(),
	}
	if e.Detail != "" {
		doc["detail"] = e.Detail
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *ActivityRepository) ListByPet(ctx context.Context, petID string, limit int) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"pet_id": petID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []*domain.ActivityEvent
	for cur.Next(ctx) {
		var doc struct {
			PetID       string    `bson:"pet_id"`
			Kind        string    `bson:"kind"`
			ActorUserID string    `bson:"actor_user_id"`
			Detail      string    `bson:"detail,omitempty"`
			OccurredAt  time.Time `bson:"occurred_at"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		events = append(events, &domain.ActivityEvent{
			PetID:       doc.PetID,
			Kind:        domain.ActivityKind(doc.Kind),
			ActorUserID: doc.ActorUserID,
			Detail:      doc.Detail,
			OccurredAt:  doc.OccurredAt,
		})
	}
	return events, cur.Err()
}

func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pet_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	return err
}

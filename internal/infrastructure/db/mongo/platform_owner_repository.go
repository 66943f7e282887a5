package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

const collectionPlatformOwners = "platform_owners"

type platformOwnerDoc struct {
	UserID    string    `bson:"user_id"`
	GrantedBy string    `bson:"granted_by,omitempty"`
	GrantedAt time.Time `bson:"granted_at"`
}

type PlatformOwnerRepository struct {
	col *mongo.Collection
}

func NewPlatformOwnerRepository(db *mongo.Database) *PlatformOwnerRepository {
	return &PlatformOwnerRepository{col: db.Collection(collectionPlatformOwners)}
}

// Grant upserts the marker so granting an existing owner stays idempotent
// under the unique user_id index.
func (r *PlatformOwnerRepository) Grant(ctx context.Context, o *domain.PlatformOwner) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": o.UserID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":    o.UserID,
			"granted_by": o.GrantedBy,
			"granted_at": o.GrantedAt,
		},
	}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *PlatformOwnerRepository) Revoke(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PlatformOwnerRepository) IsPlatformOwner(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"user_id": userID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PlatformOwnerRepository) List(ctx context.Context) ([]*domain.PlatformOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var owners []*domain.PlatformOwner
	for cur.Next(ctx) {
		var doc platformOwnerDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		owners = append(owners, &domain.PlatformOwner{
			UserID:    doc.UserID,
			GrantedBy: doc.GrantedBy,
			GrantedAt: doc.GrantedAt,
		})
	}
	return owners, cur.Err()
}

// EnsureIndexes enforces at most one marker per user.
func (r *PlatformOwnerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

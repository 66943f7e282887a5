package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

const collectionMembers = "pet_members"

type membershipDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PetID     string             `bson:"pet_id"`
	UserID    string             `bson:"user_id"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *membershipDoc) toDomain() *domain.Membership {
	return &domain.Membership{
		ID:        d.ID.Hex(),
		PetID:     d.PetID,
		UserID:    d.UserID,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type MembershipRepository struct {
	col *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{col: db.Collection(collectionMembers)}
}

// Upsert writes the unique (pet_id, user_id) row, replacing the role when
// the pair already exists. created_at survives an upsert of an existing row.
func (r *MembershipRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"pet_id": m.PetID, "user_id": m.UserID}
	update := bson.M{
		"$set": bson.M{
			"role":       string(m.Role),
			"updated_at": m.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"pet_id":     m.PetID,
			"user_id":    m.UserID,
			"created_at": m.CreatedAt,
		},
	}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByPetAndUser looks up the unique membership row for the pair.
func (r *MembershipRepository) FindByPetAndUser(ctx context.Context, petID, userID string) (*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc membershipDoc
	err := r.col.FindOne(ctx, bson.M{"pet_id": petID, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *MembershipRepository) ListByPet(ctx context.Context, petID string) ([]*domain.Membership, error) {
	return r.list(ctx, bson.M{"pet_id": petID})
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *MembershipRepository) list(ctx context.Context, filter bson.M) ([]*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []*domain.Membership
	for cur.Next(ctx) {
		var doc membershipDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		members = append(members, doc.toDomain())
	}
	return members, cur.Err()
}

func (r *MembershipRepository) Delete(ctx context.Context, petID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"pet_id": petID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// EnsureIndexes enforces at most one membership row per (pet, user) pair.
func (r *MembershipRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pet_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

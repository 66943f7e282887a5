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

const collectionVaccines = "vaccine_records"

type vaccineDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	PetID          string             `bson:"pet_id"`
	Name           string             `bson:"name"`
	AdministeredAt time.Time          `bson:"administered_at"`
	ExpiresAt      *time.Time         `bson:"expires_at,omitempty"`
	VetName        string             `bson:"vet_name,omitempty"`
	Notes          string             `bson:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d *vaccineDoc) toDomain() *domain.VaccineRecord {
	return &domain.VaccineRecord{
		ID:             d.ID.Hex(),
		PetID:          d.PetID,
		Name:           d.Name,
		AdministeredAt: d.AdministeredAt,
		ExpiresAt:      d.ExpiresAt,
		VetName:        d.VetName,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type VaccineRepository struct {
	col *mongo.Collection
}

func NewVaccineRepository(db *mongo.Database) *VaccineRepository {
	return &VaccineRepository{col: db.Collection(collectionVaccines)}
}

func (r *VaccineRepository) Create(ctx context.Context, rec *domain.VaccineRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vaccineDoc{
		PetID:          rec.PetID,
		Name:           rec.Name,
		AdministeredAt: rec.AdministeredAt,
		ExpiresAt:      rec.ExpiresAt,
		VetName:        rec.VetName,
		Notes:          rec.Notes,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

func (r *VaccineRepository) FindByID(ctx context.Context, id string) (*domain.VaccineRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	var doc vaccineDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *VaccineRepository) ListByPet(ctx context.Context, petID string) ([]*domain.VaccineRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "administered_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"pet_id": petID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []*domain.VaccineRecord
	for cur.Next(ctx) {
		var doc vaccineDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, doc.toDomain())
	}
	return records, cur.Err()
}

// Update replaces the mutable fields of the record in one patch. An unset
// expires_at clears the stored value.
func (r *VaccineRepository) Update(ctx context.Context, rec *domain.VaccineRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return domain.ErrRecordNotFound
	}

	set := bson.M{
		"name":            rec.Name,
		"administered_at": rec.AdministeredAt,
		"vet_name":        rec.VetName,
		"notes":           rec.Notes,
		"updated_at":      rec.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if rec.ExpiresAt != nil {
		set["expires_at"] = *rec.ExpiresAt
	} else {
		update["$unset"] = bson.M{"expires_at": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *VaccineRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRecordNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *VaccineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pet_id", Value: 1}, {Key: "administered_at", Value: -1}},
	})
	return err
}

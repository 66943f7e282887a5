package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhub/pet-platform/internal/api/metrics"
	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

const collectionPets = "pets"

// petDoc mirrors domain.Pet with a Mongo ObjectID primary key.
type petDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	OwnerUserID        string             `bson:"owner_user_id"`
	Name               string             `bson:"name"`
	Species            string             `bson:"species"`
	Breed              string             `bson:"breed,omitempty"`
	Status             string             `bson:"status"`
	Slug               string             `bson:"slug"`
	AllowPublicProfile bool               `bson:"allow_public_profile"`
	Color              string             `bson:"color,omitempty"`
	Description        string             `bson:"description,omitempty"`
	Microchip          string             `bson:"microchip,omitempty"`
	Contact            domain.ContactInfo `bson:"contact"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func (d *petDoc) toDomain() *domain.Pet {
	return &domain.Pet{
		ID:                 d.ID.Hex(),
		OwnerUserID:        d.OwnerUserID,
		Name:               d.Name,
		Species:            domain.Species(d.Species),
		Breed:              d.Breed,
		Status:             domain.PetStatus(d.Status),
		Slug:               d.Slug,
		AllowPublicProfile: d.AllowPublicProfile,
		Color:              d.Color,
		Description:        d.Description,
		Microchip:          d.Microchip,
		Contact:            d.Contact,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type PetRepository struct {
	col *mongo.Collection
}

func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{col: db.Collection(collectionPets)}
}

// Create inserts a new pet document. The unique slug index is the backstop
// for the non-atomic check-then-insert in the allocator: a duplicate-key
// rejection surfaces as domain.ErrSlugTaken so creation can re-allocate.
func (r *PetRepository) Create(ctx context.Context, p *domain.Pet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := petDoc{
		OwnerUserID:        p.OwnerUserID,
		Name:               p.Name,
		Species:            string(p.Species),
		Breed:              p.Breed,
		Status:             string(p.Status),
		Slug:               p.Slug,
		AllowPublicProfile: p.AllowPublicProfile,
		Color:              p.Color,
		Description:        p.Description,
		Microchip:          p.Microchip,
		Contact:            p.Contact,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			metrics.SlugConflictsTotal.Inc()
			return domain.ErrSlugTaken
		}
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *PetRepository) FindByID(ctx context.Context, id string) (*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPetNotFound
	}

	var doc petDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPetNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindBySlug retrieves a pet through the slug index.
func (r *PetRepository) FindBySlug(ctx context.Context, slug string) (*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc petDoc
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPetNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// SlugExists is the allocator's uniqueness probe against the slug index.
func (r *PetRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"slug": slug}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PetRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pets []*domain.Pet
	for cur.Next(ctx) {
		var doc petDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		pets = append(pets, doc.toDomain())
	}
	return pets, cur.Err()
}

// Update applies the delta as one atomic single-document patch.
func (r *PetRepository) Update(ctx context.Context, id string, changes ports.PetChanges) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPetNotFound
	}

	update := bson.M{}
	if len(changes.Set) > 0 {
		update["$set"] = bson.M(changes.Set)
	}
	if len(changes.Unset) > 0 {
		unset := bson.M{}
		for _, f := range changes.Unset {
			unset[f] = ""
		}
		update["$unset"] = unset
	}
	if len(update) == 0 {
		return nil
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

// List returns a page of pets matching filter and the total count.
func (r *PetRepository) List(ctx context.Context, filter ports.ListPetsFilter) ([]*domain.Pet, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerUserID != "" {
		query["owner_user_id"] = filter.OwnerUserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Species != "" {
		query["species"] = filter.Species
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"slug": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var pets []*domain.Pet
	for cur.Next(ctx) {
		var doc petDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		pets = append(pets, doc.toDomain())
	}
	return pets, total, cur.Err()
}

// EnsureIndexes creates the indexes the policy layer depends on. The unique
// slug index is load-bearing: it closes the allocator's check-then-insert
// race.
func (r *PetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "owner_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

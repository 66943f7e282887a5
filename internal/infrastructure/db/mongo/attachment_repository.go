package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

const collectionAttachments = "attachments"

type attachmentDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	PetID       string             `bson:"pet_id"`
	StorageKey  string             `bson:"storage_key"`
	FileName    string             `bson:"file_name"`
	ContentType string             `bson:"content_type"`
	SizeBytes   int64              `bson:"size_bytes"`
	UploadedBy  string             `bson:"uploaded_by"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *attachmentDoc) toDomain() *domain.Attachment {
	return &domain.Attachment{
		ID:          d.ID.Hex(),
		PetID:       d.PetID,
		StorageKey:  d.StorageKey,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

type AttachmentRepository struct {
	col *mongo.Collection
}

func NewAttachmentRepository(db *mongo.Database) *AttachmentRepository {
	return &AttachmentRepository{col: db.Collection(collectionAttachments)}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := attachmentDoc{
		PetID:       a.PetID,
		StorageKey:  a.StorageKey,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return nil
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*domain.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAttachmentNotFound
	}

	var doc attachmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AttachmentRepository) ListByPet(ctx context.Context, petID string) ([]*domain.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"pet_id": petID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attachments []*domain.Attachment
	for cur.Next(ctx) {
		var doc attachmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		attachments = append(attachments, doc.toDomain())
	}
	return attachments, cur.Err()
}

func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAttachmentNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

func (r *AttachmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pet_id", Value: 1}},
	})
	return err
}

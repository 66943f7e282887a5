package domain

import (
	"errors"
	"time"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// MaxAttachmentSize caps a single registered file at 25 MiB.
const MaxAttachmentSize = 25 << 20

// Attachment records the metadata of a file attached to a pet profile. The
// bytes live in external blob storage under StorageKey; this layer never
// touches them.
type Attachment struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	PetID       string    `json:"pet_id" bson:"pet_id"`
	StorageKey  string    `json:"storage_key" bson:"storage_key"`
	FileName    string    `json:"file_name" bson:"file_name"`
	ContentType string    `json:"content_type" bson:"content_type"`
	SizeBytes   int64     `json:"size_bytes" bson:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

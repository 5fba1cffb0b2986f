package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo provenance values recorded in metadata under "source".
const (
	PhotoSourceCreation       = "property_creation"
	PhotoSourceUpdate         = "property_update"
	PhotoSourceReconciliation = "reconciliation"
)

// Photo is an uploaded image record. PropertyID is nil until the photo is
// associated with a property, either at creation time, at update time, or
// by the reconciliation sweep; a nil PropertyID marks an orphan.
type Photo struct {
	ID           primitive.ObjectID     `json:"-" bson:"_id,omitempty"`
	PhotoID      string                 `json:"photoId" bson:"photoId"`
	URL          string                 `json:"url" bson:"url"`
	ThumbnailURL string                 `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Category     string                 `json:"category,omitempty" bson:"category,omitempty"`
	UploaderID   string                 `json:"uploaderId,omitempty" bson:"uploaderId,omitempty"`
	PropertyID   *string                `json:"propertyId" bson:"propertyId"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"createdAt" bson:"createdAt"`
}

// CreatePhotoInput registers an already-uploaded object by URL; the row
// starts out as an orphan.
type CreatePhotoInput struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Category     string `json:"category"`
}

// PhotoAssociation is one successful orphan-to-property pairing produced
// by a reconciliation sweep.
type PhotoAssociation struct {
	PhotoID    string `json:"photoId"`
	PropertyID string `json:"propertyId"`
}

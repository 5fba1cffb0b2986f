package repositories

import (
	"context"
	"time"

	"brightnest-properties/internal/models"
)

type PropertyRepository interface {
	// FindByID returns (nil, nil) when the property is absent; absence is
	// a normal outcome, not a store fault.
	FindByID(ctx context.Context, id string) (*models.Property, error)
	FindWithFilters(ctx context.Context, filters models.PropertyFilters, page, limit int) ([]models.Property, int64, error)
	// FindByImageURL returns at most one property whose image list
	// contains the exact URL.
	FindByImageURL(ctx context.Context, url string) (*models.Property, error)
	// CreateWithPhotos inserts the property row and one photo row per
	// image URL as a single indivisible unit of work.
	CreateWithPhotos(ctx context.Context, property *models.Property, imageURLs []string) error
	Update(ctx context.Context, id string, patch *models.UpdatePropertyInput) (*models.Property, error)
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	InsertMany(ctx context.Context, photos []models.Photo) error
	// FindOrphanByURL returns (nil, nil) when no orphan carries the URL.
	FindOrphanByURL(ctx context.Context, url string) (*models.Photo, error)
	FindOrphans(ctx context.Context, limit int) ([]models.Photo, error)
	AssignProperty(ctx context.Context, photoID, propertyID, source string) error
	FindByPropertyID(ctx context.Context, propertyID string) ([]models.Photo, error)
}

// PropertyCache is the read-through cache the coordinator consults before
// the store. Lookups never fail; a cache problem is just a miss.
type PropertyCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Invalidate(target string)
}

// OwnershipCache is the shared authorization cache. The auth layer owns
// and populates it; the coordinator only invalidates entries after writes.
type OwnershipCache interface {
	Get(ctx context.Context, resourceType, id string) (string, error)
	Set(ctx context.Context, resourceType, id, ownerID string, expiration time.Duration) error
	Invalidate(ctx context.Context, resourceType, id string) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

package services

import (
	"context"
	"time"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/repositories"
	"brightnest-properties/internal/validators"
	"brightnest-properties/pkg/cache"
	"brightnest-properties/pkg/logger"

	"github.com/google/uuid"
)

// OwnershipResource is the resource type under which property ownership
// entries live in the shared authorization cache.
const OwnershipResource = "property"

// PropertyService coordinates property reads and writes against the store,
// keeps the read-through cache consistent with every successful write, and
// associates photo rows with properties on create and update.
type PropertyService struct {
	repo       repositories.PropertyRepository
	photos     repositories.PhotoRepository
	cache      repositories.PropertyCache
	ownership  repositories.OwnershipCache
	validator  validators.PropertyValidator
	detailTTL  time.Duration
	listingTTL time.Duration
}

func NewPropertyService(
	repo repositories.PropertyRepository,
	photos repositories.PhotoRepository,
	propertyCache repositories.PropertyCache,
	ownership repositories.OwnershipCache,
	validator validators.PropertyValidator,
	detailTTL, listingTTL time.Duration,
) *PropertyService {
	return &PropertyService{
		repo:       repo,
		photos:     photos,
		cache:      propertyCache,
		ownership:  ownership,
		validator:  validator,
		detailTTL:  detailTTL,
		listingTTL: listingTTL,
	}
}

// CreateProperty validates the input, then delegates the property insert
// and all photo inserts to one atomic store procedure. Partial state
// (property without its photos) cannot occur.
func (s *PropertyService) CreateProperty(ctx context.Context, input *models.CreatePropertyInput, ownerID string) (*models.Property, error) {
	if err := s.validator.ValidateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	property := &models.Property{
		PropertyID:    uuid.New().String(),
		OwnerID:       ownerID,
		Title:         input.Title,
		Description:   input.Description,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		PropertyType:  input.PropertyType,
		Price:         input.Price,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		SquareFeet:    input.SquareFeet,
		Images:        input.Images,
		Status:        models.PropertyStatusActive,
		ListingStatus: input.ListingStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if property.Images == nil {
		property.Images = []string{}
	}

	if err := s.repo.CreateWithPhotos(ctx, property, input.Images); err != nil {
		logger.GlobalLogger.Errorf("Atomic property create failed: owner=%s, error=%v", ownerID, err)
		return nil, apperrors.NewStoreError("create_property_with_photos", err)
	}

	s.cache.Invalidate(cache.PropertyListNamespace)
	return property, nil
}

// UpdateProperty re-validates ownership against the store's current owner
// before every mutation; the cache is never consulted for authorization.
func (s *PropertyService) UpdateProperty(ctx context.Context, id string, patch *models.UpdatePropertyInput, requesterID string) (*models.Property, error) {
	if err := s.validator.ValidateUpdate(patch); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreError("find_property", err)
	}
	if current == nil {
		return nil, apperrors.NewNotFoundError("property")
	}
	if requesterID != "" && requesterID != current.OwnerID {
		return nil, apperrors.NewUnauthorizedError()
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperrors.NewStoreError("update_property", err)
	}

	if len(patch.Images) > 0 {
		s.associateUpdatedImages(ctx, updated, patch.Images)
	}

	s.invalidateAfterWrite(ctx, id)
	return updated, nil
}

// associateUpdatedImages re-points an existing orphan photo at the
// property for each URL, or queues a fresh photo row when no orphan
// matches. The property mutation is already committed, so photo
// association failures here are logged and never rolled back.
func (s *PropertyService) associateUpdatedImages(ctx context.Context, property *models.Property, imageURLs []string) {
	pending := make([]models.Photo, 0, len(imageURLs))
	for _, imageURL := range imageURLs {
		orphan, err := s.photos.FindOrphanByURL(ctx, imageURL)
		if err == nil && orphan != nil {
			if err := s.photos.AssignProperty(ctx, orphan.PhotoID, property.PropertyID, models.PhotoSourceUpdate); err != nil {
				logger.GlobalLogger.Errorf("Failed to re-point orphan photo %s to property %s: %v", orphan.PhotoID, property.PropertyID, err)
			}
			continue
		}
		if err != nil {
			logger.GlobalLogger.Errorf("Orphan lookup failed for %s, inserting a new photo row: %v", imageURL, err)
		}
		propertyID := property.PropertyID
		pending = append(pending, models.Photo{
			PhotoID:    uuid.New().String(),
			URL:        imageURL,
			UploaderID: property.OwnerID,
			PropertyID: &propertyID,
			Metadata:   map[string]interface{}{"source": models.PhotoSourceUpdate},
		})
	}
	if len(pending) > 0 {
		if err := s.photos.InsertMany(ctx, pending); err != nil {
			logger.GlobalLogger.Errorf("Failed to insert %d photo rows for property %s: %v", len(pending), property.PropertyID, err)
		}
	}
}

// DeleteProperty enforces the same ownership rule as update. Deletion is
// destructive per the store contract.
func (s *PropertyService) DeleteProperty(ctx context.Context, id, requesterID string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperrors.NewStoreError("find_property", err)
	}
	if current == nil {
		return apperrors.NewNotFoundError("property")
	}
	if requesterID != "" && requesterID != current.OwnerID {
		return apperrors.NewUnauthorizedError()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewStoreError("delete_property", err)
	}

	s.invalidateAfterWrite(ctx, id)
	return nil
}

// RecordPropertyView bumps the view counter straight against the store.
// This is telemetry; failures are swallowed.
func (s *PropertyService) RecordPropertyView(ctx context.Context, id string) {
	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		logger.GlobalLogger.Errorf("Failed to record view for property %s: %v", id, err)
	}
}

// invalidateAfterWrite drops the detail entry, the whole listing
// namespace, and the shared ownership entry so subsequent reads and
// ownership checks observe the new state.
func (s *PropertyService) invalidateAfterWrite(ctx context.Context, id string) {
	s.cache.Invalidate(cache.PropertyKey(id))
	s.cache.Invalidate(cache.PropertyListNamespace)
	if err := s.ownership.Invalidate(ctx, OwnershipResource, id); err != nil {
		logger.GlobalLogger.Errorf("Failed to invalidate ownership cache for property %s: %v", id, err)
	}
}

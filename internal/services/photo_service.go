package services

import (
	"context"
	"time"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/repositories"
	"brightnest-properties/internal/validators"

	"github.com/google/uuid"
)

// PhotoService registers uploaded objects as photo rows and serves
// per-property photo listings. The upload itself happens against object
// storage outside this service; only the resulting URL is recorded here.
type PhotoService struct {
	photos    repositories.PhotoRepository
	validator validators.PhotoValidator
}

func NewPhotoService(photos repositories.PhotoRepository, validator validators.PhotoValidator) *PhotoService {
	return &PhotoService{
		photos:    photos,
		validator: validator,
	}
}

// RegisterPhoto records an already-uploaded object by URL. The row starts
// out as an orphan and stays one until property creation, update, or the
// reconciliation sweep claims it.
func (s *PhotoService) RegisterPhoto(ctx context.Context, input *models.CreatePhotoInput, uploaderID string) (*models.Photo, error) {
	if err := s.validator.ValidateCreate(input); err != nil {
		return nil, err
	}

	photo := &models.Photo{
		PhotoID:      uuid.New().String(),
		URL:          input.URL,
		ThumbnailURL: input.ThumbnailURL,
		Category:     input.Category,
		UploaderID:   uploaderID,
		PropertyID:   nil,
		Metadata:     map[string]interface{}{"source": "direct_upload"},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, apperrors.NewStoreError("create_photo", err)
	}
	return photo, nil
}

// ListPropertyPhotos returns every photo row associated with a property.
func (s *PhotoService) ListPropertyPhotos(ctx context.Context, propertyID string) ([]models.Photo, error) {
	photos, err := s.photos.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NewStoreError("list_photos", err)
	}
	return photos, nil
}

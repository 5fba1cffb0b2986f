package validators

import (
	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
)

type photoValidator struct{}

func NewPhotoValidator() PhotoValidator {
	return &photoValidator{}
}

func (v *photoValidator) ValidateCreate(input *models.CreatePhotoInput) error {
	if input.URL == "" {
		return apperrors.NewValidationError("url is required")
	}
	return ValidateImageURLs([]string{input.URL})
}

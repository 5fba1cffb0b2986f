package validators

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
)

type propertyValidator struct{}

func NewPropertyValidator() PropertyValidator {
	return &propertyValidator{}
}

func (v *propertyValidator) ValidateCreate(input *models.CreatePropertyInput) error {
	if input.Title == "" {
		return apperrors.NewValidationError("title is required")
	}
	if input.Address == "" {
		return apperrors.NewValidationError("address is required")
	}
	if input.City == "" {
		return apperrors.NewValidationError("city is required")
	}
	if input.Price <= 0 {
		return apperrors.NewValidationError("price must be greater than zero")
	}
	return ValidateImageURLs(input.Images)
}

func (v *propertyValidator) ValidateUpdate(patch *models.UpdatePropertyInput) error {
	if patch.Title != nil && *patch.Title == "" {
		return apperrors.NewValidationError("title cannot be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return apperrors.NewValidationError("price must be greater than zero")
	}
	if len(patch.Images) > 0 {
		return ValidateImageURLs(patch.Images)
	}
	return nil
}

// ValidateImageURLs enforces the image-URL contract: at most
// MaxPropertyImages entries, each an absolute http/https URL, never a
// data URI. Runs before any store access.
func ValidateImageURLs(images []string) error {
	if len(images) > models.MaxPropertyImages {
		return apperrors.NewValidationError(
			fmt.Sprintf("too many images: %d exceeds the maximum of %d", len(images), models.MaxPropertyImages))
	}
	for _, image := range images {
		if strings.HasPrefix(image, "data:") {
			return apperrors.NewValidationError("data URIs are not accepted as image URLs")
		}
		u, err := url.Parse(image)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return apperrors.NewValidationError(fmt.Sprintf("invalid image URL: %q", image))
		}
	}
	return nil
}

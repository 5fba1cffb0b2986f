package services

import (
	"context"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/pkg/cache"
)

// GetPropertyByID is cache-through: a hit within the detail TTL never
// touches the store. Absence in the store is a NotFound value, not a
// store fault.
func (s *PropertyService) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	propertyKey := cache.PropertyKey(id)
	if cached, ok := s.cache.Get(propertyKey); ok {
		if property, ok := cached.(*models.Property); ok {
			return property, nil
		}
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreError("find_property", err)
	}
	if property == nil {
		return nil, apperrors.NewNotFoundError("property")
	}

	s.cache.Set(propertyKey, property, s.detailTTL)
	return property, nil
}

package services

import (
	"context"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/pkg/cache"
)

// GetProperties serves one page of a filtered listing query through the
// cache. The cache key covers every filter dimension plus page and limit,
// so distinct tuples never share an entry.
func (s *PropertyService) GetProperties(ctx context.Context, filters models.PropertyFilters, page, limit int) (*models.PropertyListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	if filters.Status == "" {
		filters.Status = models.PropertyStatusActive
	}

	listKey := cache.PropertyListKey(
		filters.PropertyType, filters.City, filters.MinPrice, filters.MaxPrice,
		filters.Status, filters.OwnerID, page, limit)
	if cached, ok := s.cache.Get(listKey); ok {
		if response, ok := cached.(*models.PropertyListResponse); ok {
			return response, nil
		}
	}

	properties, total, err := s.repo.FindWithFilters(ctx, filters, page, limit)
	if err != nil {
		return nil, apperrors.NewStoreError("list_properties", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	response := &models.PropertyListResponse{
		Properties: properties,
		Pagination: models.PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}

	s.cache.Set(listKey, response, s.listingTTL)
	return response, nil
}

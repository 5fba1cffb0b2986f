package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPropertyImages caps the image list accepted on create and update.
const MaxPropertyImages = 25

// Property statuses.
const (
	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
)

type Property struct {
	ID               primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PropertyID       string             `json:"propertyId" bson:"propertyId"`
	OwnerID          string             `json:"ownerId" bson:"ownerId"`
	Title            string             `json:"title" bson:"title"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Address          string             `json:"address" bson:"address"`
	City             string             `json:"city" bson:"city"`
	State            string             `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode          string             `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	PropertyType     string             `json:"propertyType,omitempty" bson:"propertyType,omitempty"`
	Price            float64            `json:"price" bson:"price"`
	Bedrooms         int                `json:"bedrooms,omitempty" bson:"bedrooms,omitempty"`
	Bathrooms        int                `json:"bathrooms,omitempty" bson:"bathrooms,omitempty"`
	SquareFeet       int                `json:"squareFeet,omitempty" bson:"squareFeet,omitempty"`
	Images           []string           `json:"images" bson:"images"`
	Status           string             `json:"status" bson:"status"`
	ListingStatus    string             `json:"listingStatus,omitempty" bson:"listingStatus,omitempty"`
	ViewCount        int64              `json:"viewCount" bson:"viewCount"`
	SaveCount        int64              `json:"saveCount" bson:"saveCount"`
	ApplicationCount int64              `json:"applicationCount" bson:"applicationCount"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreatePropertyInput is the request body for property creation. OwnerID
// comes from the authenticated requester, never from the body.
type CreatePropertyInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zipCode"`
	PropertyType  string   `json:"propertyType"`
	Price         float64  `json:"price"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	SquareFeet    int      `json:"squareFeet"`
	Images        []string `json:"images"`
	ListingStatus string   `json:"listingStatus"`
}

// UpdatePropertyInput is a partial patch; nil fields are left untouched.
type UpdatePropertyInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	ZipCode       *string  `json:"zipCode"`
	PropertyType  *string  `json:"propertyType"`
	Price         *float64 `json:"price"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *int     `json:"bathrooms"`
	SquareFeet    *int     `json:"squareFeet"`
	Images        []string `json:"images"`
	Status        *string  `json:"status"`
	ListingStatus *string  `json:"listingStatus"`
}

// PropertyFilters are the listing-query dimensions. Every dimension is
// part of the listing cache key.
type PropertyFilters struct {
	PropertyType string
	City         string
	MinPrice     string
	MaxPrice     string
	Status       string
	OwnerID      string
}

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type PropertyListResponse struct {
	Properties []Property     `json:"properties"`
	Pagination PaginationMeta `json:"pagination"`
}

package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"brightnest-properties/internal/models"
	"brightnest-properties/pkg/database"
	"brightnest-properties/pkg/metrics"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type propertyRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	photos     *mongo.Collection
}

func NewPropertyRepository() PropertyRepository {
	return &propertyRepository{
		client:     database.MongoClient,
		collection: database.DB.Collection("properties"),
		photos:     database.DB.Collection("photos"),
	}
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	start := time.Now()
	var property models.Property
	err := r.collection.FindOne(ctx, bson.M{"propertyId": id}).Decode(&property)
	metrics.MongoOperationDuration.WithLabelValues("find_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		metrics.MongoErrorsTotal.WithLabelValues("find_one", "properties").Inc()
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindWithFilters(ctx context.Context, filters models.PropertyFilters, page, limit int) ([]models.Property, int64, error) {
	query := bson.M{}
	if filters.PropertyType != "" {
		query["propertyType"] = filters.PropertyType
	}
	if filters.City != "" {
		query["city"] = filters.City
	}
	if filters.Status != "" {
		query["status"] = filters.Status
	}
	if filters.OwnerID != "" {
		query["ownerId"] = filters.OwnerID
	}
	price := bson.M{}
	if filters.MinPrice != "" {
		if min, err := strconv.ParseFloat(filters.MinPrice, 64); err == nil {
			price["$gte"] = min
		}
	}
	if filters.MaxPrice != "" {
		if max, err := strconv.ParseFloat(filters.MaxPrice, 64); err == nil {
			price["$lte"] = max
		}
	}
	if len(price) > 0 {
		query["price"] = price
	}

	start := time.Now()
	total, err := r.collection.CountDocuments(ctx, query)
	metrics.MongoOperationDuration.WithLabelValues("count_documents", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("count_documents", "properties").Inc()
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	start = time.Now()
	cursor, err := r.collection.Find(ctx, query, findOptions)
	metrics.MongoOperationDuration.WithLabelValues("find", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", "properties").Inc()
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	start = time.Now()
	err = cursor.All(ctx, &properties)
	metrics.MongoOperationDuration.WithLabelValues("cursor_all", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", "properties").Inc()
		return nil, 0, err
	}
	return properties, total, nil
}

func (r *propertyRepository) FindByImageURL(ctx context.Context, url string) (*models.Property, error) {
	start := time.Now()
	var property models.Property
	// images is a multikey-indexed array; equality matches any element.
	err := r.collection.FindOne(ctx, bson.M{"images": url}).Decode(&property)
	metrics.MongoOperationDuration.WithLabelValues("find_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		metrics.MongoErrorsTotal.WithLabelValues("find_one", "properties").Inc()
		return nil, err
	}
	return &property, nil
}

// CreateWithPhotos runs the property insert and all photo inserts inside
// one session transaction so a failure partway through photo insertion
// rolls the property row back with it.
func (r *propertyRepository) CreateWithPhotos(ctx context.Context, property *models.Property, imageURLs []string) error {
	property.ID = primitive.NewObjectID()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	start := time.Now()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.collection.InsertOne(sc, property); err != nil {
			return nil, err
		}
		if len(imageURLs) == 0 {
			return nil, nil
		}
		now := time.Now().UTC()
		docs := make([]interface{}, 0, len(imageURLs))
		for _, imageURL := range imageURLs {
			propertyID := property.PropertyID
			docs = append(docs, models.Photo{
				ID:         primitive.NewObjectID(),
				PhotoID:    uuid.New().String(),
				URL:        imageURL,
				UploaderID: property.OwnerID,
				PropertyID: &propertyID,
				Metadata:   map[string]interface{}{"source": models.PhotoSourceCreation},
				CreatedAt:  now,
			})
		}
		if _, err := r.photos.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	metrics.MongoOperationDuration.WithLabelValues("create_property_with_photos", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("create_property_with_photos", "properties").Inc()
		return err
	}
	metrics.PhotoAssociationsTotal.WithLabelValues(models.PhotoSourceCreation).Add(float64(len(imageURLs)))
	return nil
}

func (r *propertyRepository) Update(ctx context.Context, id string, patch *models.UpdatePropertyInput) (*models.Property, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}
	if patch.ZipCode != nil {
		set["zipCode"] = *patch.ZipCode
	}
	if patch.PropertyType != nil {
		set["propertyType"] = *patch.PropertyType
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Bedrooms != nil {
		set["bedrooms"] = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		set["bathrooms"] = *patch.Bathrooms
	}
	if patch.SquareFeet != nil {
		set["squareFeet"] = *patch.SquareFeet
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.ListingStatus != nil {
		set["listingStatus"] = *patch.ListingStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	start := time.Now()
	var updated models.Property
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"propertyId": id}, bson.M{"$set": set}, opts).Decode(&updated)
	metrics.MongoOperationDuration.WithLabelValues("find_one_and_update", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("property not found")
		}
		metrics.MongoErrorsTotal.WithLabelValues("find_one_and_update", "properties").Inc()
		return nil, err
	}
	return &updated, nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	result, err := r.collection.DeleteOne(ctx, bson.M{"propertyId": id})
	metrics.MongoOperationDuration.WithLabelValues("delete_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("delete_one", "properties").Inc()
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("property not found")
	}
	return nil
}

func (r *propertyRepository) IncrementViewCount(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"propertyId": id}, bson.M{"$inc": bson.M{"viewCount": 1}})
	metrics.MongoOperationDuration.WithLabelValues("update_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("update_one", "properties").Inc()
		return err
	}
	return nil
}

package repositories

import (
	"fmt"
	"time"

	"context"

	"brightnest-properties/internal/models"
	"brightnest-properties/pkg/database"
	"brightnest-properties/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type photoRepository struct {
	collection *mongo.Collection
}

func NewPhotoRepository() PhotoRepository {
	return &photoRepository{
		collection: database.DB.Collection("photos"),
	}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	photo.ID = primitive.NewObjectID()
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC()
	}
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, photo)
	metrics.MongoOperationDuration.WithLabelValues("insert", "photos").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("insert", "photos").Inc()
		return err
	}
	return nil
}

func (r *photoRepository) InsertMany(ctx context.Context, photos []models.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(photos))
	now := time.Now().UTC()
	for i := range photos {
		photos[i].ID = primitive.NewObjectID()
		if photos[i].CreatedAt.IsZero() {
			photos[i].CreatedAt = now
		}
		docs = append(docs, photos[i])
	}
	start := time.Now()
	_, err := r.collection.InsertMany(ctx, docs)
	metrics.MongoOperationDuration.WithLabelValues("insert_many", "photos").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("insert_many", "photos").Inc()
		return err
	}
	return nil
}

func (r *photoRepository) FindOrphanByURL(ctx context.Context, url string) (*models.Photo, error) {
	start := time.Now()
	var photo models.Photo
	err := r.collection.FindOne(ctx, bson.M{"url": url, "propertyId": nil}).Decode(&photo)
	metrics.MongoOperationDuration.WithLabelValues("find_one", "photos").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		metrics.MongoErrorsTotal.WithLabelValues("find_one", "photos").Inc()
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) FindOrphans(ctx context.Context, limit int) ([]models.Photo, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{"propertyId": nil}, findOptions)
	metrics.MongoOperationDuration.WithLabelValues("find", "photos").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", "photos").Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	photos := []models.Photo{}
	if err := cursor.All(ctx, &photos); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", "photos").Inc()
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) AssignProperty(ctx context.Context, photoID, propertyID, source string) error {
	update := bson.M{
		"$set": bson.M{
			"propertyId":      propertyID,
			"metadata.source": source,
		},
	}
	start := time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"photoId": photoID}, update)
	metrics.MongoOperationDuration.WithLabelValues("update_one", "photos").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("update_one", "photos").Inc()
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("photo not found")
	}
	metrics.PhotoAssociationsTotal.WithLabelValues(source).Inc()
	return nil
}

func (r *photoRepository) FindByPropertyID(ctx context.Context, propertyID string) ([]models.Photo, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{"propertyId": propertyID})
	metrics.MongoOperationDuration.WithLabelValues("find", "photos").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", "photos").Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	photos := []models.Photo{}
	if err := cursor.All(ctx, &photos); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", "photos").Inc()
		return nil, err
	}
	return photos, nil
}

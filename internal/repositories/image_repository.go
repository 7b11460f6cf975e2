package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/tradegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageRepository defines the interface for image data operations
type ImageRepository interface {
	CreateImage(ctx context.Context, image *models.Image) error
	GetImageByID(ctx context.Context, id string) (*models.Image, error)
	GetAllImages(ctx context.Context, skip, limit int64) ([]models.Image, error)
	GetImagesByUserIDs(ctx context.Context, userIDs []uint, skip, limit int64) ([]models.Image, int64, error)
	UpdateImage(ctx context.Context, image *models.Image) error
	DeleteImage(ctx context.Context, id string) error
	DeleteImagesByUserID(ctx context.Context, userID uint) (int64, error)
}

// MongoImageRepository implements ImageRepository for MongoDB
type MongoImageRepository struct {
	collection *mongo.Collection
}

// NewMongoImageRepository creates a new MongoImageRepository
func NewMongoImageRepository(db *mongo.Database) *MongoImageRepository {
	return &MongoImageRepository{collection: db.Collection("images")}
}

// CreateImage creates a new image in MongoDB
func (r *MongoImageRepository) CreateImage(ctx context.Context, image *models.Image) error {
	now := time.Now()
	image.ID = primitive.NewObjectID()
	image.CreatedAt = now
	image.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, image)
	return err
}

// GetImageByID retrieves an image by ID from MongoDB. A malformed id is reported as not found.
func (r *MongoImageRepository) GetImageByID(ctx context.Context, id string) (*models.Image, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var image models.Image
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&image); err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

// GetAllImages retrieves all images, newest first
func (r *MongoImageRepository) GetAllImages(ctx context.Context, skip, limit int64) ([]models.Image, error) {
	return r.find(ctx, bson.D{}, skip, limit)
}

// GetImagesByUserIDs returns images uploaded by any of userIDs, newest first, and the total match count.
func (r *MongoImageRepository) GetImagesByUserIDs(ctx context.Context, userIDs []uint, skip, limit int64) ([]models.Image, int64, error) {
	filter := bson.M{"user_id": bson.M{"$in": userIDs}}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	images, err := r.find(ctx, filter, skip, limit)
	return images, total, err
}

func (r *MongoImageRepository) find(ctx context.Context, filter any, skip, limit int64) ([]models.Image, error) {
	images := []models.Image{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// UpdateImage updates the editable fields of an image
func (r *MongoImageRepository) UpdateImage(ctx context.Context, image *models.Image) error {
	image.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":        image.Name,
			"description": image.Description,
			"url":         image.URL,
			"updated_at":  image.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": image.ID}, update)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteImage deletes an image by ID from MongoDB
func (r *MongoImageRepository) DeleteImage(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoImageRepository) DeleteImagesByUserID(ctx context.Context, userID uint) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vivotour/vivotour/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGalleryRepository implements GalleryRepository using MongoDB
type MongoGalleryRepository struct {
	collection *mongo.Collection
}

// NewMongoGalleryRepository creates a new MongoDB gallery repository
func NewMongoGalleryRepository(db *mongo.Database) *MongoGalleryRepository {
	return &MongoGalleryRepository{
		collection: db.Collection("gallery_images"),
	}
}

func (r *MongoGalleryRepository) Create(ctx context.Context, img *domain.GalleryImage) error {
	img.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, img)
	if err != nil {
		return fmt.Errorf("failed to create gallery image: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		img.ID = oid.Hex()
	}
	return nil
}

func (r *MongoGalleryRepository) GetByID(ctx context.Context, id string) (*domain.GalleryImage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var img domain.GalleryImage
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&img)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (r *MongoGalleryRepository) GetAll(ctx context.Context) ([]*domain.GalleryImage, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []*domain.GalleryImage
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *MongoGalleryRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

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

// MongoAccommodationRepository implements AccommodationRepository using MongoDB
type MongoAccommodationRepository struct {
	collection *mongo.Collection
}

// NewMongoAccommodationRepository creates a new MongoDB accommodation repository
func NewMongoAccommodationRepository(db *mongo.Database) *MongoAccommodationRepository {
	coll := db.Collection("accommodations")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoAccommodationRepository{
		collection: coll,
	}
}

func (r *MongoAccommodationRepository) Create(ctx context.Context, acc *domain.Accommodation) error {
	acc.CreatedAt = time.Now()
	acc.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, acc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create accommodation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		acc.ID = oid.Hex()
	}
	return nil
}

func (r *MongoAccommodationRepository) GetByID(ctx context.Context, id string) (*domain.Accommodation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var acc domain.Accommodation
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&acc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *MongoAccommodationRepository) GetAll(ctx context.Context) ([]*domain.Accommodation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accommodations []*domain.Accommodation
	if err := cursor.All(ctx, &accommodations); err != nil {
		return nil, err
	}
	return accommodations, nil
}

func (r *MongoAccommodationRepository) Update(ctx context.Context, acc *domain.Accommodation) error {
	oid, err := primitive.ObjectIDFromHex(acc.ID)
	if err != nil {
		return domain.ErrInvalidID
	}
	acc.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":       acc.Name,
			"kind":       acc.Kind,
			"notes":      acc.Notes,
			"updated_at": acc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoAccommodationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

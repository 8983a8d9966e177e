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

// MongoExtraServiceRepository implements ExtraServiceRepository using MongoDB
type MongoExtraServiceRepository struct {
	collection *mongo.Collection
}

// NewMongoExtraServiceRepository creates a new MongoDB extra service repository
func NewMongoExtraServiceRepository(db *mongo.Database) *MongoExtraServiceRepository {
	coll := db.Collection("extra_services")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoExtraServiceRepository{
		collection: coll,
	}
}

func (r *MongoExtraServiceRepository) Create(ctx context.Context, svc *domain.ExtraService) error {
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, svc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create extra service: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid.Hex()
	}
	return nil
}

func (r *MongoExtraServiceRepository) GetByID(ctx context.Context, id string) (*domain.ExtraService, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var svc domain.ExtraService
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&svc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// GetByKeys returns the active extra services matching the given keys.
// Missing or inactive keys are simply absent from the result.
func (r *MongoExtraServiceRepository) GetByKeys(ctx context.Context, keys []string) ([]*domain.ExtraService, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"key": bson.M{"$in": keys}, "is_active": true})
}

func (r *MongoExtraServiceRepository) GetActive(ctx context.Context) ([]*domain.ExtraService, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *MongoExtraServiceRepository) find(ctx context.Context, query bson.M) ([]*domain.ExtraService, error) {
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "label", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []*domain.ExtraService
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *MongoExtraServiceRepository) Update(ctx context.Context, svc *domain.ExtraService) error {
	oid, err := primitive.ObjectIDFromHex(svc.ID)
	if err != nil {
		return domain.ErrInvalidID
	}
	svc.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"key":        svc.Key,
			"label":      svc.Label,
			"price":      svc.Price,
			"is_active":  svc.IsActive,
			"updated_at": svc.UpdatedAt,
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

func (r *MongoExtraServiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

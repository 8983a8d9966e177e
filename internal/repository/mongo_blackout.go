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

// MongoBlackoutRepository implements BlackoutRepository using MongoDB
type MongoBlackoutRepository struct {
	collection *mongo.Collection
}

// NewMongoBlackoutRepository creates a new MongoDB blackout repository
func NewMongoBlackoutRepository(db *mongo.Database) *MongoBlackoutRepository {
	coll := db.Collection("blackout_periods")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "plan_id", Value: 1}},
	})

	return &MongoBlackoutRepository{
		collection: coll,
	}
}

func (r *MongoBlackoutRepository) Create(ctx context.Context, period *domain.BlackoutPeriod) error {
	period.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to create blackout period: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		period.ID = oid.Hex()
	}
	return nil
}

func (r *MongoBlackoutRepository) GetByID(ctx context.Context, id string) (*domain.BlackoutPeriod, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var period domain.BlackoutPeriod
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&period)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &period, nil
}

func (r *MongoBlackoutRepository) FindByPlan(ctx context.Context, planID string) ([]*domain.BlackoutPeriod, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"plan_id": planID},
		options.Find().SetSort(bson.D{{Key: "range.start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var periods []*domain.BlackoutPeriod
	if err := cursor.All(ctx, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *MongoBlackoutRepository) Delete(ctx context.Context, id string) error {
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

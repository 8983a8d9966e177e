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

// MongoReservationRepository implements ReservationRepository using MongoDB
type MongoReservationRepository struct {
	collection *mongo.Collection
}

// NewMongoReservationRepository creates a new MongoDB reservation repository
func NewMongoReservationRepository(db *mongo.Database) *MongoReservationRepository {
	coll := db.Collection("reservations")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Reference is the external booking identifier shared with the gateway
	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	// Overlap queries filter by accommodation, status and range bounds
	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "accommodation_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "range.start", Value: 1},
		},
	})

	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "plan_id", Value: 1}},
	})

	return &MongoReservationRepository{
		collection: coll,
	}
}

func (r *MongoReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	res.CreatedAt = time.Now()
	res.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}
	return nil
}

func (r *MongoReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoReservationRepository) GetByReference(ctx context.Context, reference string) (*domain.Reservation, error) {
	return r.findOne(ctx, bson.M{"reference": reference})
}

func (r *MongoReservationRepository) findOne(ctx context.Context, query bson.M) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.collection.FindOne(ctx, query).Decode(&res)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindOverlapping returns non-cancelled reservations for the accommodation
// whose inclusive date range intersects the requested one.
func (r *MongoReservationRepository) FindOverlapping(ctx context.Context, accommodationID string, dr domain.DateRange) ([]*domain.Reservation, error) {
	query := bson.M{
		"accommodation_id": accommodationID,
		"status":           bson.M{"$ne": domain.ReservationStatusCancelled},
		"range.start":      bson.M{"$lte": dr.End},
		"range.end":        bson.M{"$gte": dr.Start},
	}
	return r.find(ctx, query)
}

func (r *MongoReservationRepository) GetByPlan(ctx context.Context, planID string) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{"plan_id": planID})
}

func (r *MongoReservationRepository) GetAll(ctx context.Context) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoReservationRepository) find(ctx context.Context, query bson.M) ([]*domain.Reservation, error) {
	cursor, err := r.collection.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "range.start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reservations []*domain.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *MongoReservationRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordPayment sets the paid amount and gateway reference and flips the
// reservation to confirmed. Looked up by reference because that is what the
// payment webhook carries.
func (r *MongoReservationRepository) RecordPayment(ctx context.Context, reference string, amount int64, paymentRef string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"reference": reference},
		bson.M{"$set": bson.M{
			"amount_paid": amount,
			"payment_ref": paymentRef,
			"status":      domain.ReservationStatusConfirmed,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoReservationRepository) Delete(ctx context.Context, id string) error {
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

func (r *MongoReservationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// SumPaidAmount aggregates revenue across confirmed reservations
func (r *MongoReservationRepository) SumPaidAmount(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"amount_paid": bson.M{"$gt": 0}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount_paid"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum paid amounts: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

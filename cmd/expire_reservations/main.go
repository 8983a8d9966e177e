package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Simplified reservation view for the script
type reservation struct {
	Reference string    `bson:"reference"`
	PlanID    string    `bson:"plan_id"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	Guest     struct {
		Name  string `bson:"name"`
		Email string `bson:"email"`
	} `bson:"guest"`
}

// Cancels pending reservations whose payment never arrived, freeing their
// dates for other guests.
func main() {
	mongoURI := flag.String("mongo", "mongodb://localhost:27017", "MongoDB connection URI")
	dbName := flag.String("db", "vivotour", "Database name")
	maxAge := flag.Duration("max-age", 48*time.Hour, "Cancel pending reservations older than this")
	dryRun := flag.Bool("dry-run", false, "Show what would be cancelled without making changes")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	col := client.Database(*dbName).Collection("reservations")
	cutoff := time.Now().Add(-*maxAge)

	filter := bson.M{
		"status":      "pending",
		"amount_paid": bson.M{"$lte": 0},
		"created_at":  bson.M{"$lt": cutoff},
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		log.Fatalf("Failed to query reservations: %v", err)
	}
	var stale []reservation
	if err := cursor.All(ctx, &stale); err != nil {
		log.Fatalf("Failed to decode reservations: %v", err)
	}

	fmt.Printf("🔍 Found %d unpaid pending reservations older than %s\n", len(stale), *maxAge)
	for _, r := range stale {
		fmt.Printf("  - %s  plan=%s  guest=%s <%s>  created=%s\n",
			r.Reference, r.PlanID, r.Guest.Name, r.Guest.Email,
			r.CreatedAt.Format(time.RFC3339))
	}

	if len(stale) == 0 {
		return
	}

	if *dryRun {
		fmt.Println("Dry run, no changes made")
		return
	}

	result, err := col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"status":     "cancelled",
		"updated_at": time.Now(),
	}})
	if err != nil {
		log.Fatalf("Failed to cancel reservations: %v", err)
	}

	fmt.Printf("✓ Cancelled %d reservations\n", result.ModifiedCount)
}

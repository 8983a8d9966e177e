package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vivotour/vivotour/internal/config"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Creates the initial administrator account.
func main() {
	email := flag.String("email", "", "Admin email (required)")
	name := flag.String("name", "Administrador", "Admin display name")
	password := flag.String("password", "", "Admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: seed/admin -email <EMAIL> -password <PASSWORD> [-name <NAME>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	userRepo := repository.NewMongoUserRepository(client.Database(cfg.MongoDB.Database))

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        *email,
		Name:         *name,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleAdmin},
	}

	if err := userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			log.Fatalf("A user with email %s already exists", *email)
		}
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("✓ Created admin user %s (%s)", *email, user.ID)
}

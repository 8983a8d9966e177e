package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vivotour/vivotour/internal/config"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the catalogue: accommodations, plans and extra services.
// Safe to re-run, duplicates are skipped.
func main() {
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

	db := client.Database(cfg.MongoDB.Database)
	accommodationRepo := repository.NewMongoAccommodationRepository(db)
	planRepo := repository.NewMongoPlanRepository(db)
	extraRepo := repository.NewMongoExtraServiceRepository(db)

	accommodations := []*domain.Accommodation{
		{Name: "Cabaña Fénix", Kind: domain.AccommodationCabin, Notes: "Cabaña para parejas con jacuzzi y vista al valle"},
		{Name: "Cabaña Colibrí", Kind: domain.AccommodationCabin, Notes: "Cabaña familiar, hasta 6 personas"},
		{Name: "Zona de Camping", Kind: domain.AccommodationCamping, Notes: "Carpas propias o alquiladas, baños compartidos"},
	}

	accommodationIDs := make(map[string]string, len(accommodations))
	for _, acc := range accommodations {
		if err := accommodationRepo.Create(ctx, acc); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				log.Printf("⏭  Accommodation exists, skipping: %s", acc.Name)
				existing, err := accommodationRepo.GetAll(ctx)
				if err == nil {
					for _, e := range existing {
						if e.Name == acc.Name {
							accommodationIDs[acc.Name] = e.ID
						}
					}
				}
				continue
			}
			log.Fatalf("Failed to create accommodation %s: %v", acc.Name, err)
		}
		accommodationIDs[acc.Name] = acc.ID
		log.Printf("✓ Created accommodation: %s (%s)", acc.Name, acc.ID)
	}

	plans := []*domain.Plan{
		{
			Title:       "Pasadía en la finca",
			Description: "Día de campo con almuerzo típico, caminata guiada y acceso a la piscina natural.",
			Price:       95000,
			PriceType:   domain.PriceTypePerPerson,
			Capacity:    domain.Capacity{Min: 1, Max: 20},
			Addons: []domain.Addon{
				{Key: "mula", Label: "Mula de salida", PricePerPerson: 30000},
			},
			IsActive: true,
		},
		{
			Title:       "Aventura en la montaña",
			Description: "Dos días de senderismo con guía, alimentación completa y noche de camping.",
			Price:       200000,
			PriceType:   domain.PriceTypePerPerson,
			Capacity:    domain.Capacity{Min: 2, Max: 10},
			Addons: []domain.Addon{
				{Key: "mula", Label: "Mula de salida", PricePerPerson: 30000},
				{Key: "guia_privado", Label: "Guía privado", PricePerPerson: 50000},
			},
			AccommodationID: accommodationIDs["Zona de Camping"],
			IsActive:        true,
		},
		{
			Title:       "Noche romántica Cabaña Fénix",
			Description: "Una noche para dos con cena a la luz de las velas, decoración y desayuno a la cabaña.",
			Price:       600000,
			PriceType:   domain.PriceTypePerCouple,
			Capacity:    domain.Capacity{Min: 2, Max: 2},
			FixedNights: 1,
			Addons: []domain.Addon{
				{Key: "desayuno_especial", Label: "Desayuno especial", PricePerPerson: 25000},
			},
			AccommodationID: accommodationIDs["Cabaña Fénix"],
			IsActive:        true,
		},
		{
			Title:           "Fin de semana familiar Cabaña Colibrí",
			Description:     "Dos noches en cabaña familiar con fogata, juegos de campo y desayunos incluidos.",
			Price:           350000,
			PriceType:       domain.PriceTypePerCouple,
			Capacity:        domain.Capacity{Min: 2, Max: 6},
			FixedNights:     2,
			AccommodationID: accommodationIDs["Cabaña Colibrí"],
			IsActive:        true,
		},
	}

	for _, plan := range plans {
		if err := plan.Validate(); err != nil {
			log.Fatalf("Invalid seed plan %s: %v", plan.Title, err)
		}
		if err := planRepo.Create(ctx, plan); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				log.Printf("⏭  Plan exists, skipping: %s", plan.Title)
				continue
			}
			log.Fatalf("Failed to create plan %s: %v", plan.Title, err)
		}
		log.Printf("✓ Created plan: %s (%s)", plan.Title, plan.ID)
	}

	extras := []*domain.ExtraService{
		{Key: "fotografia", Label: "Fotografía", Price: 85000, IsActive: true},
		{Key: "decoracion", Label: "Decoración sorpresa", Price: 60000, IsActive: true},
		{Key: "transporte", Label: "Transporte desde el pueblo", Price: 40000, IsActive: true},
	}

	for _, extra := range extras {
		if err := extraRepo.Create(ctx, extra); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				log.Printf("⏭  Extra exists, skipping: %s", extra.Key)
				continue
			}
			log.Fatalf("Failed to create extra %s: %v", extra.Key, err)
		}
		log.Printf("✓ Created extra: %s (%s)", extra.Label, extra.ID)
	}

	log.Println("Catalogue seeding complete")
}

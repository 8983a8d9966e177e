package domain

import (
	"context"
	"time"
)

// ExtraService is an optional paid extra charged as a flat fee, independent
// of any plan and of the guest count.
type ExtraService struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Key       string    `bson:"key" json:"key"`
	Label     string    `bson:"label" json:"label"`
	Price     int64     `bson:"price" json:"price"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// ExtraServiceRepository defines operations for managing extra services
type ExtraServiceRepository interface {
	Create(ctx context.Context, svc *ExtraService) error
	GetByID(ctx context.Context, id string) (*ExtraService, error)
	GetByKeys(ctx context.Context, keys []string) ([]*ExtraService, error)
	GetActive(ctx context.Context) ([]*ExtraService, error)
	Update(ctx context.Context, svc *ExtraService) error
	Delete(ctx context.Context, id string) error
}

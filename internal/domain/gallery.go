package domain

import (
	"context"
	"time"
)

// GalleryImage is a marketing photo shown on the public site, stored in
// object storage and managed from the admin dashboard.
type GalleryImage struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	URL         string    `bson:"url" json:"url"`
	ContentType string    `bson:"content_type" json:"content_type"`
	UploadedBy  string    `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at"`
}

// GalleryRepository defines operations for managing gallery images
type GalleryRepository interface {
	Create(ctx context.Context, img *GalleryImage) error
	GetByID(ctx context.Context, id string) (*GalleryImage, error)
	GetAll(ctx context.Context) ([]*GalleryImage, error)
	Delete(ctx context.Context, id string) error
}

// FileRepository defines the interface for file storage operations
type FileRepository interface {
	// Upload saves a file and returns its access URL
	Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error)
}

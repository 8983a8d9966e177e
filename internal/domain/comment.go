package domain

import (
	"context"
	"fmt"
	"time"
)

// Comment is a visitor review. New comments start unapproved and only show
// on the public site after an admin approves them.
type Comment struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Author    string    `bson:"author" json:"author"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Text      string    `bson:"text" json:"text"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Approved  bool      `bson:"approved" json:"approved"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
}

// Validate checks comment invariants at the API boundary
func (c *Comment) Validate() error {
	if c.Author == "" {
		return fmt.Errorf("comment author is required")
	}
	if c.Text == "" {
		return fmt.Errorf("comment text is required")
	}
	if c.Rating < 1 || c.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// CommentRepository defines operations for managing comments
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	GetApproved(ctx context.Context) ([]*Comment, error)
	GetAll(ctx context.Context) ([]*Comment, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}

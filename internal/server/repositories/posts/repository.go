// Package posts stores feed posts. Listing is always newest first, ties
// broken by id descending.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

type Repository interface {
	// Create assigns the post an id and timestamps and stores it.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Update overwrites title, content, image and UpdatedAt.
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]*models.Post, error)
}

// Package users stores accounts and their post sets. Every backend reports a
// missing user as common.ErrorNotFound and a taken email as
// common.ErrorAlreadyExists.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

type Repository interface {
	// Create assigns the user an id and stores it.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail expects an already normalized address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// AddPost appends postID to the user's post set.
	AddPost(ctx context.Context, userID, postID string) error
	// RemovePost drops postID from the user's post set. Removing an id that
	// is not in the set is not an error.
	RemovePost(ctx context.Context, userID, postID string) error
}

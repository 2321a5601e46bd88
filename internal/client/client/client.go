package client

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

type Client interface {
	SetToken(token string)
	Ping(ctx context.Context) error
	Signup(ctx context.Context, email, name, password string) (string, error)
	Login(ctx context.Context, email, password string) (token, userID string, err error)
	Status(ctx context.Context) (string, error)
	SetStatus(ctx context.Context, status string) error
	Posts(ctx context.Context, page int) (*models.FeedPage, error)
	Post(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, d models.PostDraft) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, d models.PostDraft) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	Watch(ctx context.Context, fn func(models.Event)) error
}

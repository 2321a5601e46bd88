package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

var ErrNoImage = errors.New("an image is required")

type FeedService interface {
	Page(ctx context.Context, page int) (*models.FeedPage, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, d models.PostDraft) (*models.Post, error)
	Edit(ctx context.Context, id string, d models.PostDraft) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, fn func(models.Event)) error
}

type feedService struct {
	client client.Client
}

func NewFeedService(c client.Client) FeedService {
	return &feedService{client: c}
}

func (s *feedService) Page(ctx context.Context, page int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	return s.client.Posts(ctx, page)
}

func (s *feedService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.client.Post(ctx, id)
}

// Create checks the image file locally before uploading anything.
func (s *feedService) Create(ctx context.Context, d models.PostDraft) (*models.Post, error) {
	if d.ImagePath == "" {
		return nil, ErrNoImage
	}
	if err := checkFile(d.ImagePath); err != nil {
		return nil, err
	}
	return s.client.CreatePost(ctx, d)
}

// Edit keeps the current image unless a new file is given.
func (s *feedService) Edit(ctx context.Context, id string, d models.PostDraft) (*models.Post, error) {
	if d.ImagePath != "" {
		if err := checkFile(d.ImagePath); err != nil {
			return nil, err
		}
		d.ImageURL = ""
	} else if d.ImageURL == "" {
		current, err := s.client.Post(ctx, id)
		if err != nil {
			return nil, err
		}
		d.ImageURL = current.ImageURL
	}
	return s.client.UpdatePost(ctx, id, d)
}

func (s *feedService) Delete(ctx context.Context, id string) error {
	return s.client.DeletePost(ctx, id)
}

func (s *feedService) Watch(ctx context.Context, fn func(models.Event)) error {
	return s.client.Watch(ctx, fn)
}

func checkFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("image file: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("image file: %s is a directory", path)
	}
	return nil
}

package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// MemoryRepository keeps posts in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]*models.Post), now: time.Now}
}

func clone(p *models.Post) *models.Post {
	c := *p
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	post.ID = id.String()
	post.CreatedAt, post.UpdatedAt = now, now
	r.posts[post.ID] = clone(post)
	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return common.ErrorNotFound
	}
	post.Touch(r.now().UTC())
	stored.Title = post.Title
	stored.Content = post.Content
	stored.Image = post.Image
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryRepository) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	r.mu.RLock()
	all := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, clone(p))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []*models.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// MemorySnapshot is an opaque copy of a MemoryRepository's contents.
type MemorySnapshot map[string]*models.Post

func (r *MemoryRepository) Snapshot() MemorySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := make(MemorySnapshot, len(r.posts))
	for k, v := range r.posts {
		s[k] = clone(v)
	}
	return s
}

func (r *MemoryRepository) Restore(s MemorySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = s
}

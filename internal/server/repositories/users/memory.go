package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// MemoryRepository keeps users in process memory. Values handed out are
// copies, so callers cannot mutate stored state.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func clone(u *models.User) *models.User {
	c := *u
	c.Posts = append([]string{}, u.Posts...)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	now := r.now().UTC()
	user.ID = id.String()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Posts == nil {
		user.Posts = []string{}
	}
	r.byID[user.ID] = clone(user)
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(id, func(u *models.User) {
		u.Status = status
		u.UpdatedAt = r.now().UTC()
	})
}

func (r *MemoryRepository) AddPost(ctx context.Context, userID, postID string) error {
	return r.update(userID, func(u *models.User) { u.AddPost(postID) })
}

func (r *MemoryRepository) RemovePost(ctx context.Context, userID, postID string) error {
	return r.update(userID, func(u *models.User) { u.RemovePost(postID) })
}

func (r *MemoryRepository) update(id string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

// MemorySnapshot is an opaque copy of a MemoryRepository's contents.
type MemorySnapshot struct {
	byID    map[string]*models.User
	byEmail map[string]string
}

// Snapshot copies the current contents; Restore puts them back. Together
// they give the in-memory manager rollback on failed atomic sections.
func (r *MemoryRepository) Snapshot() MemorySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := MemorySnapshot{
		byID:    make(map[string]*models.User, len(r.byID)),
		byEmail: make(map[string]string, len(r.byEmail)),
	}
	for k, v := range r.byID {
		s.byID[k] = clone(v)
	}
	for k, v := range r.byEmail {
		s.byEmail[k] = v
	}
	return s
}

func (r *MemoryRepository) Restore(s MemorySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID, r.byEmail = s.byID, s.byEmail
}

package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. An atomic
// section holds the write side of gate for its whole run and is rolled back
// from a snapshot when it fails. Calls made through Repos take the read side,
// so they wait for a running section instead of interleaving with it and
// being lost on rollback.
type MemoryRepositoryManager struct {
	gate  sync.RWMutex
	users *users.MemoryRepository
	posts *posts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		posts: posts.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Repos() Repos {
	return Repos{
		Users: gatedUsers{gate: &m.gate, repo: m.users},
		Posts: gatedPosts{gate: &m.gate, repo: m.posts},
	}
}

// Atomically must not call Repos from fn; use the Repos it is given.
func (m *MemoryRepositoryManager) Atomically(ctx context.Context, fn func(ctx context.Context, r Repos) error) (err error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	us, ps := m.users.Snapshot(), m.posts.Snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.users.Restore(us)
			m.posts.Restore(ps)
			panic(p)
		}
		if err != nil {
			m.users.Restore(us)
			m.posts.Restore(ps)
		}
	}()
	return fn(ctx, Repos{Users: m.users, Posts: m.posts})
}

func (m *MemoryRepositoryManager) Close(context.Context) error {
	return nil
}

type gatedUsers struct {
	gate *sync.RWMutex
	repo users.Repository
}

func (g gatedUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.Create(ctx, user)
}

func (g gatedUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.GetByID(ctx, id)
}

func (g gatedUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.GetByEmail(ctx, email)
}

func (g gatedUsers) UpdateStatus(ctx context.Context, id, status string) error {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.UpdateStatus(ctx, id, status)
}

func (g gatedUsers) AddPost(ctx context.Context, userID, postID string) error {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.AddPost(ctx, userID, postID)
}

func (g gatedUsers) RemovePost(ctx context.Context, userID, postID string) error {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.RemovePost(ctx, userID, postID)
}

type gatedPosts struct {
	gate *sync.RWMutex
	repo posts.Repository
}

func (g gatedPosts) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.Create(ctx, post)
}

func (g gatedPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.GetByID(ctx, id)
}

func (g gatedPosts) Update(ctx context.Context, post *models.Post) error {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.Update(ctx, post)
}

func (g gatedPosts) Delete(ctx context.Context, id string) error {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.Delete(ctx, id)
}

func (g gatedPosts) Count(ctx context.Context) (int64, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.Count(ctx)
}

func (g gatedPosts) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	g.gate.RLock()
	defer g.gate.RUnlock()
	return g.repo.List(ctx, offset, limit)
}

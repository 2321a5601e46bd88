// Package repomanager vends the repositories of one storage backend and
// knows how to run a group of writes atomically on it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/users"
)

// Repos bundles the repositories one unit of work operates on.
type Repos struct {
	Users users.Repository
	Posts posts.Repository
}

type RepositoryManager interface {
	// Repos returns repositories that auto-commit each call.
	Repos() Repos
	// Atomically runs fn with repositories whose writes either all land or
	// are all discarded when fn fails. Backends without multi-document
	// transactions run fn directly, so a failure midway leaves earlier
	// writes in place.
	Atomically(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
	Close(ctx context.Context) error
}

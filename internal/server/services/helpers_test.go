package services

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophfeed/internal/server/auth"
	"github.com/dmitrijs2005/gophfeed/internal/server/notify"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type event struct {
	action notify.Action
	post   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
	err    error
}

func (p *recordingPublisher) Publish(action notify.Action, post any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event{action: action, post: post})
	return p.err
}

func (p *recordingPublisher) actions() []notify.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Action, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.action)
	}
	return out
}

func newCredentials() *auth.Credentials {
	return auth.NewCredentials(auth.NewHasher(bcrypt.MinCost), auth.NewTokenIssuer([]byte("test-secret")))
}

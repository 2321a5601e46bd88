package httpapi

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/auth"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

type fakeTokens struct{}

// Validate accepts tokens of the form "user:<id>".
func (fakeTokens) Validate(token string) (auth.Identity, error) {
	if len(token) > 5 && token[:5] == "user:" {
		return auth.Identity{UserID: token[5:], Email: token[5:] + "@example.com"}, nil
	}
	return auth.Identity{}, common.ErrInvalidToken
}

type fakeUsers struct {
	UserService
	signup       func(services.SignupInput) (*models.User, error)
	login        func(email, password string) (*services.LoginResult, error)
	status       func(identity.AuthContext) (string, error)
	updateStatus func(identity.AuthContext, string) (*models.User, error)
}

func (f *fakeUsers) Signup(_ context.Context, in services.SignupInput) (*models.User, error) {
	return f.signup(in)
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	return f.login(email, password)
}

func (f *fakeUsers) Status(_ context.Context, ac identity.AuthContext) (string, error) {
	return f.status(ac)
}

func (f *fakeUsers) UpdateStatus(_ context.Context, ac identity.AuthContext, s string) (*models.User, error) {
	return f.updateStatus(ac, s)
}

type fakePosts struct {
	PostService
	create  func(identity.AuthContext, services.PostInput) (*models.PostView, error)
	update  func(identity.AuthContext, string, services.PostInput) (*models.PostView, error)
	delete  func(identity.AuthContext, string) error
	get     func(string) (*models.PostView, error)
	list    func(int) (*models.FeedPage, error)
	upload  func(identity.AuthContext, *services.Upload) (models.ImageRef, bool, error)
}

func (f *fakePosts) Create(_ context.Context, ac identity.AuthContext, in services.PostInput) (*models.PostView, error) {
	return f.create(ac, in)
}

func (f *fakePosts) Update(_ context.Context, ac identity.AuthContext, id string, in services.PostInput) (*models.PostView, error) {
	return f.update(ac, id, in)
}

func (f *fakePosts) Delete(_ context.Context, ac identity.AuthContext, id string) error {
	return f.delete(ac, id)
}

func (f *fakePosts) Get(_ context.Context, id string) (*models.PostView, error) {
	return f.get(id)
}

func (f *fakePosts) List(_ context.Context, page int) (*models.FeedPage, error) {
	return f.list(page)
}

func (f *fakePosts) UploadImage(_ context.Context, ac identity.AuthContext, up *services.Upload) (models.ImageRef, bool, error) {
	return f.upload(ac, up)
}

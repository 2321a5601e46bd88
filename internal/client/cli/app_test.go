package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/config"
	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

type fakeAuth struct {
	loggedIn bool
	email    string

	signupArgs []string
	signupErr  error

	loginEmail string
	loginPass  []byte
	loginErr   error

	logoutCalled bool
	status       string
	setTo        string

	restoreOK bool
	pingErr   error
}

func (f *fakeAuth) Restore(context.Context) (bool, error) {
	if f.restoreOK {
		f.loggedIn, f.email = true, "saved@example.com"
	}
	return f.restoreOK, nil
}
func (f *fakeAuth) Signup(_ context.Context, email, name string, password []byte) (string, error) {
	f.signupArgs = []string{email, name, string(password)}
	return "u1", f.signupErr
}
func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn, f.email = true, email
	return nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled, f.loggedIn = true, false
	return nil
}
func (f *fakeAuth) Status(context.Context) (string, error) { return f.status, nil }
func (f *fakeAuth) SetStatus(_ context.Context, s string) error {
	f.setTo = s
	return nil
}
func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }
func (f *fakeAuth) LoggedIn() bool             { return f.loggedIn }
func (f *fakeAuth) Email() string              { return f.email }

type fakeFeed struct {
	page      *models.FeedPage
	gotPage   int
	post      *models.Post
	created   *models.PostDraft
	editedID  string
	edited    *models.PostDraft
	deletedID string
	events    []models.Event
}

func (f *fakeFeed) Page(_ context.Context, page int) (*models.FeedPage, error) {
	f.gotPage = page
	return f.page, nil
}
func (f *fakeFeed) Get(context.Context, string) (*models.Post, error) {
	if f.post == nil {
		return nil, &client.APIError{StatusCode: 422, Message: "Could not find post."}
	}
	return f.post, nil
}
func (f *fakeFeed) Create(_ context.Context, d models.PostDraft) (*models.Post, error) {
	f.created = &d
	return &models.Post{ID: "p-new"}, nil
}
func (f *fakeFeed) Edit(_ context.Context, id string, d models.PostDraft) (*models.Post, error) {
	f.editedID, f.edited = id, &d
	return &models.Post{ID: id}, nil
}
func (f *fakeFeed) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}
func (f *fakeFeed) Watch(ctx context.Context, fn func(models.Event)) error {
	for _, e := range f.events {
		fn(e)
	}
	<-ctx.Done()
	return nil
}

// stubInputs answers text prompts in order, a blank answer taking the
// prompt's default, and returns password for password prompts.
func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origLine, origBody, origSecret := readLine, readBody, readSecret
	next := func(fallback string) (string, error) {
		if len(answers) == 0 {
			return fallback, nil
		}
		a := answers[0]
		answers = answers[1:]
		if a == "" {
			return fallback, nil
		}
		return a, nil
	}
	readLine = func(_ *bufio.Reader, _ io.Writer, _, fallback string) (string, error) { return next(fallback) }
	readBody = func(_ *bufio.Reader, _ io.Writer, _, fallback string) (string, error) { return next(fallback) }
	readSecret = func(*bufio.Reader, io.Writer, string) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	t.Cleanup(func() {
		readLine, readBody, readSecret = origLine, origBody, origSecret
	})
}

func TestNewApp(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	a, err := NewApp(c)
	require.NoError(t, err)
	assert.False(t, a.isLoggedIn())

	c.ServerURL = "ftp://nope"
	_, err = NewApp(c)
	assert.Error(t, err)
}

func TestSignup(t *testing.T) {
	out := capturePrint(t)
	stubInputs(t, []string{"ann@example.com", "Ann"}, []byte("secret"))
	f := &fakeAuth{}
	a := &App{authService: f}

	require.NoError(t, a.Signup(context.Background()))
	assert.Equal(t, []string{"ann@example.com", "Ann", "secret"}, f.signupArgs)
	assert.Contains(t, out(), "User created (u1)")
}

func TestLoginAndStatusLine(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"ann@example.com"}, []byte("secret"))
	f := &fakeAuth{}
	a := &App{authService: f}

	assert.Equal(t, "", a.getStatus())
	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "ann@example.com", f.loginEmail)
	assert.Equal(t, []byte("secret"), f.loginPass)
	assert.Equal(t, "(ann@example.com)", a.getStatus())
}

func TestLogin_Error(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"ann@example.com"}, []byte("bad"))
	a := &App{authService: &fakeAuth{loginErr: client.ErrUnauthorized}}

	assert.ErrorIs(t, a.Login(context.Background()), client.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
}

func TestStatusCommands(t *testing.T) {
	out := capturePrint(t)
	stubInputs(t, []string{"busy"}, nil)
	f := &fakeAuth{loggedIn: true, status: "I am new!"}
	a := &App{authService: f}
	ctx := context.Background()

	require.NoError(t, a.Status(ctx))
	assert.Contains(t, out(), "Status: I am new!")
	require.NoError(t, a.SetStatus(ctx))
	assert.Equal(t, "busy", f.setTo)
}

func TestList(t *testing.T) {
	out := capturePrint(t)
	feed := &fakeFeed{page: &models.FeedPage{
		Posts:      []models.Post{{ID: "p1", Title: "Hello", Creator: models.Creator{Name: "Ann"}}},
		TotalItems: 3,
	}}
	a := &App{feedService: feed}
	ctx := context.Background()

	require.NoError(t, a.List(ctx, []string{"2"}))
	assert.Equal(t, 2, feed.gotPage)
	assert.Contains(t, out(), "Hello")
	assert.Contains(t, out(), "Page 2, 3 posts total")

	err := a.List(ctx, []string{"zero"})
	assert.True(t, errors.Is(err, errUsage))

	feed.page = &models.FeedPage{TotalItems: 3}
	require.NoError(t, a.List(ctx, nil))
	assert.Equal(t, 1, feed.gotPage)
	assert.Contains(t, out(), "No posts on page 1")
}

func TestShow(t *testing.T) {
	out := capturePrint(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	feed := &fakeFeed{}
	a := &App{feedService: feed}
	ctx := context.Background()

	assert.True(t, errors.Is(a.Show(ctx, nil), errUsage))

	err := a.Show(ctx, []string{"zz"})
	assert.True(t, client.IsNotFound(err))

	feed.post = &models.Post{ID: "p1", Title: "Hello", Content: "World!", ImageURL: "http://img/a.png",
		Creator: models.Creator{Name: "Ann"}, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, a.Show(ctx, []string{"p1"}))
	assert.Contains(t, out(), "World!")
	assert.Contains(t, out(), "http://img/a.png")
	assert.NotContains(t, out(), "updated")
}

func TestPostEditDelete(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"Title", "Body text", "/tmp/cat.png", "New title", "", ""}, nil)
	feed := &fakeFeed{}
	a := &App{feedService: feed}
	ctx := context.Background()

	require.NoError(t, a.Post(ctx))
	assert.Equal(t, models.PostDraft{Title: "Title", Content: "Body text", ImagePath: "/tmp/cat.png"}, *feed.created)

	assert.True(t, errors.Is(a.Edit(ctx, nil), errUsage))
	assert.Error(t, a.Edit(ctx, []string{"missing"}))
	assert.Nil(t, feed.edited)

	feed.post = &models.Post{ID: "p1", Title: "Old title", Content: "Old body", ImageURL: "http://img/old.png"}
	require.NoError(t, a.Edit(ctx, []string{"p1"}))
	assert.Equal(t, "p1", feed.editedID)
	assert.Equal(t, models.PostDraft{Title: "New title", Content: "Old body", ImageURL: "http://img/old.png"}, *feed.edited)

	assert.True(t, errors.Is(a.Delete(ctx, []string{}), errUsage))
	require.NoError(t, a.Delete(ctx, []string{"p1"}))
	assert.Equal(t, "p1", feed.deletedID)
}

func TestWatchUnwatch(t *testing.T) {
	out := capturePrint(t)
	feed := &fakeFeed{events: []models.Event{
		{Channel: "posts", Action: "create", Post: models.Post{ID: "p1", Title: "Hello"}},
		{Channel: "posts", Action: "delete", Post: models.Post{ID: "p1"}},
	}}
	a := &App{feedService: feed, authService: &fakeAuth{loggedIn: true}}
	ctx := context.Background()

	require.NoError(t, a.Watch(ctx))
	assert.ErrorIs(t, a.Watch(ctx), errAlreadyWatching)

	require.Eventually(t, func() bool {
		return strings.Contains(out(), "p1 deleted")
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, out(), "p1 created: Hello")

	require.NoError(t, a.Unwatch(ctx))
	require.NoError(t, a.Unwatch(ctx))

	require.NoError(t, a.Watch(ctx))
	require.NoError(t, a.Logout(ctx))
	a.watchMu.Lock()
	assert.Nil(t, a.stopWatch)
	a.watchMu.Unlock()
}

func TestRun_RestoresSessionAndExits(t *testing.T) {
	out := capturePrint(t)
	f := &fakeAuth{restoreOK: true, pingErr: client.ErrUnavailable}
	a := &App{
		config:      &config.Config{RequestTimeout: time.Second},
		authService: f,
		feedService: &fakeFeed{},
		reader:      bufio.NewReader(strings.NewReader("exit\n")),
	}

	a.Run(context.Background())
	assert.Contains(t, out(), "Restored session for saved@example.com")
	assert.Contains(t, out(), "Server unavailable")
	assert.Contains(t, out(), "Bye!")
}

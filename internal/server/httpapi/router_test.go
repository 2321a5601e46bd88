package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

func newTestRouter(users *fakeUsers, posts *fakePosts, mutate ...func(*RouterOptions)) http.Handler {
	opts := RouterOptions{
		Users:         users,
		Posts:         posts,
		Resolver:      identity.NewResolver(fakeTokens{}),
		RESTPolicy:    identity.PolicyStrict,
		GraphQLPolicy: identity.PolicyLenient,
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewRouter(opts)
}

func do(t *testing.T, h http.Handler, method, path, token string, body io.Reader, contentType string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func jsonBody(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func TestHealthz(t *testing.T) {
	rec, _ := do(t, newTestRouter(&fakeUsers{}, &fakePosts{}), http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestSignup(t *testing.T) {
	var got services.SignupInput
	users := &fakeUsers{signup: func(in services.SignupInput) (*models.User, error) {
		got = in
		return &models.User{ID: "u1"}, nil
	}}

	rec, out := do(t, newTestRouter(users, &fakePosts{}), http.MethodPut, "/auth/signup", "",
		jsonBody(map[string]string{"email": "a@b.co", "password": "secret", "name": "Ann"}), "application/json")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created!", out["message"])
	assert.Equal(t, "u1", out["userId"])
	assert.Equal(t, services.SignupInput{Email: "a@b.co", Password: "secret", Name: "Ann"}, got)
}

func TestSignup_Validation(t *testing.T) {
	users := &fakeUsers{signup: func(services.SignupInput) (*models.User, error) {
		verr := common.NewValidationError(services.ValidationMessage)
		verr.Add("email", "Email address already exists.")
		return nil, verr
	}}

	rec, out := do(t, newTestRouter(users, &fakePosts{}), http.MethodPut, "/auth/signup", "",
		jsonBody(map[string]string{"email": "a@b.co"}), "application/json")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, services.ValidationMessage, out["message"])
	data, ok := out["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, "email", data[0].(map[string]any)["field"])
}

func TestSignup_BadJSON(t *testing.T) {
	rec, out := do(t, newTestRouter(&fakeUsers{}, &fakePosts{}), http.MethodPut, "/auth/signup", "",
		strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid request body.", out["message"])
	assert.EqualValues(t, http.StatusUnprocessableEntity, out["status"])
}

func TestLogin(t *testing.T) {
	users := &fakeUsers{login: func(email, password string) (*services.LoginResult, error) {
		if password != "secret" {
			return nil, common.ErrInvalidCredentials
		}
		return &services.LoginResult{Token: "tok", UserID: "u1"}, nil
	}}
	h := newTestRouter(users, &fakePosts{})

	rec, out := do(t, h, http.MethodPost, "/auth/login", "",
		jsonBody(map[string]string{"email": "a@b.co", "password": "secret"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", out["token"])
	assert.Equal(t, "u1", out["userId"])

	rec, out = do(t, h, http.MethodPost, "/auth/login", "",
		jsonBody(map[string]string{"email": "a@b.co", "password": "nope"}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.EqualValues(t, 401, out["status"])
}

func TestStatus(t *testing.T) {
	users := &fakeUsers{
		status: func(ac identity.AuthContext) (string, error) {
			return "hello from " + ac.UserID, nil
		},
		updateStatus: func(ac identity.AuthContext, s string) (*models.User, error) {
			if s == "" {
				return nil, common.ErrorNotFound
			}
			return &models.User{ID: ac.UserID, Status: s}, nil
		},
	}
	h := newTestRouter(users, &fakePosts{})

	rec, _ := do(t, h, http.MethodGet, "/auth/status", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, out := do(t, h, http.MethodGet, "/auth/status", "user:u1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello from u1", out["status"])

	rec, out = do(t, h, http.MethodPatch, "/auth/status", "user:u1",
		jsonBody(map[string]string{"status": "busy"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated.", out["message"])

	rec, out = do(t, h, http.MethodPatch, "/auth/status", "user:u1",
		jsonBody(map[string]string{}), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found.", out["message"])
}

func samplePost() *models.PostView {
	return &models.PostView{
		ID: "p1", Title: "Hello", Content: "World!",
		ImageURL: "http://img/a.png", ImageKey: "a.png",
		Creator: models.Creator{ID: "u1", Name: "Ann"},
	}
}

func TestListPosts(t *testing.T) {
	var gotPage int
	posts := &fakePosts{list: func(page int) (*models.FeedPage, error) {
		gotPage = page
		return &models.FeedPage{Posts: []models.PostView{*samplePost()}, TotalItems: 3}, nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	rec, out := do(t, h, http.MethodGet, "/feed/posts?page=2", "user:u1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, "Fetched posts successfully.", out["message"])
	assert.EqualValues(t, 3, out["totalItems"])
	assert.Len(t, out["posts"], 1)

	_, _ = do(t, h, http.MethodGet, "/feed/posts?page=abc", "user:u1", nil, "")
	assert.Equal(t, 1, gotPage)
}

func TestListPosts_LenientAllowsAnonymous(t *testing.T) {
	posts := &fakePosts{list: func(int) (*models.FeedPage, error) {
		return &models.FeedPage{}, nil
	}}
	h := newTestRouter(&fakeUsers{}, posts, func(o *RouterOptions) { o.RESTPolicy = identity.PolicyLenient })

	rec, _ := do(t, h, http.MethodGet, "/feed/posts", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePost_JSON(t *testing.T) {
	var got services.PostInput
	var caller identity.AuthContext
	posts := &fakePosts{create: func(ac identity.AuthContext, in services.PostInput) (*models.PostView, error) {
		got, caller = in, ac
		return samplePost(), nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	rec, out := do(t, h, http.MethodPost, "/feed/post", "user:u1",
		jsonBody(map[string]string{"title": "Hello", "content": "World!", "image": "http://img/a.png"}), "application/json")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Post created successfully!", out["message"])
	assert.Equal(t, "u1", caller.UserID)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "http://img/a.png", got.Image.URL)
	assert.Nil(t, got.Upload)
	creator := out["creator"].(map[string]any)
	assert.Equal(t, "u1", creator["_id"])
	assert.Equal(t, "Ann", creator["name"])
	assert.Equal(t, "p1", out["post"].(map[string]any)["_id"])
}

func multipartBody(t *testing.T, fields map[string]string, fileContentType string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileContentType != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="cat.png"`)
		hdr.Set("Content-Type", fileContentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("pngdata"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreatePost_MultipartUpload(t *testing.T) {
	var got services.PostInput
	var uploaded []byte
	posts := &fakePosts{create: func(_ identity.AuthContext, in services.PostInput) (*models.PostView, error) {
		got = in
		if in.Upload != nil {
			uploaded, _ = io.ReadAll(in.Upload.Body)
		}
		return samplePost(), nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	body, ct := multipartBody(t, map[string]string{"title": "Hello", "content": "World!"}, "image/png")
	rec, _ := do(t, h, http.MethodPost, "/feed/post", "user:u1", body, ct)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got.Upload)
	assert.Equal(t, "cat.png", got.Upload.Filename)
	assert.Equal(t, "image/png", got.Upload.ContentType)
	assert.Equal(t, int64(7), got.Upload.Size)
	assert.Equal(t, []byte("pngdata"), uploaded)
}

func TestCreatePost_UnacceptedFileDropped(t *testing.T) {
	var got services.PostInput
	posts := &fakePosts{create: func(_ identity.AuthContext, in services.PostInput) (*models.PostView, error) {
		got = in
		return samplePost(), nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	body, ct := multipartBody(t, map[string]string{"title": "Hello", "content": "World!"}, "image/gif")
	_, _ = do(t, h, http.MethodPost, "/feed/post", "user:u1", body, ct)
	assert.Nil(t, got.Upload)
}

func TestCreatePost_AnonymousRejected(t *testing.T) {
	called := false
	posts := &fakePosts{create: func(identity.AuthContext, services.PostInput) (*models.PostView, error) {
		called = true
		return nil, nil
	}}
	rec, out := do(t, newTestRouter(&fakeUsers{}, posts), http.MethodPost, "/feed/post", "bogus",
		jsonBody(map[string]string{}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated.", out["message"])
	assert.False(t, called)
}

func TestGetPost(t *testing.T) {
	posts := &fakePosts{get: func(id string) (*models.PostView, error) {
		if id == "p1" {
			return samplePost(), nil
		}
		return nil, common.ErrorNotFound
	}}

	tests := []struct {
		name       string
		notFound   int
		path       string
		wantStatus int
	}{
		{"found", 0, "/feed/post/p1", http.StatusOK},
		{"missing default", 0, "/feed/post/zz", http.StatusUnprocessableEntity},
		{"missing configured", http.StatusNotFound, "/feed/post/zz", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&fakeUsers{}, posts, func(o *RouterOptions) { o.NotFoundStatus = tt.notFound })
			rec, out := do(t, h, http.MethodGet, tt.path, "user:u1", nil, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "Post fetched.", out["message"])
			} else {
				assert.Equal(t, "Could not find post.", out["message"])
			}
		})
	}
}

func TestUpdatePost(t *testing.T) {
	var gotID string
	posts := &fakePosts{update: func(ac identity.AuthContext, id string, in services.PostInput) (*models.PostView, error) {
		gotID = id
		if ac.UserID != "u1" {
			return nil, common.ErrForbidden
		}
		return samplePost(), nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	rec, out := do(t, h, http.MethodPut, "/feed/post/p1", "user:u1",
		jsonBody(map[string]string{"title": "Hello", "content": "World!", "image": "x"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post updated!", out["message"])
	assert.Equal(t, "p1", gotID)

	rec, out = do(t, h, http.MethodPut, "/feed/post/p1", "user:u2",
		jsonBody(map[string]string{}), "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized!", out["message"])
}

func TestDeletePost(t *testing.T) {
	posts := &fakePosts{delete: func(ac identity.AuthContext, id string) error {
		if ac.UserID != "u1" {
			return common.ErrForbidden
		}
		return nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	rec, out := do(t, h, http.MethodDelete, "/feed/post/p1", "user:u1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted post.", out["message"])

	rec, _ = do(t, h, http.MethodDelete, "/feed/post/p1", "user:u2", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInternalErrorHidden(t *testing.T) {
	posts := &fakePosts{delete: func(identity.AuthContext, string) error {
		return errors.New("db error: connection reset")
	}}
	rec, out := do(t, newTestRouter(&fakeUsers{}, posts), http.MethodDelete, "/feed/post/p1", "user:u1", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An internal error occurred.", out["message"])
}

func TestUploadImage(t *testing.T) {
	var calls int
	posts := &fakePosts{upload: func(_ identity.AuthContext, up *services.Upload) (models.ImageRef, bool, error) {
		calls++
		if up == nil {
			return models.ImageRef{}, false, nil
		}
		return models.ImageRef{URL: "http://img/new.png", Key: "images/u1/new.png"}, true, nil
	}}
	h := newTestRouter(&fakeUsers{}, posts)

	// a stale oldKey field is ignored; the upload never deletes anything
	body, ct := multipartBody(t, map[string]string{"oldKey": "images/u2/theirs.png"}, "image/png")
	rec, out := do(t, h, http.MethodPut, "/post-image", "user:u1", body, ct)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "http://img/new.png", out["filePath"])
	assert.Equal(t, "images/u1/new.png", out["fileKey"])

	body, ct = multipartBody(t, nil, "")
	rec, out = do(t, h, http.MethodPut, "/post-image", "user:u1", body, ct)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No file provided!", out["message"])
	assert.Equal(t, 2, calls)
}

func TestUploadImage_BadBody(t *testing.T) {
	h := newTestRouter(&fakeUsers{}, &fakePosts{})
	rec, out := do(t, h, http.MethodPut, "/post-image", "user:u1", strings.NewReader("not multipart"), "text/plain")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid request body.", out["message"])
}

func TestOptionalMounts(t *testing.T) {
	var sawAuth identity.AuthContext
	gql := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = identity.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	socket := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }
	h := newTestRouter(&fakeUsers{}, &fakePosts{}, func(o *RouterOptions) {
		o.GraphQL = gql
		o.Socket = socket
	})

	rec, _ := do(t, h, http.MethodPost, "/graphql", "", strings.NewReader("{}"), "application/json")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.False(t, sawAuth.IsAuthenticated())

	rec, _ = do(t, h, http.MethodPost, "/graphql", "user:u9", strings.NewReader("{}"), "application/json")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "u9", sawAuth.UserID)

	rec, _ = do(t, h, http.MethodGet, "/socket", "", nil, "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(&fakeUsers{}, &fakePosts{})
	req := httptest.NewRequest(http.MethodOptions, "/feed/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// Package httpapi exposes the REST surface: auth and feed endpoints, image
// upload, plus mount points for the GraphQL handler and the realtime socket.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

// UserService is what the auth endpoints call.
type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Status(ctx context.Context, ac identity.AuthContext) (string, error)
	UpdateStatus(ctx context.Context, ac identity.AuthContext, status string) (*models.User, error)
}

// PostService is what the feed and upload endpoints call.
type PostService interface {
	Create(ctx context.Context, ac identity.AuthContext, in services.PostInput) (*models.PostView, error)
	Update(ctx context.Context, ac identity.AuthContext, postID string, in services.PostInput) (*models.PostView, error)
	Delete(ctx context.Context, ac identity.AuthContext, postID string) error
	Get(ctx context.Context, postID string) (*models.PostView, error)
	List(ctx context.Context, page int) (*models.FeedPage, error)
	UploadImage(ctx context.Context, ac identity.AuthContext, up *services.Upload) (models.ImageRef, bool, error)
}

// RouterOptions controls the construction of the HTTP router. Users, Posts
// and Resolver are required; the rest have usable zero values.
type RouterOptions struct {
	Users    UserService
	Posts    PostService
	Resolver *identity.Resolver
	Logger   logging.Logger

	// RESTPolicy guards /feed, /post-image and /auth/status.
	RESTPolicy identity.Policy
	// GraphQLPolicy guards /graphql.
	GraphQLPolicy identity.Policy
	// NotFoundStatus is returned for unknown posts; 0 means 422.
	NotFoundStatus int
	// MaxUploadBytes caps request bodies; 0 means 10 MiB.
	MaxUploadBytes int64

	GraphQL       http.Handler
	Socket        http.HandlerFunc
	CORSOptions   *cors.Options
	HealthHandler http.HandlerFunc
}

const (
	defaultNotFoundStatus = http.StatusUnprocessableEntity
	defaultMaxUploadBytes = 10 << 20
)

// DefaultCORSOptions allows any origin to call the API with a bearer token.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodOptions, http.MethodGet, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles the chi router with shared middleware, CORS and every
// endpoint mounted.
func NewRouter(opts RouterOptions) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	notFound := opts.NotFoundStatus
	if notFound == 0 {
		notFound = defaultNotFoundStatus
	}
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	health := opts.HealthHandler
	if health == nil {
		health = defaultHealthHandler
	}
	r.Get("/healthz", health)

	guard := opts.Resolver.Middleware(opts.RESTPolicy, logger)

	auth := &authHandlers{users: opts.Users, logger: logger, maxBytes: maxBytes}
	r.Route("/auth", func(r chi.Router) {
		r.Put("/signup", auth.signup)
		r.Post("/login", auth.login)
		r.With(guard).Get("/status", auth.getStatus)
		r.With(guard).Patch("/status", auth.updateStatus)
	})

	feed := &feedHandlers{posts: opts.Posts, logger: logger, notFound: notFound, maxBytes: maxBytes}
	r.Route("/feed", func(r chi.Router) {
		r.Use(guard)
		r.Get("/posts", feed.list)
		r.Post("/post", feed.create)
		r.Get("/post/{postId}", feed.get)
		r.Put("/post/{postId}", feed.update)
		r.Delete("/post/{postId}", feed.delete)
	})
	r.With(guard).Put("/post-image", feed.uploadImage)

	if opts.Socket != nil {
		r.Get("/socket", opts.Socket)
	}
	if opts.GraphQL != nil {
		gql := opts.Resolver.Middleware(opts.GraphQLPolicy, logger)(opts.GraphQL)
		r.Method(http.MethodPost, "/graphql", gql)
		r.Method(http.MethodGet, "/graphql", gql)
	}

	return r
}

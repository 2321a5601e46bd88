// Package server wires configuration, storage, object storage, services and
// the HTTP surfaces together and runs them until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/auth"
	"github.com/dmitrijs2005/gophfeed/internal/server/blobstore"
	"github.com/dmitrijs2005/gophfeed/internal/server/config"
	"github.com/dmitrijs2005/gophfeed/internal/server/graphql"
	"github.com/dmitrijs2005/gophfeed/internal/server/httpapi"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/notify"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

var newBlobStore = func(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	return blobstore.NewS3Store(ctx, blobstore.S3Config{
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		BaseEndpoint:  c.S3BaseEndpoint,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.S3PublicBaseURL,
	})
}

var openStorage = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageDriver {
	case config.StoragePostgres:
		return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	case config.StorageMongo:
		return repomanager.NewMongoRepositoryManager(ctx, c.MongoURI, c.MongoDatabase)
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	hub         *notify.Hub
	postService *services.PostService
	handler     http.Handler
}

// NewApp opens storage and object storage, installs the change notifier and
// builds the router. The notifier is installed before any request can be
// served.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	restPolicy, err := identity.ParsePolicy(c.RESTAuthPolicy)
	if err != nil {
		return nil, err
	}
	gqlPolicy, err := identity.ParsePolicy(c.GraphQLAuthPolicy)
	if err != nil {
		return nil, err
	}

	repos, err := openStorage(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	hub := notify.NewHub(logger)
	if err := notify.Init(hub); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), auth.WithValidity(c.TokenValidityDuration))
	creds := auth.NewCredentials(auth.NewHasher(c.BcryptCost), tokens)

	userService := services.NewUserService(repos, creds, logger)
	postService := services.NewPostService(repos, blobs, notify.Default{}, logger,
		services.WithPostsPerPage(c.PostsPerPage),
		services.WithBlobDeleteTimeout(c.BlobDeleteTimeout),
	)

	schema, err := graphql.NewSchema(graphql.Options{
		Users:          userService,
		Posts:          postService,
		Logger:         logger,
		NotFoundStatus: c.GraphQLNotFoundStatus,
	})
	if err != nil {
		notify.Shutdown()
		_ = repos.Close(ctx)
		return nil, err
	}

	corsOpts := httpapi.DefaultCORSOptions()
	if len(c.CORSAllowedOrigins) > 0 {
		corsOpts.AllowedOrigins = c.CORSAllowedOrigins
	}

	router := httpapi.NewRouter(httpapi.RouterOptions{
		Users:          userService,
		Posts:          postService,
		Resolver:       identity.NewResolver(tokens),
		Logger:         logger,
		RESTPolicy:     restPolicy,
		GraphQLPolicy:  gqlPolicy,
		NotFoundStatus: c.RESTNotFoundStatus,
		MaxUploadBytes: c.MaxUploadBytes,
		GraphQL:        graphql.NewHandler(schema),
		Socket:         hub.ServeWS,
		CORSOptions:    &corsOpts,
	})

	return &App{
		config:      c,
		logger:      logger,
		repos:       repos,
		hub:         hub,
		postService: postService,
		handler:     router,
	}, nil
}

// Handler returns the root HTTP handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) logRoutes(ctx context.Context) {
	r, ok := app.handler.(chi.Routes)
	if !ok {
		return
	}
	_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		app.logger.Debug(ctx, "route", "method", method, "path", route)
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Serve runs the HTTP server on l until ctx is cancelled, then shuts down.
func (app *App) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "http server listening", "addr", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.logger.Info(shutdownCtx, "shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}
	app.close(shutdownCtx)
	return serveErr
}

// close drains background blob deletions before storage goes away.
func (app *App) close(ctx context.Context) {
	app.postService.Wait()
	notify.Shutdown()
	if err := app.repos.Close(ctx); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
}

// Run listens on the configured address and serves until a termination
// signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"storage", app.config.StorageDriver,
		"rest_policy", app.config.RESTAuthPolicy,
		"graphql_policy", app.config.GraphQLAuthPolicy,
	)
	app.logRoutes(ctx)
	app.initSignalHandler(cancelFunc)

	l, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		app.close(ctx)
		return fmt.Errorf("listen error: %w", err)
	}
	return app.Serve(ctx, l)
}

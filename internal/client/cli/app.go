package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/config"
	"github.com/dmitrijs2005/gophfeed/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	feedService services.FeedService
	reader      *bufio.Reader

	watchMu   sync.Mutex
	stopWatch context.CancelFunc
	watchDone chan struct{}
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient, c.TokenFile)
	fs := services.NewFeedService(apiClient)

	return &App{config: c, authService: as, feedService: fs, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedIn()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.authService.Email())
}

// Run restores a saved session, checks the server is reachable and starts
// the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Unwatch(ctx)

	printlnFn("Welcome to gophfeed CLI (type 'help' for commands)")

	if ok, err := a.authService.Restore(ctx); err != nil {
		printlnFn("Could not restore session:", err)
	} else if ok {
		printlnFn("Restored session for", a.authService.Email())
	}

	pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	if err := a.authService.Ping(pingCtx); err != nil {
		printlnFn("Server unavailable:", err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}

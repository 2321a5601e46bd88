package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

var errAlreadyWatching = errors.New("already watching; use unwatch first")

// Watch prints post changes in the background until Unwatch or exit.
func (a *App) Watch(ctx context.Context) error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.stopWatch != nil {
		return errAlreadyWatching
	}

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.stopWatch, a.watchDone = cancel, done

	go func() {
		defer close(done)
		err := a.feedService.Watch(wctx, func(ev models.Event) {
			printlnFn(renderEvent(ev))
		})
		if err != nil {
			printlnFn("Watch stopped:", err)
		}
	}()

	printlnFn("Watching for post changes (type 'unwatch' to stop)")
	return nil
}

// Unwatch stops the background watcher, if any, and waits for it to exit.
func (a *App) Unwatch(context.Context) error {
	a.watchMu.Lock()
	cancel, done := a.stopWatch, a.watchDone
	a.stopWatch, a.watchDone = nil, nil
	a.watchMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

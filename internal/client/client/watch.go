package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

// dialer is a test seam.
var dialer = websocket.DefaultDialer

func (c *HTTPClient) socketURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/socket"
}

// Watch subscribes to post changes and calls fn for each one until ctx is
// cancelled or the connection drops. Cancellation returns nil.
func (c *HTTPClient) Watch(ctx context.Context, fn func(models.Event)) error {
	conn, _, err := dialer.DialContext(ctx, c.socketURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	})
	defer stop()

	for {
		var ev models.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("socket read: %w", err)
		}
		fn(ev)
	}
}

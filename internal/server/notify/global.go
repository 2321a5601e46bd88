package notify

import (
	"sync"

	"github.com/dmitrijs2005/gophfeed/internal/common"
)

var (
	globalMu sync.RWMutex
	global   *Hub
)

// Init installs the process-wide hub. It must run before the server accepts
// requests; a second call fails with common.ErrAlreadyInitialized.
func Init(h *Hub) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		return common.ErrAlreadyInitialized
	}
	global = h
	return nil
}

// Get returns the hub installed by Init or common.ErrNotInitialized.
func Get() (*Hub, error) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return nil, common.ErrNotInitialized
	}
	return global, nil
}

// Publish broadcasts a change on the posts channel through the installed hub.
func Publish(action Action, post any) error {
	h, err := Get()
	if err != nil {
		return err
	}
	return h.Broadcast(Message{Channel: common.PostsChannel, Action: action, Post: post})
}

// Default publishes through the process-wide hub. Services hold it as their
// publisher so tests can swap in a recorder.
type Default struct{}

func (Default) Publish(action Action, post any) error {
	return Publish(action, post)
}

// Shutdown closes and uninstalls the process-wide hub.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		global.Close()
		global = nil
	}
}

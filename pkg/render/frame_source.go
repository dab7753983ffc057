package render

import (
	"slices"
	"sync"

	"github.com/decker502/bubblehearts/pkg/bubble"
)

// FrameSource delivers frame callbacks in sync with Ebitengine's Draw.
//
// Callbacks requested during one frame run on the next call to Pump,
// which the game calls once from its Draw method. This keeps all
// drawing on the game goroutine and rate-limits work to the display refresh.
type FrameSource struct {
	mu      sync.Mutex
	next    bubble.FrameHandle
	pending map[bubble.FrameHandle]func()
}

// NewFrameSource creates an empty frame source.
func NewFrameSource() *FrameSource {
	return &FrameSource{
		pending: make(map[bubble.FrameHandle]func()),
	}
}

// RequestFrame implements bubble.FrameSource.
func (fs *FrameSource) RequestFrame(fn func()) bubble.FrameHandle {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.next++
	fs.pending[fs.next] = fn
	return fs.next
}

// CancelFrame implements bubble.FrameSource.
func (fs *FrameSource) CancelFrame(h bubble.FrameHandle) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.pending, h)
}

// Pending returns the number of callbacks waiting for the next frame.
func (fs *FrameSource) Pending() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.pending)
}

// Pump runs every callback registered before this call, in request order.
// Callbacks registered while pumping wait for the next Pump.
// Returns the number of callbacks run.
func (fs *FrameSource) Pump() int {
	fs.mu.Lock()
	handles := make([]bubble.FrameHandle, 0, len(fs.pending))
	for h := range fs.pending {
		handles = append(handles, h)
	}
	slices.Sort(handles)

	callbacks := make([]func(), 0, len(handles))
	for _, h := range handles {
		callbacks = append(callbacks, fs.pending[h])
		delete(fs.pending, h)
	}
	fs.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return len(callbacks)
}

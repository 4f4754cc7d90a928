package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// DefaultCoalesceWindow is how long a toast waits for further changes
const DefaultCoalesceWindow = 3 * time.Second

type toastKey struct {
	userID uuid.UUID
	itemID uuid.UUID
}

type pendingToast struct {
	toast Toast
	timer *time.Timer
	seq   uint64
}

// EmitFunc receives a toast once its window closes
type EmitFunc func(userID uuid.UUID, toast Toast)

// Coalescer merges events for the same recipient and item. Each new event
// restarts the window; the toast is emitted when the window passes quietly.
type Coalescer struct {
	window time.Duration
	emit   EmitFunc

	mu      sync.Mutex
	pending map[toastKey]*pendingToast
}

// NewCoalescer creates a coalescer. A non-positive window uses DefaultCoalesceWindow.
func NewCoalescer(window time.Duration, emit EmitFunc) *Coalescer {
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return &Coalescer{
		window:  window,
		emit:    emit,
		pending: make(map[toastKey]*pendingToast),
	}
}

// Add queues event for userID. It reports false when the event is not
// relevant to the user, in which case nothing is queued.
func (c *Coalescer) Add(userID uuid.UUID, event domain.ItemUpdateEvent) bool {
	if !event.IsRelevantTo(userID) {
		return false
	}

	key := toastKey{userID: userID, itemID: event.Item.ID}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[key]
	if ok {
		p.timer.Stop()
	} else {
		p = &pendingToast{}
		c.pending[key] = p
	}
	p.toast = p.toast.merge(event)
	p.seq++
	seq := p.seq
	p.timer = time.AfterFunc(c.window, func() { c.fire(key, seq) })
	return true
}

// Pending returns the number of toasts waiting for their window to close
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush emits every pending toast immediately
func (c *Coalescer) Flush() {
	c.mu.Lock()
	toasts := make(map[toastKey]Toast, len(c.pending))
	for key, p := range c.pending {
		p.timer.Stop()
		toasts[key] = p.toast
	}
	c.pending = make(map[toastKey]*pendingToast)
	c.mu.Unlock()

	for key, toast := range toasts {
		c.emit(key.userID, toast)
	}
}

func (c *Coalescer) fire(key toastKey, seq uint64) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if !ok || p.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	toast := p.toast
	c.mu.Unlock()

	c.emit(key.userID, toast)
}

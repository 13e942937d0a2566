package service

import (
	"sync"

	"github.com/MKhiriev/go-study-sync/models"
)

// StatusTracker holds the engine's observable [models.SyncStatus]. The
// sync coordinator is its single writer; any number of observers may
// read the current value or subscribe to change notifications.
type StatusTracker struct {
	mu     sync.RWMutex
	status models.SyncStatus
	subs   map[int]chan models.SyncStatus
	nextID int
}

// NewStatusTracker creates a tracker with a zero status.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{subs: make(map[int]chan models.SyncStatus)}
}

// Status returns a copy of the current status.
func (t *StatusTracker) Status() models.SyncStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Update applies mutate to the status under the write lock and
// broadcasts the new value to all subscribers.
func (t *StatusTracker) Update(mutate func(*models.SyncStatus)) {
	t.mu.Lock()
	mutate(&t.status)
	updated := t.status
	for _, ch := range t.subs {
		// A subscriber that stopped draining loses intermediate values,
		// never blocks the coordinator.
		select {
		case ch <- updated:
		default:
		}
	}
	t.mu.Unlock()
}

// Subscribe registers a status observer. The returned cancel func
// unregisters it and closes the channel; it must be called exactly
// once.
func (t *StatusTracker) Subscribe() (<-chan models.SyncStatus, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan models.SyncStatus, 8)
	t.subs[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if sub, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

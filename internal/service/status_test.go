package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-sync/models"
)

func TestStatusTracker_UpdateAndRead(t *testing.T) {
	tracker := NewStatusTracker()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tracker.Update(func(st *models.SyncStatus) {
		st.LastSyncAt = now
		st.IsOnline = true
	})

	got := tracker.Status()
	assert.Equal(t, now, got.LastSyncAt)
	assert.True(t, got.IsOnline)

	// the returned value is a copy
	got.IsOnline = false
	assert.True(t, tracker.Status().IsOnline)
}

func TestStatusTracker_SubscriberReceivesUpdates(t *testing.T) {
	tracker := NewStatusTracker()
	ch, cancel := tracker.Subscribe()
	defer cancel()

	tracker.Update(func(st *models.SyncStatus) { st.NeedsSync = true })

	select {
	case got := <-ch:
		assert.True(t, got.NeedsSync)
	case <-time.After(time.Second):
		t.Fatal("no status update received")
	}
}

func TestStatusTracker_CancelClosesChannel(t *testing.T) {
	tracker := NewStatusTracker()
	ch, cancel := tracker.Subscribe()

	cancel()

	_, open := <-ch
	assert.False(t, open)

	// updates after cancel must not panic
	tracker.Update(func(st *models.SyncStatus) { st.IsOnline = true })
}

func TestStatusTracker_SlowSubscriberNeverBlocksWriter(t *testing.T) {
	tracker := NewStatusTracker()
	ch, cancel := tracker.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// far more updates than the subscriber buffer holds
		for i := 0; i < 100; i++ {
			tracker.Update(func(st *models.SyncStatus) { st.NeedsSync = i%2 == 0 })
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked on a slow subscriber")
	}

	// the subscriber still sees the most recent buffered values
	require.NotEmpty(t, ch)
}

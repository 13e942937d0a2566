package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-study-sync/internal/logger"
)

type syncJob struct {
	syncService SyncService
	status      *StatusTracker
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that calls syncService.SyncNow on a
// ticker. The job is idle until Start is called.
func NewSyncJob(syncService SyncService, status *StatusTracker, log *logger.Logger) SyncJob {
	return &syncJob{syncService: syncService, status: status, logger: log}
}

// Start implements [SyncJob]. It stops any previously running job, then
// launches a background goroutine that syncs every interval. If
// interval is zero or negative it defaults to 15 minutes. When the last
// successful sync is at least one interval old (including the
// never-synced case) a catch-up sync runs before the first tick. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()

		if last := j.status.Status().LastSyncAt; time.Since(last) >= interval {
			j.runOnce(jobCtx)
		}

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runOnce(jobCtx)
			}
		}
	}()
}

// Stop implements [SyncJob]. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call
// when the job is not running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) runOnce(ctx context.Context) {
	_, err := j.syncService.SyncNow(ctx)
	if err == nil || errors.Is(err, ErrSyncInProgress) || errors.Is(err, ErrOffline) {
		// busy and offline are expected states for a timer-driven sync
		return
	}
	j.logger.Warn().Err(err).Str("func", "runOnce").Msg("periodic sync failed")
}

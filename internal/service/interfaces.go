// Package service contains the sync engine's behavioural core: the
// sync coordinator, the restore engine, the periodic sync job, and the
// shared status tracker.
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-study-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

// SyncService coordinates snapshot synchronisation with the remote
// store and owns the backup operations that ride on the same transport.
type SyncService interface {
	// SyncNow runs one full sync attempt. At most one attempt runs at a
	// time; a second concurrent call returns immediately with
	// Outcome=SyncAlreadyInProgress and [ErrSyncInProgress]. When the
	// device is offline the result is Outcome=SyncOffline with
	// [ErrOffline] and no local state is modified except the
	// connectivity flag.
	SyncNow(ctx context.Context) (models.SyncResult, error)

	// CreateBackup builds a snapshot of the current local state and
	// uploads it without touching the latest-pointer or the pending
	// change log.
	CreateBackup(ctx context.Context) (models.BackupInfo, error)

	// ListBackups returns the snapshots available on the remote store,
	// newest first.
	ListBackups(ctx context.Context) ([]models.BackupInfo, error)
}

// RestoreService replaces the local dataset with a snapshot's payload.
type RestoreService interface {
	// Restore verifies snap's integrity and atomically replaces the
	// entire local dataset with its payload. On any failure the prior
	// local state is left untouched.
	Restore(ctx context.Context, snap models.BackupSnapshot) error

	// RestoreBackup downloads the snapshot stored under id and restores
	// it. The device is marked as needing sync so that the restored
	// state propagates on the next sync.
	RestoreBackup(ctx context.Context, id string) error
}

// SyncJob triggers periodic background syncs.
type SyncJob interface {
	// Start launches the background ticker. If the last successful sync
	// is older than interval, one catch-up sync runs immediately.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the background goroutine and blocks until it has
	// fully exited. Safe to call when the job is not running.
	Stop()
}

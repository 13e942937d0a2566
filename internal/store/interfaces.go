package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-study-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/entity_store_mock.go -package=mock

// Metadata keys persisted in the device_meta table. Device-local only,
// never synced.
const (
	// MetaDeviceID is the stable per-install identifier, generated once
	// on first run.
	MetaDeviceID = "device_id"

	// MetaLastRemoteSnapshotID is the id of the remote snapshot this
	// device last synced against. Drives divergence detection.
	MetaLastRemoteSnapshotID = "last_remote_snapshot_id"

	// MetaLastSyncAt is the RFC3339 completion time of the last
	// successful sync.
	MetaLastSyncAt = "last_sync_at"

	// MetaPeriodicSyncEnabled is "true" when the periodic sync job
	// should be restarted on engine start.
	MetaPeriodicSyncEnabled = "periodic_sync_enabled"
)

// EntityStore is the local persistence layer the engine snapshots from
// and restores into. Ordinary app mutations go through the Upsert
// methods, which record a change-log entry in the same transaction as
// the entity write, so the pending change log can never disagree with
// the entity tables.
type EntityStore interface {
	// ReadAll returns the full current dataset, tombstones included.
	// Purely a read; the snapshot builder relies on that.
	ReadAll(ctx context.Context) (models.Payload, error)

	// ReplaceAll swaps in payload atomically: either every collection is
	// replaced or, on error, the prior state is fully intact. The change
	// log and device metadata are not touched.
	ReplaceAll(ctx context.Context, payload models.Payload) error

	// UpsertFlashcard writes card and appends a change-log entry in one
	// transaction. Soft deletes are upserts with Deleted=true.
	UpsertFlashcard(ctx context.Context, card models.Flashcard) error

	// UpsertProgress writes rec and appends a change-log entry in one
	// transaction.
	UpsertProgress(ctx context.Context, rec models.ProgressRecord) error

	// UpsertAchievement writes ach and appends a change-log entry in one
	// transaction.
	UpsertAchievement(ctx context.Context, ach models.Achievement) error

	// UpsertSetting writes s and appends a change-log entry in one
	// transaction.
	UpsertSetting(ctx context.Context, s models.Setting) error

	// AppendChange records a change-log entry for a mutation performed
	// outside this package (the host app owns some entity writes).
	AppendChange(ctx context.Context, entityType, entityID string, updatedAt time.Time) error

	// PendingChanges returns all change-log entries in Seq order.
	PendingChanges(ctx context.Context) ([]models.PendingChange, error)

	// LastChangeSeq returns the highest Seq in the change log, or 0 when
	// the log is empty.
	LastChangeSeq(ctx context.Context) (int64, error)

	// ClearChanges deletes change-log entries with Seq <= upToSeq.
	// Entries appended after a snapshot was built survive and keep
	// NeedsSync true.
	ClearChanges(ctx context.Context, upToSeq int64) error

	// GetMeta returns the value for key, or "" when the key is unset.
	GetMeta(ctx context.Context, key string) (string, error)

	// SetMeta stores value under key, overwriting any previous value.
	SetMeta(ctx context.Context, key, value string) error
}

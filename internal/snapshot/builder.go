package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/store"
	"github.com/MKhiriev/go-study-sync/models"
)

// Builder captures point-in-time snapshots of the local entity store.
type Builder struct {
	store  store.EntityStore
	logger *logger.Logger
	now    func() time.Time
}

// NewBuilder creates a Builder reading from s.
func NewBuilder(s store.EntityStore, log *logger.Logger) *Builder {
	return &Builder{store: s, logger: log, now: time.Now}
}

// Build reads the full local dataset in one transaction and wraps it in
// a snapshot carrying this device's id, the last known remote snapshot
// as parent, and the payload checksum. Returns [ErrSnapshotBuild] when
// the store cannot be read consistently.
func (b *Builder) Build(ctx context.Context) (models.BackupSnapshot, error) {
	deviceID, err := b.store.GetMeta(ctx, store.MetaDeviceID)
	if err != nil {
		b.logger.Err(err).Str("func", "Build").Msg("error reading device id")
		return models.BackupSnapshot{}, fmt.Errorf("%w: %w", ErrSnapshotBuild, err)
	}
	if deviceID == "" {
		return models.BackupSnapshot{}, fmt.Errorf("%w: device id not initialised", ErrSnapshotBuild)
	}

	parentID, err := b.store.GetMeta(ctx, store.MetaLastRemoteSnapshotID)
	if err != nil {
		b.logger.Err(err).Str("func", "Build").Msg("error reading parent snapshot id")
		return models.BackupSnapshot{}, fmt.Errorf("%w: %w", ErrSnapshotBuild, err)
	}

	payload, err := b.store.ReadAll(ctx)
	if err != nil {
		b.logger.Err(err).Str("func", "Build").Msg("error reading entity dataset")
		return models.BackupSnapshot{}, fmt.Errorf("%w: %w", ErrSnapshotBuild, err)
	}

	_, checksum, sizeBytes, err := Encode(payload)
	if err != nil {
		return models.BackupSnapshot{}, fmt.Errorf("%w: %w", ErrSnapshotBuild, err)
	}

	createdAt := b.now().UTC()
	snap := models.BackupSnapshot{
		ID:            NewSnapshotID(createdAt),
		DeviceID:      deviceID,
		CreatedAt:     createdAt,
		SchemaVersion: CurrentSchemaVersion,
		ParentID:      parentID,
		Payload:       payload,
		Checksum:      checksum,
		SizeBytes:     sizeBytes,
	}

	b.logger.Debug().Str("func", "Build").
		Str("snapshot_id", snap.ID).
		Int64("size_bytes", snap.SizeBytes).
		Msg("snapshot built")

	return snap, nil
}

// NewSnapshotID returns a snapshot id that sorts lexicographically by
// creation time: a fixed-width hex nanosecond timestamp followed by a
// random suffix to keep ids from concurrent devices unique.
func NewSnapshotID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%016x-%s", t.UnixNano(), suffix)
}

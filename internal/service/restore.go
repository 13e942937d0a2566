package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-study-sync/internal/adapter"
	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/snapshot"
	"github.com/MKhiriev/go-study-sync/internal/store"
	"github.com/MKhiriev/go-study-sync/models"
)

type restoreService struct {
	store  store.EntityStore
	remote adapter.RemoteStore
	status *StatusTracker
	logger *logger.Logger
}

// NewRestoreService creates the restore engine.
func NewRestoreService(entityStore store.EntityStore, remote adapter.RemoteStore, status *StatusTracker, log *logger.Logger) RestoreService {
	return &restoreService{store: entityStore, remote: remote, status: status, logger: log}
}

// Restore implements [RestoreService]. The payload checksum is
// re-verified even for snapshots that already passed decoding, since a
// snapshot may have been held in memory or assembled by a caller. The
// store swap is a single transaction; on failure the prior dataset is
// untouched.
func (r *restoreService) Restore(ctx context.Context, snap models.BackupSnapshot) error {
	if snap.SchemaVersion > snapshot.CurrentSchemaVersion {
		return fmt.Errorf("%w: snapshot %s has schema %d", snapshot.ErrUnsupportedSchemaVersion, snap.ID, snap.SchemaVersion)
	}

	_, checksum, _, err := snapshot.Encode(snap.Payload)
	if err != nil {
		return fmt.Errorf("verify snapshot %s: %w", snap.ID, err)
	}
	if checksum != snap.Checksum {
		return fmt.Errorf("%w: snapshot %s payload checksum mismatch", snapshot.ErrCorruptSnapshot, snap.ID)
	}

	if err = r.store.ReplaceAll(ctx, snap.Payload); err != nil {
		r.logger.Err(err).Str("func", "Restore").Str("snapshot_id", snap.ID).Msg("error replacing local dataset")
		return fmt.Errorf("replace local dataset: %w", err)
	}

	r.logger.Info().Str("func", "Restore").Str("snapshot_id", snap.ID).Msg("local dataset restored from snapshot")
	return nil
}

// RestoreBackup implements [RestoreService].
func (r *restoreService) RestoreBackup(ctx context.Context, id string) error {
	data, err := r.remote.GetObject(ctx, snapshotKey(id))
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("download backup %s: %w", id, err)
	}

	snap, err := snapshot.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("decode backup %s: %w", id, err)
	}

	if err = r.Restore(ctx, snap); err != nil {
		return err
	}

	// The restored dataset is a local mutation like any other: without
	// change-log entries the coordinator would see an unchanged remote
	// pointer plus an empty log and take the up-to-date fast path, so
	// the restored state would never reach other devices.
	if err = r.logRestoredEntities(ctx, snap.Payload); err != nil {
		return err
	}

	r.status.Update(func(st *models.SyncStatus) { st.NeedsSync = true })

	return nil
}

// logRestoredEntities appends a change-log entry for every entity in
// the restored payload so the next sync uploads the restored dataset.
func (r *restoreService) logRestoredEntities(ctx context.Context, payload models.Payload) error {
	for id, card := range payload.Flashcards {
		if err := r.store.AppendChange(ctx, models.EntityFlashcard, id, card.UpdatedAt); err != nil {
			return fmt.Errorf("log restored flashcard %s: %w", id, err)
		}
	}
	for id, rec := range payload.Progress {
		if err := r.store.AppendChange(ctx, models.EntityProgress, id, rec.UpdatedAt); err != nil {
			return fmt.Errorf("log restored progress %s: %w", id, err)
		}
	}
	for id, ach := range payload.Achievements {
		if err := r.store.AppendChange(ctx, models.EntityAchievement, id, ach.UpdatedAt); err != nil {
			return fmt.Errorf("log restored achievement %s: %w", id, err)
		}
	}
	for key, setting := range payload.Settings {
		if err := r.store.AppendChange(ctx, models.EntitySetting, key, setting.UpdatedAt); err != nil {
			return fmt.Errorf("log restored setting %s: %w", key, err)
		}
	}

	return nil
}

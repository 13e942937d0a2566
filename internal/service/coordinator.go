package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-study-sync/internal/adapter"
	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/merge"
	"github.com/MKhiriev/go-study-sync/internal/snapshot"
	"github.com/MKhiriev/go-study-sync/internal/store"
	"github.com/MKhiriev/go-study-sync/models"
)

const snapshotKeyPrefix = "snapshots/"

func snapshotKey(id string) string { return snapshotKeyPrefix + id }

// maxPointerRaces bounds the CAS re-merge loop. Each race means another
// device published between our pointer read and our swap; three
// consecutive losses on a small device fleet indicates something is
// wrong beyond contention.
const maxPointerRaces = 3

type syncCoordinator struct {
	store    store.EntityStore
	remote   adapter.RemoteStore
	builder  *snapshot.Builder
	resolver *merge.Resolver
	restorer RestoreService
	status   *StatusTracker
	logger   *logger.Logger

	cfg     config.Sync
	backoff func() retry.Backoff

	// syncMu is the single-flight guard: TryLock failure means a sync
	// attempt is already running.
	syncMu sync.Mutex
	now    func() time.Time
}

// NewSyncCoordinator creates the sync coordinator and seeds the shared
// status tracker from persisted state (last sync time, pending change
// log).
func NewSyncCoordinator(ctx context.Context, entityStore store.EntityStore, remote adapter.RemoteStore, restorer RestoreService, status *StatusTracker, cfg config.Sync, log *logger.Logger) (SyncService, error) {
	s := &syncCoordinator{
		store:    entityStore,
		remote:   remote,
		builder:  snapshot.NewBuilder(entityStore, log),
		resolver: merge.NewResolver(log),
		restorer: restorer,
		status:   status,
		logger:   log,
		cfg:      cfg,
		backoff:  func() retry.Backoff { return newBackoff(cfg) },
		now:      time.Now,
	}

	if err := s.seedStatus(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// newBackoff builds the transport retry policy: exponential from
// cfg.RetryBase, capped at cfg.RetryCap, at most cfg.RetryAttempts
// tries in total (the first try counts).
func newBackoff(cfg config.Sync) retry.Backoff {
	b := retry.NewExponential(cfg.RetryBase)
	b = retry.WithCappedDuration(cfg.RetryCap, b)
	if cfg.RetryAttempts > 0 {
		b = retry.WithMaxRetries(cfg.RetryAttempts-1, b)
	}
	return b
}

func (s *syncCoordinator) seedStatus(ctx context.Context) error {
	lastSyncRaw, err := s.store.GetMeta(ctx, store.MetaLastSyncAt)
	if err != nil {
		return fmt.Errorf("read last sync time: %w", err)
	}
	var lastSync time.Time
	if lastSyncRaw != "" {
		if lastSync, err = time.Parse(time.RFC3339Nano, lastSyncRaw); err != nil {
			return fmt.Errorf("parse last sync time %q: %w", lastSyncRaw, err)
		}
	}

	pending, err := s.store.PendingChanges(ctx)
	if err != nil {
		return fmt.Errorf("read pending changes: %w", err)
	}

	s.status.Update(func(st *models.SyncStatus) {
		st.LastSyncAt = lastSync
		st.NeedsSync = len(pending) > 0
	})

	return nil
}

// SyncNow implements [SyncService]. One attempt walks the full
// protocol: probe, capture the change-log watermark, build the local
// snapshot, compare pointers, upload (merging first when the remote
// advanced), swing the pointer with CAS, adopt a merged result locally,
// and only then commit the watermark and sync time.
func (s *syncCoordinator) SyncNow(ctx context.Context) (models.SyncResult, error) {
	if !s.syncMu.TryLock() {
		return models.SyncResult{Outcome: models.SyncAlreadyInProgress}, ErrSyncInProgress
	}
	defer s.syncMu.Unlock()

	s.status.Update(func(st *models.SyncStatus) { st.SyncInProgress = true })
	defer s.status.Update(func(st *models.SyncStatus) { st.SyncInProgress = false })

	if err := s.remote.Ping(ctx); err != nil {
		s.status.Update(func(st *models.SyncStatus) { st.IsOnline = false })
		s.logger.Warn().Err(err).Str("func", "SyncNow").Msg("remote store unreachable, skipping sync")
		return models.SyncResult{Outcome: models.SyncOffline}, fmt.Errorf("%w: %w", ErrOffline, err)
	}
	s.status.Update(func(st *models.SyncStatus) { st.IsOnline = true })

	pending, err := s.store.PendingChanges(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("read pending changes: %w", err)
	}
	var capturedSeq int64
	if len(pending) > 0 {
		capturedSeq = pending[len(pending)-1].Seq
	}

	lastKnown, err := s.store.GetMeta(ctx, store.MetaLastRemoteSnapshotID)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("read last known snapshot id: %w", err)
	}

	var remoteID string
	if err = s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		remoteID, err = s.remote.GetLatestPointer(ctx)
		return err
	}); err != nil {
		return models.SyncResult{}, fmt.Errorf("read latest pointer: %w", err)
	}

	// Nothing changed locally and the remote pointer still designates
	// the snapshot we already know: a successful no-op.
	if len(pending) == 0 && remoteID == lastKnown {
		if err = s.commit(ctx, capturedSeq, ""); err != nil {
			return models.SyncResult{}, err
		}
		return models.SyncResult{Outcome: models.SyncUpToDate, SnapshotID: lastKnown}, nil
	}

	local, err := s.builder.Build(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}

	outcome := models.SyncUploaded
	upload := local
	var conflicts []models.ConflictReport

	for race := 0; ; race++ {
		if remoteID != "" && remoteID != lastKnown {
			remoteSnap, err := s.fetchSnapshot(ctx, remoteID)
			if err != nil {
				return models.SyncResult{}, err
			}

			merged, newConflicts, err := s.resolver.Merge(upload, remoteSnap)
			if err != nil {
				return models.SyncResult{}, err
			}
			conflicts = append(conflicts, newConflicts...)
			if merged.ID != upload.ID {
				outcome = models.SyncMerged
			}
			upload = merged
		}

		data, err := snapshot.EncodeSnapshot(upload)
		if err != nil {
			return models.SyncResult{}, err
		}
		if err = s.withRetry(ctx, func(ctx context.Context) error {
			return s.remote.PutObject(ctx, snapshotKey(upload.ID), data)
		}); err != nil {
			return models.SyncResult{}, fmt.Errorf("upload snapshot %s: %w", upload.ID, err)
		}

		err = s.withRetry(ctx, func(ctx context.Context) error {
			return s.remote.SetLatestPointer(ctx, remoteID, upload.ID)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, adapter.ErrCASConflict) {
			return models.SyncResult{}, fmt.Errorf("publish snapshot %s: %w", upload.ID, err)
		}
		if race >= maxPointerRaces {
			return models.SyncResult{}, fmt.Errorf("publish snapshot %s: %w", upload.ID, err)
		}

		// Another device won the pointer race. Re-read and reconcile
		// against whatever it published.
		s.logger.Info().Str("func", "SyncNow").Str("snapshot_id", upload.ID).Msg("pointer moved concurrently, re-merging")
		if err = s.withRetry(ctx, func(ctx context.Context) error {
			var err error
			remoteID, err = s.remote.GetLatestPointer(ctx)
			return err
		}); err != nil {
			return models.SyncResult{}, fmt.Errorf("re-read latest pointer: %w", err)
		}
	}

	// A merged snapshot becomes the local dataset before the sync is
	// considered committed; a direct upload already matches local state.
	if outcome == models.SyncMerged {
		if err = s.restorer.Restore(ctx, upload); err != nil {
			return models.SyncResult{}, fmt.Errorf("adopt merged snapshot %s: %w", upload.ID, err)
		}
	}

	if err = s.commit(ctx, capturedSeq, upload.ID); err != nil {
		return models.SyncResult{}, err
	}

	s.logger.Info().Str("func", "SyncNow").
		Str("outcome", string(outcome)).
		Str("snapshot_id", upload.ID).
		Int("conflicts", len(conflicts)).
		Msg("sync finished")

	return models.SyncResult{Outcome: outcome, SnapshotID: upload.ID, Conflicts: len(conflicts)}, nil
}

// commit records the successful attempt: remember the published
// snapshot, drop change-log entries covered by the captured watermark,
// persist the sync time, and refresh the observable status. Mutations
// that arrived during the attempt stay in the log and keep NeedsSync
// raised.
func (s *syncCoordinator) commit(ctx context.Context, upToSeq int64, snapshotID string) error {
	if snapshotID != "" {
		if err := s.store.SetMeta(ctx, store.MetaLastRemoteSnapshotID, snapshotID); err != nil {
			return fmt.Errorf("record remote snapshot id: %w", err)
		}
	}
	if upToSeq > 0 {
		if err := s.store.ClearChanges(ctx, upToSeq); err != nil {
			return fmt.Errorf("clear change log: %w", err)
		}
	}

	now := s.now().UTC()
	if err := s.store.SetMeta(ctx, store.MetaLastSyncAt, now.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("record sync time: %w", err)
	}

	remaining, err := s.store.PendingChanges(ctx)
	if err != nil {
		return fmt.Errorf("read remaining changes: %w", err)
	}

	s.status.Update(func(st *models.SyncStatus) {
		st.LastSyncAt = now
		st.NeedsSync = len(remaining) > 0
	})

	return nil
}

func (s *syncCoordinator) fetchSnapshot(ctx context.Context, id string) (models.BackupSnapshot, error) {
	var data []byte
	if err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		data, err = s.remote.GetObject(ctx, snapshotKey(id))
		return err
	}); err != nil {
		return models.BackupSnapshot{}, fmt.Errorf("download remote snapshot %s: %w", id, err)
	}

	snap, err := snapshot.DecodeSnapshot(data)
	if err != nil {
		return models.BackupSnapshot{}, fmt.Errorf("decode remote snapshot %s: %w", id, err)
	}

	return snap, nil
}

// CreateBackup implements [SyncService]. The snapshot is uploaded as an
// ordinary object; the latest pointer and the change log are not
// touched, so a backup never masquerades as a completed sync.
func (s *syncCoordinator) CreateBackup(ctx context.Context) (models.BackupInfo, error) {
	snap, err := s.builder.Build(ctx)
	if err != nil {
		return models.BackupInfo{}, err
	}

	data, err := snapshot.EncodeSnapshot(snap)
	if err != nil {
		return models.BackupInfo{}, err
	}

	if err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.remote.PutObject(ctx, snapshotKey(snap.ID), data)
	}); err != nil {
		return models.BackupInfo{}, fmt.Errorf("upload backup %s: %w", snap.ID, err)
	}

	s.logger.Info().Str("func", "CreateBackup").Str("snapshot_id", snap.ID).Int64("size_bytes", snap.SizeBytes).Msg("manual backup uploaded")

	return models.BackupInfo{ID: snap.ID, CreatedAt: snap.CreatedAt, SizeBytes: snap.SizeBytes}, nil
}

// ListBackups implements [SyncService].
func (s *syncCoordinator) ListBackups(ctx context.Context) ([]models.BackupInfo, error) {
	var infos []adapter.ObjectInfo
	if err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		infos, err = s.remote.ListObjects(ctx, snapshotKeyPrefix)
		return err
	}); err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	backups := make([]models.BackupInfo, 0, len(infos))
	for _, info := range infos {
		backups = append(backups, models.BackupInfo{
			ID:        strings.TrimPrefix(info.Key, snapshotKeyPrefix),
			CreatedAt: info.Modified,
			SizeBytes: info.Size,
		})
	}

	// snapshot ids sort by creation time; newest first for the UI
	sort.Slice(backups, func(i, j int) bool { return backups[i].ID > backups[j].ID })

	return backups, nil
}

// withRetry runs op under the configured backoff policy, retrying only
// transient transport failures.
func (s *syncCoordinator) withRetry(ctx context.Context, op func(context.Context) error) error {
	return retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			if errors.Is(err, adapter.ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

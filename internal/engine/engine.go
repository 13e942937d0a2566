// Package engine assembles the sync stack and exposes the surface the
// study app's UI layer consumes.
//
// The facade hides the wiring order (store, transform, adapter,
// services) and the device-local bootstrap concerns: generating the
// stable device id on first run and resuming the periodic sync job if
// it was enabled before the last shutdown.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-study-sync/internal/adapter"
	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/crypto"
	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/service"
	"github.com/MKhiriev/go-study-sync/internal/store"
	"github.com/MKhiriev/go-study-sync/models"
)

// Engine is the embedding surface of the sync stack.
type Engine struct {
	cfg      *config.StructuredConfig
	store    store.EntityStore
	services *service.Services
	logger   *logger.Logger
}

// New wires the full engine: local entity store, payload transform
// (enabled when a passphrase is configured), remote-store adapter, and
// the service layer. The stable device id is generated and persisted on
// first run, and the periodic sync job is resumed if it was enabled
// when the engine last shut down.
func New(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Engine, error) {
	entityStore, err := store.NewEntityStoreFromConfig(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create entity store: %w", err)
	}

	if err = ensureDeviceID(ctx, entityStore, log); err != nil {
		return nil, err
	}

	var transform adapter.Transform
	if cfg.App.Passphrase != "" {
		if transform, err = crypto.NewSealer(cfg.App.Passphrase); err != nil {
			return nil, fmt.Errorf("create sealer: %w", err)
		}
		log.Debug().Msg("payload sealing enabled")
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, transform, log)
	if err != nil {
		return nil, fmt.Errorf("create remote store adapter: %w", err)
	}

	services, err := service.NewServices(ctx, entityStore, remote, cfg.Sync, log)
	if err != nil {
		return nil, fmt.Errorf("create services: %w", err)
	}

	eng := &Engine{cfg: cfg, store: entityStore, services: services, logger: log}

	enabled, err := entityStore.GetMeta(ctx, store.MetaPeriodicSyncEnabled)
	if err != nil {
		return nil, fmt.Errorf("read periodic sync flag: %w", err)
	}
	if enabled == "true" {
		services.Job.Start(ctx, cfg.Sync.Interval)
		log.Info().Dur("interval", cfg.Sync.Interval).Msg("periodic sync resumed")
	}

	return eng, nil
}

// ensureDeviceID generates and persists the stable per-install device
// id on first run.
func ensureDeviceID(ctx context.Context, entityStore store.EntityStore, log *logger.Logger) error {
	deviceID, err := entityStore.GetMeta(ctx, store.MetaDeviceID)
	if err != nil {
		return fmt.Errorf("read device id: %w", err)
	}
	if deviceID != "" {
		return nil
	}

	deviceID = uuid.NewString()
	if err = entityStore.SetMeta(ctx, store.MetaDeviceID, deviceID); err != nil {
		return fmt.Errorf("persist device id: %w", err)
	}
	log.Info().Str("device_id", deviceID).Msg("device id generated")

	return nil
}

// Store exposes the local entity store so the host app can read and
// mutate entities. All mutations made through it are change-logged and
// picked up by the next sync.
func (e *Engine) Store() store.EntityStore {
	return e.store
}

// GetSyncStatus returns a point-in-time copy of the sync status.
func (e *Engine) GetSyncStatus() models.SyncStatus {
	return e.services.Status.Status()
}

// Subscribe registers for status change notifications. The returned
// cancel function releases the subscription and closes the channel.
func (e *Engine) Subscribe() (<-chan models.SyncStatus, func()) {
	return e.services.Status.Subscribe()
}

// SyncNow runs one full sync cycle.
func (e *Engine) SyncNow(ctx context.Context) (models.SyncResult, error) {
	return e.services.Sync.SyncNow(ctx)
}

// CreateBackup builds and uploads a manual snapshot.
func (e *Engine) CreateBackup(ctx context.Context) (models.BackupInfo, error) {
	return e.services.Sync.CreateBackup(ctx)
}

// ListBackups lists the snapshots available on the remote store, newest
// first.
func (e *Engine) ListBackups(ctx context.Context) ([]models.BackupInfo, error) {
	return e.services.Sync.ListBackups(ctx)
}

// RestoreBackup downloads the snapshot with the given id and replaces
// the local dataset with it.
func (e *Engine) RestoreBackup(ctx context.Context, id string) error {
	return e.services.Restore.RestoreBackup(ctx, id)
}

// StartPeriodicSync starts the background sync job and persists the
// choice so the job is resumed on the next engine start.
func (e *Engine) StartPeriodicSync(ctx context.Context) error {
	e.services.Job.Start(ctx, e.cfg.Sync.Interval)

	return e.store.SetMeta(ctx, store.MetaPeriodicSyncEnabled, "true")
}

// StopPeriodicSync stops the background sync job and persists the
// choice.
func (e *Engine) StopPeriodicSync(ctx context.Context) error {
	e.services.Job.Stop()

	return e.store.SetMeta(ctx, store.MetaPeriodicSyncEnabled, "false")
}

// Close stops background work. In-flight syncs are drained before it
// returns.
func (e *Engine) Close() error {
	e.services.Job.Stop()
	e.logger.Debug().Msg("engine closed")

	return nil
}

package service

import (
	"context"

	"github.com/MKhiriev/go-study-sync/internal/adapter"
	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/store"
)

// Services bundles the engine's behavioural layer.
type Services struct {
	Status  *StatusTracker
	Sync    SyncService
	Restore RestoreService
	Job     SyncJob
}

// NewServices wires the status tracker, restore engine, sync
// coordinator, and periodic job on top of the given store and remote
// adapter.
func NewServices(ctx context.Context, entityStore store.EntityStore, remote adapter.RemoteStore, cfg config.Sync, log *logger.Logger) (*Services, error) {
	status := NewStatusTracker()
	restoreSvc := NewRestoreService(entityStore, remote, status, log)

	syncSvc, err := NewSyncCoordinator(ctx, entityStore, remote, restoreSvc, status, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		Status:  status,
		Sync:    syncSvc,
		Restore: restoreSvc,
		Job:     NewSyncJob(syncSvc, status, log),
	}, nil
}

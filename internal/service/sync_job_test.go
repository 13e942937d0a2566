package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/mock"
	"github.com/MKhiriev/go-study-sync/models"
)

func TestSyncJob_CatchUpRunImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncSvc := mock.NewMockSyncService(ctrl)
	status := NewStatusTracker() // LastSyncAt is zero: device never synced

	synced := make(chan struct{})
	syncSvc.EXPECT().SyncNow(gomock.Any()).
		DoAndReturn(func(context.Context) (models.SyncResult, error) {
			close(synced)
			return models.SyncResult{Outcome: models.SyncUpToDate}, nil
		})

	job := NewSyncJob(syncSvc, status, logger.Nop())
	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("catch-up sync did not run")
	}
}

func TestSyncJob_NoCatchUpWhenRecentlySynced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncSvc := mock.NewMockSyncService(ctrl)
	status := NewStatusTracker()
	status.Update(func(st *models.SyncStatus) { st.LastSyncAt = time.Now() })

	// no SyncNow expectation: any call would fail the test
	job := NewSyncJob(syncSvc, status, logger.Nop())
	job.Start(context.Background(), time.Hour)

	time.Sleep(50 * time.Millisecond)
	job.Stop()
}

func TestSyncJob_TicksRepeatedly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncSvc := mock.NewMockSyncService(ctrl)
	status := NewStatusTracker()
	status.Update(func(st *models.SyncStatus) { st.LastSyncAt = time.Now() })

	var calls atomic.Int64
	syncSvc.EXPECT().SyncNow(gomock.Any()).AnyTimes().
		DoAndReturn(func(context.Context) (models.SyncResult, error) {
			calls.Add(1)
			return models.SyncResult{Outcome: models.SyncUpToDate}, nil
		})

	job := NewSyncJob(syncSvc, status, logger.Nop())
	job.Start(context.Background(), 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, calls.Load(), int64(2))
}

func TestSyncJob_StopIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job := NewSyncJob(mock.NewMockSyncService(ctrl), NewStatusTracker(), logger.Nop())

	// never started
	job.Stop()
	job.Stop()
}

func TestSyncJob_StopCancelsPromptly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncSvc := mock.NewMockSyncService(ctrl)
	status := NewStatusTracker()
	status.Update(func(st *models.SyncStatus) { st.LastSyncAt = time.Now() })

	syncSvc.EXPECT().SyncNow(gomock.Any()).AnyTimes().Return(models.SyncResult{}, nil)

	job := NewSyncJob(syncSvc, status, logger.Nop())
	job.Start(context.Background(), 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestSyncJob_SwallowsExpectedErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncSvc := mock.NewMockSyncService(ctrl)
	status := NewStatusTracker() // triggers the catch-up run

	synced := make(chan struct{})
	syncSvc.EXPECT().SyncNow(gomock.Any()).
		DoAndReturn(func(context.Context) (models.SyncResult, error) {
			close(synced)
			return models.SyncResult{Outcome: models.SyncOffline}, ErrOffline
		})

	job := NewSyncJob(syncSvc, status, logger.Nop())
	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("catch-up sync did not run")
	}
}

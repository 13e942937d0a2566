package engine

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/devserver"
	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/store"
	"github.com/MKhiriev/go-study-sync/models"
)

func newDevServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(devserver.NewHandler(devserver.NewMemStore(), config.Server{}, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(baseURL, dsn, passphrase string) *config.StructuredConfig {
	return &config.StructuredConfig{
		App:     config.App{Passphrase: passphrase},
		Storage: config.Storage{DSN: dsn},
		Adapter: config.Adapter{BaseURL: baseURL, RequestTimeout: 2 * time.Second},
		Sync: config.Sync{
			Interval:      10 * time.Millisecond,
			RetryBase:     time.Millisecond,
			RetryCap:      5 * time.Millisecond,
			RetryAttempts: 3,
		},
	}
}

func newTestEngine(t *testing.T, cfg *config.StructuredConfig) *Engine {
	t.Helper()

	eng, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	return eng
}

func TestEngine_FirstRunGeneratesDeviceID(t *testing.T) {
	srv := newDevServer(t)
	eng := newTestEngine(t, testConfig(srv.URL, ":memory:", ""))

	deviceID, err := eng.Store().GetMeta(context.Background(), store.MetaDeviceID)
	require.NoError(t, err)
	assert.NotEmpty(t, deviceID)
}

func TestEngine_DeviceIDSurvivesRestart(t *testing.T) {
	srv := newDevServer(t)
	dsn := filepath.Join(t.TempDir(), "study.db")
	ctx := context.Background()

	first := newTestEngine(t, testConfig(srv.URL, dsn, ""))
	firstID, err := first.Store().GetMeta(ctx, store.MetaDeviceID)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newTestEngine(t, testConfig(srv.URL, dsn, ""))
	secondID, err := second.Store().GetMeta(ctx, store.MetaDeviceID)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)
}

func TestEngine_TwoDevicesConverge(t *testing.T) {
	srv := newDevServer(t)
	ctx := context.Background()

	deviceA := newTestEngine(t, testConfig(srv.URL, ":memory:", ""))
	deviceB := newTestEngine(t, testConfig(srv.URL, ":memory:", ""))

	now := time.Now().UTC().Truncate(time.Second)
	card := models.Flashcard{ID: "card-1", Front: "bonjour", Back: "hello", UpdatedAt: now, DeviceID: "ignored"}
	require.NoError(t, deviceA.Store().UpsertFlashcard(ctx, card))

	result, err := deviceA.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncUploaded, result.Outcome)
	assert.True(t, deviceA.GetSyncStatus().IsOnline)
	assert.False(t, deviceA.GetSyncStatus().NeedsSync)

	// the second device starts empty; pulling the remote snapshot is a
	// merge followed by local adoption
	result, err = deviceB.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncMerged, result.Outcome)

	got, err := deviceB.Store().ReadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Flashcards, "card-1")
	assert.Equal(t, "bonjour", got.Flashcards["card-1"].Front)
}

func TestEngine_SealedPayloadIsOpaqueOnTheWire(t *testing.T) {
	srv := newDevServer(t)
	ctx := context.Background()

	deviceA := newTestEngine(t, testConfig(srv.URL, ":memory:", "shared secret"))
	deviceB := newTestEngine(t, testConfig(srv.URL, ":memory:", "shared secret"))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, deviceA.Store().UpsertFlashcard(ctx, models.Flashcard{ID: "card-1", Front: "classified", UpdatedAt: now}))

	result, err := deviceA.SyncNow(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SyncUploaded, result.Outcome)

	// the stored object must not leak plaintext
	resp, err := http.Get(srv.URL + "/api/objects/snapshots/" + result.SnapshotID)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "classified")

	// a device sharing the passphrase can still open it
	_, err = deviceB.SyncNow(ctx)
	require.NoError(t, err)
	got, err := deviceB.Store().ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "classified", got.Flashcards["card-1"].Front)
}

func TestEngine_BackupAndRestoreAcrossDevices(t *testing.T) {
	srv := newDevServer(t)
	ctx := context.Background()

	deviceA := newTestEngine(t, testConfig(srv.URL, ":memory:", ""))
	deviceB := newTestEngine(t, testConfig(srv.URL, ":memory:", ""))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, deviceA.Store().UpsertFlashcard(ctx, models.Flashcard{ID: "card-1", Front: "saved", UpdatedAt: now}))

	info, err := deviceA.CreateBackup(ctx)
	require.NoError(t, err)

	backups, err := deviceB.ListBackups(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, backups)
	assert.Equal(t, info.ID, backups[0].ID)

	require.NoError(t, deviceB.RestoreBackup(ctx, info.ID))
	got, err := deviceB.Store().ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "saved", got.Flashcards["card-1"].Front)
	assert.True(t, deviceB.GetSyncStatus().NeedsSync)
}

func TestEngine_PeriodicSyncFlagPersistsAndResumes(t *testing.T) {
	srv := newDevServer(t)
	dsn := filepath.Join(t.TempDir(), "study.db")
	ctx := context.Background()

	first := newTestEngine(t, testConfig(srv.URL, dsn, ""))
	require.NoError(t, first.StartPeriodicSync(ctx))
	enabled, err := first.Store().GetMeta(ctx, store.MetaPeriodicSyncEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", enabled)
	require.NoError(t, first.Close())

	// a fresh engine on the same store resumes the job and catches up
	second := newTestEngine(t, testConfig(srv.URL, dsn, ""))
	require.Eventually(t, func() bool {
		return !second.GetSyncStatus().LastSyncAt.IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, second.StopPeriodicSync(ctx))
	enabled, err = second.Store().GetMeta(ctx, store.MetaPeriodicSyncEnabled)
	require.NoError(t, err)
	assert.Equal(t, "false", enabled)
}

func TestEngine_SubscribeSeesSyncTransitions(t *testing.T) {
	srv := newDevServer(t)
	ctx := context.Background()

	eng := newTestEngine(t, testConfig(srv.URL, ":memory:", ""))
	updates, cancel := eng.Subscribe()
	defer cancel()

	_, err := eng.SyncNow(ctx)
	require.NoError(t, err)

	sawInProgress := false
	deadline := time.After(2 * time.Second)
	for !sawInProgress {
		select {
		case st := <-updates:
			if st.SyncInProgress {
				sawInProgress = true
			}
		case <-deadline:
			t.Fatal("no in-progress status observed")
		}
	}
}

package devserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-sync/internal/adapter"
	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/logger"
)

// The adapter and the dev server implement two ends of the same wire
// contract; these tests drive one through the other.

func newTestRemoteStore(t *testing.T, cfg config.Server) adapter.RemoteStore {
	t.Helper()

	srv := httptest.NewServer(NewHandler(NewMemStore(), cfg, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	adapterCfg := config.Adapter{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}
	if cfg.SignKey != "" {
		adapterCfg.AuthToken = signTestToken(t, cfg.SignKey)
	}

	remote, err := adapter.NewHTTPRemoteStore(adapterCfg, nil, logger.Nop())
	require.NoError(t, err)

	return remote
}

func TestAdapterAgainstDevServer_Objects(t *testing.T) {
	remote := newTestRemoteStore(t, config.Server{})
	ctx := context.Background()

	require.NoError(t, remote.Ping(ctx))

	payload := []byte("snapshot payload")
	require.NoError(t, remote.PutObject(ctx, "snapshots/snap-1", payload))

	got, err := remote.GetObject(ctx, "snapshots/snap-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	info, err := remote.StatObject(ctx, "snapshots/snap-1")
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size)
	assert.WithinDuration(t, time.Now(), info.Modified, time.Minute)

	infos, err := remote.ListObjects(ctx, "snapshots/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "snapshots/snap-1", infos[0].Key)

	_, err = remote.GetObject(ctx, "snapshots/missing")
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestAdapterAgainstDevServer_PointerCAS(t *testing.T) {
	remote := newTestRemoteStore(t, config.Server{})
	ctx := context.Background()

	current, err := remote.GetLatestPointer(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)

	require.NoError(t, remote.SetLatestPointer(ctx, "", "snap-1"))

	// a second writer with the stale expectation must lose
	err = remote.SetLatestPointer(ctx, "", "snap-other")
	assert.ErrorIs(t, err, adapter.ErrCASConflict)

	current, err = remote.GetLatestPointer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", current)

	require.NoError(t, remote.SetLatestPointer(ctx, "snap-1", "snap-2"))
}

func TestAdapterAgainstDevServer_Auth(t *testing.T) {
	remote := newTestRemoteStore(t, config.Server{SignKey: "test-sign-key"})
	ctx := context.Background()

	require.NoError(t, remote.PutObject(ctx, "snapshots/snap-1", []byte("sealed")))

	got, err := remote.GetObject(ctx, "snapshots/snap-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("sealed"), got)
}

func TestAdapterAgainstDevServer_AuthRejected(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewMemStore(), config.Server{SignKey: "test-sign-key"}, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	remote, err := adapter.NewHTTPRemoteStore(config.Adapter{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}, nil, logger.Nop())
	require.NoError(t, err)

	err = remote.PutObject(context.Background(), "snapshots/snap-1", []byte("sealed"))
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}

package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/store"
)

func newTestBuilder(t *testing.T) (*Builder, store.EntityStore) {
	t.Helper()

	s, err := store.NewEntityStoreFromConfig(context.Background(), config.Storage{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	return NewBuilder(s, logger.Nop()), s
}

func TestBuilder_Build(t *testing.T) {
	b, s := newTestBuilder(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, s.SetMeta(ctx, store.MetaDeviceID, "device-a"))
	require.NoError(t, s.SetMeta(ctx, store.MetaLastRemoteSnapshotID, "0000000000000001-parent"))
	require.NoError(t, s.ReplaceAll(ctx, testPayload(now)))

	snap, err := b.Build(ctx)
	require.NoError(t, err)

	assert.Equal(t, "device-a", snap.DeviceID)
	assert.Equal(t, "0000000000000001-parent", snap.ParentID)
	assert.Equal(t, CurrentSchemaVersion, snap.SchemaVersion)
	assert.Equal(t, now, snap.CreatedAt)
	assert.Equal(t, NewSnapshotID(now)[:17], snap.ID[:17], "id prefix encodes creation time")

	_, wantChecksum, wantSize, err := Encode(snap.Payload)
	require.NoError(t, err)
	assert.Equal(t, wantChecksum, snap.Checksum)
	assert.Equal(t, wantSize, snap.SizeBytes)
	assert.Len(t, snap.Payload.Flashcards, 1)
}

func TestBuilder_Build_NoParentYet(t *testing.T) {
	b, s := newTestBuilder(t)
	ctx := context.Background()

	require.NoError(t, s.SetMeta(ctx, store.MetaDeviceID, "device-a"))

	snap, err := b.Build(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.ParentID)
	assert.Empty(t, snap.Payload.Flashcards)
}

func TestBuilder_Build_MissingDeviceID(t *testing.T) {
	b, _ := newTestBuilder(t)

	_, err := b.Build(context.Background())
	require.ErrorIs(t, err, ErrSnapshotBuild)
}

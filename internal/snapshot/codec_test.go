package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-sync/models"
)

func testPayload(now time.Time) models.Payload {
	payload := models.NewPayload()
	payload.Flashcards["card-1"] = models.Flashcard{
		ID: "card-1", Deck: "spanish", Front: "hola", Back: "hello",
		Tags: []string{"greetings"}, UpdatedAt: now, DeviceID: "device-a",
	}
	payload.Progress["card-1"] = models.ProgressRecord{
		CardID: "card-1", Repetitions: 3, IntervalDays: 2, EaseFactor: 2.5,
		DueAt: now.Add(48 * time.Hour), StreakDays: 5, TotalXP: 120,
		UpdatedAt: now, DeviceID: "device-a",
	}
	payload.Achievements["ach-1"] = models.Achievement{
		ID: "ach-1", Name: "First Steps", Progress: 40,
		UpdatedAt: now, DeviceID: "device-a",
	}
	payload.Settings["theme"] = models.Setting{
		Key: "theme", Value: "dark", UpdatedAt: now, DeviceID: "device-a",
	}
	return payload
}

func testSnapshot(t *testing.T, now time.Time) models.BackupSnapshot {
	t.Helper()

	payload := testPayload(now)
	_, checksum, sizeBytes, err := Encode(payload)
	require.NoError(t, err)

	return models.BackupSnapshot{
		ID:            NewSnapshotID(now),
		DeviceID:      "device-a",
		CreatedAt:     now,
		SchemaVersion: CurrentSchemaVersion,
		Payload:       payload,
		Checksum:      checksum,
		SizeBytes:     sizeBytes,
	}
}

func TestEncode_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// identical content inserted in a different order
	first := testPayload(now)
	second := models.NewPayload()
	second.Settings["theme"] = first.Settings["theme"]
	second.Achievements["ach-1"] = first.Achievements["ach-1"]
	second.Progress["card-1"] = first.Progress["card-1"]
	second.Flashcards["card-1"] = first.Flashcards["card-1"]

	dataA, checksumA, sizeA, err := Encode(first)
	require.NoError(t, err)
	dataB, checksumB, sizeB, err := Encode(second)
	require.NoError(t, err)

	assert.Equal(t, dataA, dataB)
	assert.Equal(t, checksumA, checksumB)
	assert.Equal(t, sizeA, sizeB)
	assert.Equal(t, int64(len(dataA)), sizeA)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	want := testPayload(now)

	data, checksum, _, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(data, checksum)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	data, checksum, _, err := Encode(testPayload(time.Now().UTC()))
	require.NoError(t, err)

	// flip one byte
	data[len(data)/2] ^= 0x01

	_, err = Decode(data, checksum)
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestEncodeDecodeSnapshot_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	want := testSnapshot(t, now)
	want.ParentID = "0000000000000001-parent"

	raw, err := EncodeSnapshot(want)
	require.NoError(t, err)

	got, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeSnapshot_RejectsStaleChecksum(t *testing.T) {
	snap := testSnapshot(t, time.Now().UTC())
	snap.Checksum = "deadbeef"

	_, err := EncodeSnapshot(snap)
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestDecodeSnapshot_TamperedPayload(t *testing.T) {
	snap := testSnapshot(t, time.Now().UTC())
	raw, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &env))
	env["payload"] = json.RawMessage(`{"flashcards":{},"progress":{},"achievements":{},"settings":{}}`)
	tampered, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = DecodeSnapshot(tampered)
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestDecodeSnapshot_NotJSON(t *testing.T) {
	_, err := DecodeSnapshot([]byte("not a snapshot"))
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestDecodeSnapshot_NewerSchemaVersion(t *testing.T) {
	snap := testSnapshot(t, time.Now().UTC())
	raw, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &env))
	env["schema_version"] = json.RawMessage(`99`)
	newer, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = DecodeSnapshot(newer)
	require.ErrorIs(t, err, ErrUnsupportedSchemaVersion)
}

// wrapEnvelope builds valid snapshot bytes around a hand-written
// payload document at the given schema version.
func wrapEnvelope(t *testing.T, schemaVersion int, payloadRaw string) []byte {
	t.Helper()

	sum := sha256.Sum256([]byte(payloadRaw))
	raw, err := json.Marshal(envelope{
		ID:            "0000000000000001-legacy",
		DeviceID:      "device-a",
		CreatedAt:     time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC),
		SchemaVersion: schemaVersion,
		Payload:       json.RawMessage(payloadRaw),
		Checksum:      hex.EncodeToString(sum[:]),
		SizeBytes:     int64(len(payloadRaw)),
	})
	require.NoError(t, err)
	return raw
}

func TestDecodeSnapshot_MigratesV2Progress(t *testing.T) {
	payloadRaw := `{"flashcards":{},"progress":{"card-1":{"card_id":"card-1","repetitions":4,"interval_days":3,"ease_factor":2.1,"due_at":"2025-11-03T09:00:00Z","streak":7,"xp":310,"updated_at":"2025-11-02T09:00:00Z","device_id":"device-a"}},"achievements":{},"settings":{}}`

	got, err := DecodeSnapshot(wrapEnvelope(t, 2, payloadRaw))
	require.NoError(t, err)

	assert.Equal(t, CurrentSchemaVersion, got.SchemaVersion)
	record := got.Payload.Progress["card-1"]
	assert.Equal(t, 7, record.StreakDays)
	assert.Equal(t, int64(310), record.TotalXP)
	assert.Equal(t, 4, record.Repetitions)

	// integrity fields must cover the migrated shape
	_, wantChecksum, wantSize, err := Encode(got.Payload)
	require.NoError(t, err)
	assert.Equal(t, wantChecksum, got.Checksum)
	assert.Equal(t, wantSize, got.SizeBytes)
}

func TestDecodeSnapshot_MigratesV1ThroughChain(t *testing.T) {
	payloadRaw := `{"flashcards":{"card-1":{"id":"card-1","deck":"spanish","front":"hola","back":"hello","updated_at":"2025-11-02T09:00:00Z","device_id":"device-a"}},"progress":{"card-1":{"card_id":"card-1","repetitions":1,"interval_days":1,"ease_factor":2.5,"due_at":"2025-11-03T09:00:00Z","streak":1,"xp":10,"updated_at":"2025-11-02T09:00:00Z","device_id":"device-a"}},"settings":{}}`

	got, err := DecodeSnapshot(wrapEnvelope(t, 1, payloadRaw))
	require.NoError(t, err)

	assert.Equal(t, CurrentSchemaVersion, got.SchemaVersion)
	assert.NotNil(t, got.Payload.Achievements)
	assert.Empty(t, got.Payload.Achievements)
	assert.Equal(t, 1, got.Payload.Progress["card-1"].StreakDays)
	assert.Equal(t, int64(10), got.Payload.Progress["card-1"].TotalXP)
	assert.Equal(t, "hola", got.Payload.Flashcards["card-1"].Front)
}

func TestNewSnapshotID_SortsByCreationTime(t *testing.T) {
	earlier := NewSnapshotID(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	later := NewSnapshotID(time.Date(2026, 3, 14, 12, 0, 1, 0, time.UTC))

	assert.Less(t, earlier, later)
	assert.Len(t, earlier, 16+1+12)
}

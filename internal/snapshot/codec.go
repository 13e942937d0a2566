// Package snapshot builds, encodes, and migrates backup snapshots of
// the local study dataset.
//
// The codec is deterministic: payload collections are maps keyed by
// entity id and encoding/json emits map keys in sorted order, so two
// independently built snapshots with identical content produce
// identical bytes and therefore identical checksums. The conflict
// resolver relies on this to short-circuit no-op merges.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-study-sync/models"
)

// CurrentSchemaVersion is the payload shape this build reads and
// writes. History:
//
//	v1 — initial shape: flashcards, progress, settings
//	v2 — added the achievements collection
//	v3 — renamed the progress aggregates (streak → streak_days,
//	     xp → total_xp)
const CurrentSchemaVersion = 3

// Encode canonically serialises payload and returns the bytes together
// with their hex SHA-256 checksum and byte length. Checksum and size
// are always produced together; nothing else in the engine sets them.
func Encode(payload models.Payload) (data []byte, checksum string, sizeBytes int64, err error) {
	data, err = json.Marshal(payload)
	if err != nil {
		return nil, "", 0, fmt.Errorf("encode payload: %w", err)
	}

	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), int64(len(data)), nil
}

// Decode parses canonical payload bytes, verifying them against
// wantChecksum first. Returns [ErrCorruptSnapshot] on mismatch or
// structural invalidity.
func Decode(data []byte, wantChecksum string) (models.Payload, error) {
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != wantChecksum {
		return models.Payload{}, fmt.Errorf("%w: payload checksum mismatch", ErrCorruptSnapshot)
	}

	var payload models.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.Payload{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	return payload, nil
}

// envelope is the wire form of a snapshot. Payload is kept as a raw
// message so the canonical payload bytes survive the round trip intact
// and can be checksummed without re-encoding.
type envelope struct {
	ID            string          `json:"id"`
	DeviceID      string          `json:"device_id"`
	CreatedAt     time.Time       `json:"created_at"`
	SchemaVersion int             `json:"schema_version"`
	ParentID      string          `json:"parent_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Checksum      string          `json:"checksum"`
	SizeBytes     int64           `json:"size_bytes"`
}

// EncodeSnapshot serialises snap for upload. The payload is
// re-canonicalised and verified against snap.Checksum first, so a
// snapshot whose checksum fields were tampered with (or never set) is
// rejected before it can reach the remote store.
func EncodeSnapshot(snap models.BackupSnapshot) ([]byte, error) {
	data, checksum, sizeBytes, err := Encode(snap.Payload)
	if err != nil {
		return nil, err
	}
	if checksum != snap.Checksum || sizeBytes != snap.SizeBytes {
		return nil, fmt.Errorf("%w: snapshot %s checksum fields do not match payload", ErrCorruptSnapshot, snap.ID)
	}

	raw, err := json.Marshal(envelope{
		ID:            snap.ID,
		DeviceID:      snap.DeviceID,
		CreatedAt:     snap.CreatedAt,
		SchemaVersion: snap.SchemaVersion,
		ParentID:      snap.ParentID,
		Payload:       data,
		Checksum:      snap.Checksum,
		SizeBytes:     snap.SizeBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot envelope: %w", err)
	}

	return raw, nil
}

// DecodeSnapshot parses downloaded snapshot bytes, verifies the payload
// checksum, and migrates older payload shapes to the current schema.
//
// A migrated snapshot keeps its identity fields but carries the
// re-encoded payload with a freshly computed checksum and size, since
// the migration transforms the bytes the original checksum covered.
//
// Returns [ErrCorruptSnapshot] on structural or checksum failure and
// [ErrUnsupportedSchemaVersion] when the snapshot was written by a
// newer build.
func DecodeSnapshot(data []byte) (models.BackupSnapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.BackupSnapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	if env.SchemaVersion > CurrentSchemaVersion {
		return models.BackupSnapshot{}, fmt.Errorf("%w: snapshot %s has schema %d, this build supports up to %d",
			ErrUnsupportedSchemaVersion, env.ID, env.SchemaVersion, CurrentSchemaVersion)
	}
	if env.SchemaVersion < 1 {
		return models.BackupSnapshot{}, fmt.Errorf("%w: snapshot %s has no schema version", ErrCorruptSnapshot, env.ID)
	}

	// The stored checksum covers the payload as it was written, so
	// verification happens before any migration touches the bytes.
	sum := sha256.Sum256(env.Payload)
	if hex.EncodeToString(sum[:]) != env.Checksum {
		return models.BackupSnapshot{}, fmt.Errorf("%w: snapshot %s payload checksum mismatch", ErrCorruptSnapshot, env.ID)
	}

	payloadRaw := []byte(env.Payload)
	checksum := env.Checksum
	sizeBytes := env.SizeBytes

	if env.SchemaVersion < CurrentSchemaVersion {
		migrated, err := migratePayload(payloadRaw, env.SchemaVersion)
		if err != nil {
			return models.BackupSnapshot{}, err
		}
		payloadRaw = migrated
	}

	var payload models.Payload
	if err := json.Unmarshal(payloadRaw, &payload); err != nil {
		return models.BackupSnapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	if env.SchemaVersion < CurrentSchemaVersion {
		// Recompute integrity fields over the migrated shape.
		_, newChecksum, newSize, err := Encode(payload)
		if err != nil {
			return models.BackupSnapshot{}, err
		}
		checksum, sizeBytes = newChecksum, newSize
	}

	return models.BackupSnapshot{
		ID:            env.ID,
		DeviceID:      env.DeviceID,
		CreatedAt:     env.CreatedAt,
		SchemaVersion: CurrentSchemaVersion,
		ParentID:      env.ParentID,
		Payload:       payload,
		Checksum:      checksum,
		SizeBytes:     sizeBytes,
	}, nil
}

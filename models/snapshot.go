package models

import "time"

// BackupSnapshot is an immutable, checksummed capture of the full local
// dataset at a point in time. Snapshots are never mutated after their
// checksum is computed; a newer snapshot supersedes an older one via
// ParentID, forming a singly-linked history per device that fans in at
// the remote store.
type BackupSnapshot struct {
	// ID is assigned at creation time and sorts lexicographically in
	// creation order (hex unix-nanos prefix + random suffix).
	ID string `json:"id"`

	// DeviceID identifies the install that produced the snapshot.
	DeviceID string `json:"device_id"`

	// CreatedAt is the capture timestamp (device clock, UTC).
	CreatedAt time.Time `json:"created_at"`

	// SchemaVersion selects the migration path on restore. Incremented
	// whenever the payload shape changes.
	SchemaVersion int `json:"schema_version"`

	// ParentID is the id of the snapshot this one was derived from (the
	// last snapshot this device successfully synced against), or empty
	// for the first snapshot of a device.
	ParentID string `json:"parent_id,omitempty"`

	// Payload holds the entity collections at capture time.
	Payload Payload `json:"payload"`

	// Checksum is the hex SHA-256 digest of the canonically encoded
	// payload. Checksum and SizeBytes are always computed together by
	// the codec and never set independently.
	Checksum string `json:"checksum"`

	// SizeBytes is the length of the canonically encoded payload.
	SizeBytes int64 `json:"size_bytes"`
}

// BackupInfo is the listing entry exposed to the UI for stored backups.
type BackupInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

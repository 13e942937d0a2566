package snapshot

import "errors"

var (
	// ErrSnapshotBuild is returned when the local entity store cannot be
	// read consistently. The sync attempt must abort without any remote
	// calls.
	ErrSnapshotBuild = errors.New("snapshot build failed")

	// ErrCorruptSnapshot is returned when snapshot bytes are structurally
	// invalid or the payload checksum does not match. Corrupt snapshots
	// are never merged or restored.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrUnsupportedSchemaVersion is returned when a snapshot was written
	// by a newer build than this one knows how to migrate. Restoring it
	// would require guessing, so the operation aborts.
	ErrUnsupportedSchemaVersion = errors.New("unsupported snapshot schema version")
)

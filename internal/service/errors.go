package service

import "errors"

var (
	// ErrOffline is returned when the connectivity probe fails; nothing
	// was attempted and local state is untouched.
	ErrOffline = errors.New("remote store unreachable")

	// ErrSyncInProgress is returned when another sync attempt holds the
	// single-flight guard.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrBackupNotFound is returned by RestoreBackup when no snapshot
	// object exists under the requested id.
	ErrBackupNotFound = errors.New("backup not found")
)

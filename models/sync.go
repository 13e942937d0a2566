package models

import "time"

// SyncStatus is the engine state observed by the UI. It has a single
// writer (the sync coordinator); observers always receive copies.
type SyncStatus struct {
	// LastSyncAt is the completion time of the last successful sync, or
	// the zero time if the device has never synced.
	LastSyncAt time.Time `json:"last_sync_at"`

	// IsOnline is the last known connectivity state.
	IsOnline bool `json:"is_online"`

	// NeedsSync is true whenever a local mutation has occurred since
	// LastSyncAt and has not yet been reflected in a successful upload.
	NeedsSync bool `json:"needs_sync"`

	// SyncInProgress is true between the start and end of one sync
	// attempt. At most one attempt runs at any time.
	SyncInProgress bool `json:"sync_in_progress"`
}

// PendingChange is one entry of the append-only local change log. The
// log drives NeedsSync and is cleared, up to the sequence captured when
// the snapshot was built, only after that snapshot syncs successfully.
type PendingChange struct {
	Seq        int64     `json:"seq"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SyncOutcome classifies how a sync attempt ended.
type SyncOutcome string

const (
	// SyncUpToDate means nothing had changed on either side; no upload
	// was performed.
	SyncUpToDate SyncOutcome = "up_to_date"

	// SyncUploaded means the local snapshot was uploaded directly; the
	// remote had not advanced.
	SyncUploaded SyncOutcome = "uploaded"

	// SyncMerged means the remote had advanced, a merge was performed,
	// and the merged snapshot was uploaded and adopted locally.
	SyncMerged SyncOutcome = "merged"

	// SyncOffline means no network was available; nothing was attempted.
	SyncOffline SyncOutcome = "offline"

	// SyncAlreadyInProgress means another sync attempt held the
	// single-flight guard; this call was a no-op.
	SyncAlreadyInProgress SyncOutcome = "already_in_progress"
)

// SyncResult summarises one completed (or skipped) sync attempt.
type SyncResult struct {
	Outcome    SyncOutcome `json:"outcome"`
	SnapshotID string      `json:"snapshot_id,omitempty"`
	Conflicts  int         `json:"conflicts"`
}

// ConflictReport records one entity id where both sides had differing
// content and neither timestamp strictly dominated. The resolver still
// picks a deterministic winner; the report only exists so the UI/log
// can surface how many items were auto-merged.
type ConflictReport struct {
	EntityType   string    `json:"entity_type"`
	EntityID     string    `json:"entity_id"`
	LocalDevice  string    `json:"local_device"`
	RemoteDevice string    `json:"remote_device"`
	UpdatedAt    time.Time `json:"updated_at"`
}

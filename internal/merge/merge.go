// Package merge reconciles two divergent snapshots into one.
//
// The policy is last-writer-wins on each entity's UpdatedAt with a
// lexical device-id tie break, tombstones treated as ordinary writes,
// and a max-wins overlay for monotonic counters so that study progress
// earned on either device is never lost to a clock race.
package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/internal/snapshot"
	"github.com/MKhiriev/go-study-sync/models"
)

// Resolver merges snapshot pairs. It is stateless apart from the clock,
// which is injectable for tests.
type Resolver struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver.
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{logger: log, now: time.Now}
}

// Merge combines local and remote into a new snapshot. The result gets
// a fresh id, the merging device's id, and the input with the later
// CreatedAt as its parent. Entities present on only one side are kept;
// entities present on both are resolved per the package policy.
//
// Exact UpdatedAt ties between different devices are resolved
// deterministically (lexically smaller device id wins) and surfaced as
// conflict reports so the caller can log or display them. Ties where
// both sides carry a tombstone resolve the same way but go unreported.
func (r *Resolver) Merge(local, remote models.BackupSnapshot) (models.BackupSnapshot, []models.ConflictReport, error) {
	// Remote is an ancestor of the local snapshot: everything it holds
	// is already reflected locally.
	if local.ParentID != "" && local.ParentID == remote.ID {
		return local, nil, nil
	}
	// Identical content encodes to identical bytes, so equal checksums
	// mean there is nothing to reconcile.
	if local.Checksum == remote.Checksum {
		return local, nil, nil
	}

	payload := models.NewPayload()
	var conflicts []models.ConflictReport

	for _, id := range unionKeys(local.Payload.Flashcards, remote.Payload.Flashcards) {
		l, haveL := local.Payload.Flashcards[id]
		m, haveR := remote.Payload.Flashcards[id]
		switch {
		case !haveR:
			payload.Flashcards[id] = l
		case !haveL:
			payload.Flashcards[id] = m
		default:
			winner, conflicted := pickWriter(l.UpdatedAt, l.DeviceID, m.UpdatedAt, m.DeviceID)
			if winner {
				payload.Flashcards[id] = l
			} else {
				payload.Flashcards[id] = m
			}
			// both sides agreeing the entity is gone is not a conflict
			if conflicted && !(l.Deleted && m.Deleted) {
				conflicts = append(conflicts, conflictReport(models.EntityFlashcard, id, l.DeviceID, m.DeviceID, l.UpdatedAt))
			}
		}
	}

	for _, id := range unionKeys(local.Payload.Progress, remote.Payload.Progress) {
		l, haveL := local.Payload.Progress[id]
		m, haveR := remote.Payload.Progress[id]
		switch {
		case !haveR:
			payload.Progress[id] = l
		case !haveL:
			payload.Progress[id] = m
		default:
			winner, conflicted := pickWriter(l.UpdatedAt, l.DeviceID, m.UpdatedAt, m.DeviceID)
			merged := m
			if winner {
				merged = l
			}
			// Monotonic counters take the max of both sides even when
			// last-writer-wins picked the side with the smaller value.
			merged.Repetitions = max(l.Repetitions, m.Repetitions)
			merged.StreakDays = max(l.StreakDays, m.StreakDays)
			merged.TotalXP = max(l.TotalXP, m.TotalXP)
			payload.Progress[id] = merged
			if conflicted && !(l.Deleted && m.Deleted) {
				conflicts = append(conflicts, conflictReport(models.EntityProgress, id, l.DeviceID, m.DeviceID, l.UpdatedAt))
			}
		}
	}

	for _, id := range unionKeys(local.Payload.Achievements, remote.Payload.Achievements) {
		l, haveL := local.Payload.Achievements[id]
		m, haveR := remote.Payload.Achievements[id]
		switch {
		case !haveR:
			payload.Achievements[id] = l
		case !haveL:
			payload.Achievements[id] = m
		default:
			winner, conflicted := pickWriter(l.UpdatedAt, l.DeviceID, m.UpdatedAt, m.DeviceID)
			merged := m
			if winner {
				merged = l
			}
			merged.Progress = max(l.Progress, m.Progress)
			// An unlock is permanent: keep the earliest unlock time seen
			// on either side.
			merged.UnlockedAt = earliestUnlock(l.UnlockedAt, m.UnlockedAt)
			payload.Achievements[id] = merged
			if conflicted && !(l.Deleted && m.Deleted) {
				conflicts = append(conflicts, conflictReport(models.EntityAchievement, id, l.DeviceID, m.DeviceID, l.UpdatedAt))
			}
		}
	}

	for _, id := range unionKeys(local.Payload.Settings, remote.Payload.Settings) {
		l, haveL := local.Payload.Settings[id]
		m, haveR := remote.Payload.Settings[id]
		switch {
		case !haveR:
			payload.Settings[id] = l
		case !haveL:
			payload.Settings[id] = m
		default:
			winner, conflicted := pickWriter(l.UpdatedAt, l.DeviceID, m.UpdatedAt, m.DeviceID)
			if winner {
				payload.Settings[id] = l
			} else {
				payload.Settings[id] = m
			}
			if conflicted && !(l.Deleted && m.Deleted) {
				conflicts = append(conflicts, conflictReport(models.EntitySetting, id, l.DeviceID, m.DeviceID, l.UpdatedAt))
			}
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].EntityType != conflicts[j].EntityType {
			return conflicts[i].EntityType < conflicts[j].EntityType
		}
		return conflicts[i].EntityID < conflicts[j].EntityID
	})

	_, checksum, sizeBytes, err := snapshot.Encode(payload)
	if err != nil {
		return models.BackupSnapshot{}, nil, fmt.Errorf("encode merged payload: %w", err)
	}

	parentID := local.ID
	if remote.CreatedAt.After(local.CreatedAt) {
		parentID = remote.ID
	}

	createdAt := r.now().UTC()
	merged := models.BackupSnapshot{
		ID:            snapshot.NewSnapshotID(createdAt),
		DeviceID:      local.DeviceID,
		CreatedAt:     createdAt,
		SchemaVersion: max(local.SchemaVersion, remote.SchemaVersion),
		ParentID:      parentID,
		Payload:       payload,
		Checksum:      checksum,
		SizeBytes:     sizeBytes,
	}

	r.logger.Debug().Str("func", "Merge").
		Str("local_id", local.ID).
		Str("remote_id", remote.ID).
		Str("merged_id", merged.ID).
		Int("conflicts", len(conflicts)).
		Msg("snapshots merged")

	return merged, conflicts, nil
}

// pickWriter reports whether the first writer wins, and whether the
// pair is an exact-tie conflict worth reporting.
func pickWriter(tA time.Time, devA string, tB time.Time, devB string) (firstWins, conflicted bool) {
	switch {
	case tA.After(tB):
		return true, false
	case tB.After(tA):
		return false, false
	default:
		return devA < devB, devA != devB
	}
}

func conflictReport(entityType, entityID, localDevice, remoteDevice string, updatedAt time.Time) models.ConflictReport {
	return models.ConflictReport{
		EntityType:   entityType,
		EntityID:     entityID,
		LocalDevice:  localDevice,
		RemoteDevice: remoteDevice,
		UpdatedAt:    updatedAt,
	}
}

func earliestUnlock(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}

// unionKeys returns the sorted union of both maps' keys. Sorted order
// keeps merge iteration (and therefore logging) deterministic.
func unionKeys[V any](a, b map[string]V) []string {
	keys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

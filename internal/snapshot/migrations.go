package snapshot

import (
	"encoding/json"
	"fmt"
)

// payloadMigration upgrades a payload document by exactly one schema
// version. Migrations operate on raw JSON so they can read fields the
// current model types no longer carry.
type payloadMigration struct {
	from  int
	apply func(doc map[string]json.RawMessage) error
}

// migrationChain is ordered by source version. Applying every entry
// from a snapshot's version onward yields the current shape.
var migrationChain = []payloadMigration{
	{from: 1, apply: migrateV1AddAchievements},
	{from: 2, apply: migrateV2RenameProgressAggregates},
}

// migratePayload upgrades raw payload bytes written at fromVersion to
// the current schema, applying each chain step in order.
func migratePayload(raw []byte, fromVersion int) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	for _, m := range migrationChain {
		if m.from < fromVersion {
			continue
		}
		if err := m.apply(doc); err != nil {
			return nil, fmt.Errorf("migrate payload from schema %d: %w", m.from, err)
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode migrated payload: %w", err)
	}

	return out, nil
}

// v1 payloads predate the achievements collection.
func migrateV1AddAchievements(doc map[string]json.RawMessage) error {
	if _, ok := doc["achievements"]; !ok {
		doc["achievements"] = json.RawMessage(`{}`)
	}
	return nil
}

// v2 progress records carried the aggregates as "streak" and "xp".
func migrateV2RenameProgressAggregates(doc map[string]json.RawMessage) error {
	raw, ok := doc["progress"]
	if !ok {
		return nil
	}

	var progress map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &progress); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	for id, record := range progress {
		if v, ok := record["streak"]; ok {
			record["streak_days"] = v
			delete(record, "streak")
		}
		if v, ok := record["xp"]; ok {
			record["total_xp"] = v
			delete(record, "xp")
		}
		progress[id] = record
	}

	out, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	doc["progress"] = out

	return nil
}

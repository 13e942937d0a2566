package models

import "time"

// Entity type labels used in change-log entries and conflict reports.
const (
	EntityFlashcard   = "flashcard"
	EntityProgress    = "progress"
	EntityAchievement = "achievement"
	EntitySetting     = "setting"
)

// Flashcard is a single study card. A card edited offline keeps its
// UpdatedAt and DeviceID from the device that made the edit; both drive
// last-writer-wins merging.
type Flashcard struct {
	ID        string    `json:"id"`
	Deck      string    `json:"deck"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Tags      []string  `json:"tags,omitempty"`
	Deleted   bool      `json:"deleted,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	DeviceID  string    `json:"device_id"`
}

// ProgressRecord tracks spaced-repetition state for one card.
// Repetitions, StreakDays and TotalXP are monotonic counters and merge
// with a max-wins policy instead of last-writer-wins.
type ProgressRecord struct {
	CardID       string    `json:"card_id"`
	Repetitions  int       `json:"repetitions"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	DueAt        time.Time `json:"due_at"`
	StreakDays   int       `json:"streak_days"`
	TotalXP      int64     `json:"total_xp"`
	Deleted      bool      `json:"deleted,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
	DeviceID     string    `json:"device_id"`
}

// Achievement is a gamification badge. Progress is a monotonic counter
// (max-wins on merge); UnlockedAt is nil until the badge is earned.
type Achievement struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Progress   int        `json:"progress"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Deleted    bool       `json:"deleted,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeviceID   string     `json:"device_id"`
}

// Setting is a single user preference entry, keyed by name.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Deleted   bool      `json:"deleted,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	DeviceID  string    `json:"device_id"`
}

// Payload is the full entity dataset captured by a snapshot. Every
// collection is a map keyed by entity id: encoding/json emits map keys
// in sorted order, which makes the canonical encoding (and therefore
// the checksum) deterministic for identical content.
//
// Deleted entities stay in the maps as tombstones (Deleted=true plus
// UpdatedAt) so that deletions propagate between devices and take part
// in last-writer-wins like any other write.
type Payload struct {
	Flashcards   map[string]Flashcard      `json:"flashcards"`
	Progress     map[string]ProgressRecord `json:"progress"`
	Achievements map[string]Achievement    `json:"achievements"`
	Settings     map[string]Setting        `json:"settings"`
}

// NewPayload returns a Payload with all collections allocated.
func NewPayload() Payload {
	return Payload{
		Flashcards:   make(map[string]Flashcard),
		Progress:     make(map[string]ProgressRecord),
		Achievements: make(map[string]Achievement),
		Settings:     make(map[string]Setting),
	}
}

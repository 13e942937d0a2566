package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-study-sync/internal/logger"
	"github.com/MKhiriev/go-study-sync/models"
)

// qb builds every store query with sqlite's `?` placeholder format.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var (
	flashcardColumns   = []string{"id", "deck", "front", "back", "tags", "deleted", "updated_at", "device_id"}
	progressColumns    = []string{"card_id", "repetitions", "interval_days", "ease_factor", "due_at", "streak_days", "total_xp", "deleted", "updated_at", "device_id"}
	achievementColumns = []string{"id", "name", "progress", "unlocked_at", "deleted", "updated_at", "device_id"}
	settingColumns     = []string{"key", "value", "deleted", "updated_at", "device_id"}
)

type entityStore struct {
	db     *DB
	logger *logger.Logger
}

// NewEntityStore wraps db in the sqlite-backed [EntityStore]
// implementation.
func NewEntityStore(db *DB, log *logger.Logger) EntityStore {
	return &entityStore{db: db, logger: log}
}

// execer is satisfied by both *sql.DB and *sql.Tx so insert helpers can
// run inside or outside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReadAll implements [EntityStore]. The four collection reads run in a
// single transaction so the snapshot builder sees one consistent state
// even while the host app keeps mutating.
func (s *entityStore) ReadAll(ctx context.Context) (models.Payload, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Payload{}, fmt.Errorf("%w: %w", ErrOpeningTransaction, err)
	}
	defer tx.Rollback()

	payload := models.NewPayload()

	if payload.Flashcards, err = s.readFlashcards(ctx, tx); err != nil {
		return models.Payload{}, err
	}
	if payload.Progress, err = s.readProgress(ctx, tx); err != nil {
		return models.Payload{}, err
	}
	if payload.Achievements, err = s.readAchievements(ctx, tx); err != nil {
		return models.Payload{}, err
	}
	if payload.Settings, err = s.readSettings(ctx, tx); err != nil {
		return models.Payload{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Payload{}, fmt.Errorf("commit read transaction: %w", err)
	}

	return payload, nil
}

// ReplaceAll implements [EntityStore]. All four collections are swapped
// inside one transaction; a failure at any point rolls back to the
// prior state.
func (s *entityStore) ReplaceAll(ctx context.Context, payload models.Payload) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpeningTransaction, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"flashcards", "progress", "achievements", "settings"} {
		query, args, buildErr := qb.Delete(table).ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}

	for _, card := range payload.Flashcards {
		if err = insertFlashcard(ctx, tx, card); err != nil {
			return err
		}
	}
	for _, rec := range payload.Progress {
		if err = insertProgress(ctx, tx, rec); err != nil {
			return err
		}
	}
	for _, ach := range payload.Achievements {
		if err = insertAchievement(ctx, tx, ach); err != nil {
			return err
		}
	}
	for _, set := range payload.Settings {
		if err = insertSetting(ctx, tx, set); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}

	s.logger.Debug().
		Int("flashcards", len(payload.Flashcards)).
		Int("progress", len(payload.Progress)).
		Int("achievements", len(payload.Achievements)).
		Int("settings", len(payload.Settings)).
		Msg("replaced local dataset")

	return nil
}

// UpsertFlashcard implements [EntityStore].
func (s *entityStore) UpsertFlashcard(ctx context.Context, card models.Flashcard) error {
	return s.upsertWithChange(ctx, models.EntityFlashcard, card.ID, card.UpdatedAt, func(tx *sql.Tx) error {
		return insertFlashcard(ctx, tx, card)
	})
}

// UpsertProgress implements [EntityStore].
func (s *entityStore) UpsertProgress(ctx context.Context, rec models.ProgressRecord) error {
	return s.upsertWithChange(ctx, models.EntityProgress, rec.CardID, rec.UpdatedAt, func(tx *sql.Tx) error {
		return insertProgress(ctx, tx, rec)
	})
}

// UpsertAchievement implements [EntityStore].
func (s *entityStore) UpsertAchievement(ctx context.Context, ach models.Achievement) error {
	return s.upsertWithChange(ctx, models.EntityAchievement, ach.ID, ach.UpdatedAt, func(tx *sql.Tx) error {
		return insertAchievement(ctx, tx, ach)
	})
}

// UpsertSetting implements [EntityStore].
func (s *entityStore) UpsertSetting(ctx context.Context, set models.Setting) error {
	return s.upsertWithChange(ctx, models.EntitySetting, set.Key, set.UpdatedAt, func(tx *sql.Tx) error {
		return insertSetting(ctx, tx, set)
	})
}

// upsertWithChange runs the entity write and the change-log append in
// one transaction, the invariant behind NeedsSync correctness.
func (s *entityStore) upsertWithChange(ctx context.Context, entityType, entityID string, updatedAt time.Time, write func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpeningTransaction, err)
	}
	defer tx.Rollback()

	if err = write(tx); err != nil {
		return err
	}
	if err = appendChange(ctx, tx, entityType, entityID, updatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendChange implements [EntityStore].
func (s *entityStore) AppendChange(ctx context.Context, entityType, entityID string, updatedAt time.Time) error {
	return appendChange(ctx, s.db, entityType, entityID, updatedAt)
}

func appendChange(ctx context.Context, run execer, entityType, entityID string, updatedAt time.Time) error {
	query, args, err := qb.Insert("pending_changes").
		Columns("entity_type", "entity_id", "updated_at").
		Values(entityType, entityID, encodeTime(updatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = run.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append change-log entry (%s/%s): %w", entityType, entityID, err)
	}
	return nil
}

// PendingChanges implements [EntityStore].
func (s *entityStore) PendingChanges(ctx context.Context) ([]models.PendingChange, error) {
	query, args, err := qb.Select("seq", "entity_type", "entity_id", "updated_at").
		From("pending_changes").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending changes: %w", err)
	}
	defer rows.Close()

	var changes []models.PendingChange
	for rows.Next() {
		var (
			change models.PendingChange
			rawAt  string
		)
		if err = rows.Scan(&change.Seq, &change.EntityType, &change.EntityID, &rawAt); err != nil {
			return nil, fmt.Errorf("scan pending change: %w", err)
		}
		if change.UpdatedAt, err = decodeTime(rawAt); err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	return changes, rows.Err()
}

// LastChangeSeq implements [EntityStore].
func (s *entityStore) LastChangeSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM pending_changes`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last change seq: %w", err)
	}
	return seq.Int64, nil
}

// ClearChanges implements [EntityStore].
func (s *entityStore) ClearChanges(ctx context.Context, upToSeq int64) error {
	query, args, err := qb.Delete("pending_changes").
		Where(sq.LtOrEq{"seq": upToSeq}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear change log up to seq %d: %w", upToSeq, err)
	}
	return nil
}

// GetMeta implements [EntityStore].
func (s *entityStore) GetMeta(ctx context.Context, key string) (string, error) {
	query, args, err := qb.Select("value").
		From("device_meta").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query device meta %q: %w", key, err)
	}
	return value, nil
}

// SetMeta implements [EntityStore].
func (s *entityStore) SetMeta(ctx context.Context, key, value string) error {
	query, args, err := qb.Insert("device_meta").
		Options("OR REPLACE").
		Columns("key", "value").
		Values(key, value).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set device meta %q: %w", key, err)
	}
	return nil
}

// ── collection readers ──────────────────────────────────────────────────────

func (s *entityStore) readFlashcards(ctx context.Context, tx *sql.Tx) (map[string]models.Flashcard, error) {
	query, args, err := qb.Select(flashcardColumns...).From("flashcards").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flashcards: %w", err)
	}
	defer rows.Close()

	cards := make(map[string]models.Flashcard)
	for rows.Next() {
		var (
			card    models.Flashcard
			rawTags string
			rawAt   string
		)
		if err = rows.Scan(&card.ID, &card.Deck, &card.Front, &card.Back, &rawTags, &card.Deleted, &rawAt, &card.DeviceID); err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		if err = json.Unmarshal([]byte(rawTags), &card.Tags); err != nil {
			return nil, fmt.Errorf("decode flashcard tags: %w", err)
		}
		if card.UpdatedAt, err = decodeTime(rawAt); err != nil {
			return nil, err
		}
		cards[card.ID] = card
	}

	return cards, rows.Err()
}

func (s *entityStore) readProgress(ctx context.Context, tx *sql.Tx) (map[string]models.ProgressRecord, error) {
	query, args, err := qb.Select(progressColumns...).From("progress").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	records := make(map[string]models.ProgressRecord)
	for rows.Next() {
		var (
			rec      models.ProgressRecord
			rawDueAt string
			rawAt    string
		)
		if err = rows.Scan(&rec.CardID, &rec.Repetitions, &rec.IntervalDays, &rec.EaseFactor, &rawDueAt, &rec.StreakDays, &rec.TotalXP, &rec.Deleted, &rawAt, &rec.DeviceID); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		if rec.DueAt, err = decodeTime(rawDueAt); err != nil {
			return nil, err
		}
		if rec.UpdatedAt, err = decodeTime(rawAt); err != nil {
			return nil, err
		}
		records[rec.CardID] = rec
	}

	return records, rows.Err()
}

func (s *entityStore) readAchievements(ctx context.Context, tx *sql.Tx) (map[string]models.Achievement, error) {
	query, args, err := qb.Select(achievementColumns...).From("achievements").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	achievements := make(map[string]models.Achievement)
	for rows.Next() {
		var (
			ach         models.Achievement
			rawUnlocked sql.NullString
			rawAt       string
		)
		if err = rows.Scan(&ach.ID, &ach.Name, &ach.Progress, &rawUnlocked, &ach.Deleted, &rawAt, &ach.DeviceID); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		if rawUnlocked.Valid && rawUnlocked.String != "" {
			unlocked, timeErr := decodeTime(rawUnlocked.String)
			if timeErr != nil {
				return nil, timeErr
			}
			ach.UnlockedAt = &unlocked
		}
		if ach.UpdatedAt, err = decodeTime(rawAt); err != nil {
			return nil, err
		}
		achievements[ach.ID] = ach
	}

	return achievements, rows.Err()
}

func (s *entityStore) readSettings(ctx context.Context, tx *sql.Tx) (map[string]models.Setting, error) {
	query, args, err := qb.Select(settingColumns...).From("settings").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]models.Setting)
	for rows.Next() {
		var (
			set   models.Setting
			rawAt string
		)
		if err = rows.Scan(&set.Key, &set.Value, &set.Deleted, &rawAt, &set.DeviceID); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		if set.UpdatedAt, err = decodeTime(rawAt); err != nil {
			return nil, err
		}
		settings[set.Key] = set
	}

	return settings, rows.Err()
}

// ── entity writers ──────────────────────────────────────────────────────────

func insertFlashcard(ctx context.Context, run execer, card models.Flashcard) error {
	tags, err := json.Marshal(card.Tags)
	if err != nil {
		return fmt.Errorf("encode flashcard tags: %w", err)
	}

	query, args, err := qb.Insert("flashcards").
		Options("OR REPLACE").
		Columns(flashcardColumns...).
		Values(card.ID, card.Deck, card.Front, card.Back, string(tags), card.Deleted, encodeTime(card.UpdatedAt), card.DeviceID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = run.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save flashcard %s: %w", card.ID, err)
	}
	return nil
}

func insertProgress(ctx context.Context, run execer, rec models.ProgressRecord) error {
	query, args, err := qb.Insert("progress").
		Options("OR REPLACE").
		Columns(progressColumns...).
		Values(rec.CardID, rec.Repetitions, rec.IntervalDays, rec.EaseFactor, encodeTime(rec.DueAt), rec.StreakDays, rec.TotalXP, rec.Deleted, encodeTime(rec.UpdatedAt), rec.DeviceID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = run.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress record %s: %w", rec.CardID, err)
	}
	return nil
}

func insertAchievement(ctx context.Context, run execer, ach models.Achievement) error {
	var unlocked any
	if ach.UnlockedAt != nil {
		unlocked = encodeTime(*ach.UnlockedAt)
	}

	query, args, err := qb.Insert("achievements").
		Options("OR REPLACE").
		Columns(achievementColumns...).
		Values(ach.ID, ach.Name, ach.Progress, unlocked, ach.Deleted, encodeTime(ach.UpdatedAt), ach.DeviceID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = run.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save achievement %s: %w", ach.ID, err)
	}
	return nil
}

func insertSetting(ctx context.Context, run execer, set models.Setting) error {
	query, args, err := qb.Insert("settings").
		Options("OR REPLACE").
		Columns(settingColumns...).
		Values(set.Key, set.Value, set.Deleted, encodeTime(set.UpdatedAt), set.DeviceID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = run.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save setting %s: %w", set.Key, err)
	}
	return nil
}

// ── timestamp codec ─────────────────────────────────────────────────────────

// Timestamps are stored as RFC3339Nano text to stay independent of the
// sqlite driver's datetime conversion rules.

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp: %w", err)
	}
	return ts, nil
}

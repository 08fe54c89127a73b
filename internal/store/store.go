// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/verte-zerg/flashmash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when a lookup matches no session.
var ErrNotFound = errors.New("session not found")

// Store wraps SQLite access for session data.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// InsertSession stores a completed session and its card results. A UUID is
// generated when stats.UUID is empty.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, results []model.CardResult) (id int64, err error) {
	if stats.UUID == "" {
		stats.UUID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := sq.Insert("sessions").
		Columns("uuid", "started_at", "ended_at", "deck", "deck_path", "cards", "correct",
			"duration_ms", "start_interval_ms", "final_interval_ms").
		Values(
			stats.UUID,
			formatTime(stats.StartedAt),
			formatTime(stats.EndedAt),
			stats.Deck,
			stats.DeckPath,
			stats.Cards,
			stats.Correct,
			stats.DurationMs,
			stats.StartInterval.Milliseconds(),
			stats.FinalInterval.Milliseconds(),
		).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(results) > 0 {
		insert := sq.Insert("session_card_results").
			Columns("session_id", "position", "prompt", "answer", "chosen", "correct", "stop_source", "interval_ms")
		for _, r := range results {
			insert = insert.Values(id, r.Position, r.Prompt, r.Answer, r.Chosen, r.Correct, string(r.Trigger), r.Interval.Milliseconds())
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert card results: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	s.logger.Debug("session saved", "id", id, "uuid", stats.UUID, "deck", stats.Deck, "cards", len(results))
	return id, nil
}

// GetSession loads a session by UUID along with its card results in order.
func (s *Store) GetSession(ctx context.Context, id string) (model.SessionStats, []model.CardResult, error) {
	query, args, err := sq.Select("id", "uuid", "started_at", "ended_at", "deck", "deck_path", "cards", "correct",
		"duration_ms", "start_interval_ms", "final_interval_ms").
		From("sessions").
		Where(sq.Eq{"uuid": id}).
		ToSql()
	if err != nil {
		return model.SessionStats{}, nil, err
	}
	var (
		rowID            int64
		stats            model.SessionStats
		started, ended   string
		startMs, finalMs int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rowID, &stats.UUID, &started, &ended, &stats.Deck,
		&stats.DeckPath, &stats.Cards, &stats.Correct, &stats.DurationMs, &startMs, &finalMs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionStats{}, nil, ErrNotFound
	}
	if err != nil {
		return model.SessionStats{}, nil, err
	}
	if stats.StartedAt, err = parseTime(started); err != nil {
		return model.SessionStats{}, nil, err
	}
	if stats.EndedAt, err = parseTime(ended); err != nil {
		return model.SessionStats{}, nil, err
	}
	stats.StartInterval = time.Duration(startMs) * time.Millisecond
	stats.FinalInterval = time.Duration(finalMs) * time.Millisecond

	query, args, err = sq.Select("position", "prompt", "answer", "chosen", "correct", "stop_source", "interval_ms").
		From("session_card_results").
		Where(sq.Eq{"session_id": rowID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return model.SessionStats{}, nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return model.SessionStats{}, nil, err
	}
	defer rows.Close()

	var results []model.CardResult
	for rows.Next() {
		var r model.CardResult
		var trigger string
		var intervalMs int64
		if err := rows.Scan(&r.Position, &r.Prompt, &r.Answer, &r.Chosen, &r.Correct, &trigger, &intervalMs); err != nil {
			return model.SessionStats{}, nil, err
		}
		r.Trigger = model.Trigger(trigger)
		r.Interval = time.Duration(intervalMs) * time.Millisecond
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return model.SessionStats{}, nil, err
	}
	return stats, results, nil
}

// GetWeakCards aggregates card results over the most recent sessions of deck.
// An empty deck matches every deck.
func (s *Store) GetWeakCards(ctx context.Context, window int, deck string) ([]model.CardAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	builder := sq.Select("id").From("sessions").OrderBy("ended_at DESC").Limit(uint64(window))
	if deck != "" {
		builder = builder.Where(sq.Eq{"deck": deck})
	}
	ids, err := s.queryIDs(ctx, builder)
	if err != nil {
		return nil, err
	}
	return s.ListCardAggregatesForSessions(ctx, ids)
}

// DeckAccuracy returns correct and total card counts across every session of deck.
func (s *Store) DeckAccuracy(ctx context.Context, deck string) (correct, cards int, err error) {
	query, args, err := sq.Select("COALESCE(SUM(correct), 0)", "COALESCE(SUM(cards), 0)").
		From("sessions").
		Where(sq.Eq{"deck": deck}).
		ToSql()
	if err != nil {
		return 0, 0, err
	}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&correct, &cards)
	return correct, cards, err
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	builder := sq.Select("id", "ended_at", "cards", "correct", "duration_ms", "final_interval_ms").
		From("sessions").
		OrderBy("ended_at ASC")
	if cfg.Deck != "" {
		builder = builder.Where(sq.Eq{"deck": cfg.Deck})
	}
	if cfg.Since != nil {
		builder = builder.Where(sq.GtOrEq{"ended_at": formatTime(*cfg.Since)})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var finalMs int64
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Cards, &agg.Correct, &agg.DurationMs, &finalMs); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		agg.FinalInterval = time.Duration(finalMs) * time.Millisecond
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListDecks returns the distinct deck names with stored sessions.
func (s *Store) ListDecks(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("DISTINCT deck").From("sessions").OrderBy("deck").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []string
	for rows.Next() {
		var deck string
		if err := rows.Scan(&deck); err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, rows.Err()
}

// ListCardAggregatesForSessions aggregates card results across sessions.
func (s *Store) ListCardAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CardAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	query, args, err := sq.Select(
		"prompt",
		"SUM(CASE WHEN correct THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN correct THEN 0 ELSE 1 END)",
		"SUM(interval_ms)",
	).
		From("session_card_results").
		Where(sq.Eq{"session_id": sessionIDs}).
		GroupBy("prompt").
		OrderBy("prompt").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CardAggregate
	for rows.Next() {
		var agg model.CardAggregate
		if err := rows.Scan(&agg.Prompt, &agg.Correct, &agg.Incorrect, &agg.IntervalSumMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCardStatsForSessions returns per-session aggregates for the selected prompts.
func (s *Store) ListCardStatsForSessions(ctx context.Context, sessionIDs []int64, prompts []string) (map[int64]map[string]model.CardAggregate, error) {
	result := map[int64]map[string]model.CardAggregate{}
	if len(sessionIDs) == 0 || len(prompts) == 0 {
		return result, nil
	}
	query, args, err := sq.Select(
		"session_id",
		"prompt",
		"SUM(CASE WHEN correct THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN correct THEN 0 ELSE 1 END)",
		"SUM(interval_ms)",
	).
		From("session_card_results").
		Where(sq.Eq{"session_id": sessionIDs, "prompt": prompts}).
		GroupBy("session_id", "prompt").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID int64
		var agg model.CardAggregate
		if err := rows.Scan(&sessionID, &agg.Prompt, &agg.Correct, &agg.Incorrect, &agg.IntervalSumMs); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.CardAggregate{}
		}
		result[sessionID][agg.Prompt] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) queryIDs(ctx context.Context, builder sq.SelectBuilder) ([]int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// storedTime is fixed width so stored timestamps sort lexically.
const storedTime = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTime)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored time %q: %w", value, err)
	}
	return t, nil
}

/*
Package sqlite provides a SQLite-backed implementation of generic.RateStore.

PURPOSE:
  Persists the base-rate reference table so a refreshed schedule survives
  restarts. Only reference data lives here; computation results are never
  stored.

KEY TABLES:
  base_rates:         effective_date -> base_rate (decimal as TEXT)
  schedule_refreshes: one row per ReplaceSchedule call

REPLACE SEMANTICS:
  ReplaceSchedule deletes and reinserts every row inside one SQL
  transaction, so readers never see a half-written table.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/rates.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  schedule, err := store.LoadSchedule(ctx)

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/generic"
)

// timestampLayout is fixed width so created_at sorts as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements generic.RateStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.RateStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS base_rates (
		effective_date TEXT PRIMARY KEY,
		base_rate TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedule_refreshes (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		entry_count INTEGER NOT NULL,
		latest_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_refreshes_created
		ON schedule_refreshes(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RATE SCHEDULE
// =============================================================================

// LoadSchedule returns all stored rates. An empty table yields an empty
// schedule and no error so callers can seed it.
func (s *Store) LoadSchedule(ctx context.Context) (generic.RateSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT effective_date, base_rate
		FROM base_rates
		ORDER BY effective_date ASC
	`)
	if err != nil {
		return generic.RateSchedule{}, fmt.Errorf("failed to query base rates: %w", err)
	}
	defer rows.Close()

	var entries []generic.RateEntry
	for rows.Next() {
		var dateStr, rateStr string
		if err := rows.Scan(&dateStr, &rateStr); err != nil {
			return generic.RateSchedule{}, fmt.Errorf("failed to scan base rate: %w", err)
		}
		d, err := generic.ParseDate(dateStr)
		if err != nil {
			return generic.RateSchedule{}, fmt.Errorf("corrupt effective_date %q: %w", dateStr, err)
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return generic.RateSchedule{}, fmt.Errorf("corrupt base_rate %q: %w", rateStr, err)
		}
		entries = append(entries, generic.RateEntry{EffectiveDate: d, BaseRate: rate})
	}
	if err := rows.Err(); err != nil {
		return generic.RateSchedule{}, err
	}

	if len(entries) == 0 {
		return generic.RateSchedule{}, nil
	}
	return generic.NewRateSchedule(entries...)
}

// ReplaceSchedule swaps the whole table atomically and logs the refresh.
func (s *Store) ReplaceSchedule(ctx context.Context, schedule generic.RateSchedule, refresh generic.ScheduleRefresh) error {
	if schedule.Len() == 0 {
		return fmt.Errorf("%w: refusing to store an empty schedule", generic.ErrInvalidSchedule)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM base_rates`); err != nil {
		return fmt.Errorf("failed to clear base rates: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx, `INSERT INTO base_rates (effective_date, base_rate) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range schedule.Entries() {
		if _, err := stmt.ExecContext(ctx, e.EffectiveDate.String(), e.BaseRate.String()); err != nil {
			return fmt.Errorf("failed to insert base rate %s: %w", e.EffectiveDate, err)
		}
	}

	createdAt := refresh.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var latest any
	if !refresh.Latest.IsZero() {
		latest = refresh.Latest.String()
	}
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO schedule_refreshes (id, source, entry_count, latest_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, refresh.ID, refresh.Source, refresh.EntryCount, latest, createdAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record refresh: %w", err)
	}

	return sqlTx.Commit()
}

// ListRefreshes returns refreshes, newest first.
func (s *Store) ListRefreshes(ctx context.Context) ([]generic.ScheduleRefresh, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, entry_count, latest_date, created_at
		FROM schedule_refreshes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query refreshes: %w", err)
	}
	defer rows.Close()

	var refreshes []generic.ScheduleRefresh
	for rows.Next() {
		var r generic.ScheduleRefresh
		var latest sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.EntryCount, &latest, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan refresh: %w", err)
		}
		if latest.Valid {
			r.Latest, _ = generic.ParseDate(latest.String)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		refreshes = append(refreshes, r)
	}
	return refreshes, rows.Err()
}

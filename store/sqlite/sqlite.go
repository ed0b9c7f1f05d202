/*
Package sqlite provides SQLite-backed persistence for rating
configuration snapshots and computed quotes.

PURPOSE:
  Two concerns live here, both deliberately outside the rating core:

  1. Configuration snapshots: versioned copies of the raw rate filing
     (JSON) and factor spreadsheet (CSV). A reload reads the latest
     snapshot, rebuilds the engine through the factory, and swaps it in.
     The engine itself never touches the database.

  2. Quotes: every computed premium with its request and full trace,
     append-only. This is the audit surface - a quote row is never
     updated or deleted.

  Policies themselves are NOT persisted here; this system rates, it
  does not administer policies.

KEY TABLES:
  rating_configs: Versioned raw configuration documents
  quotes:         Immutable computed quotes with traces

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements exist for the quotes table.

WAL MODE:
  Opened with WAL so concurrent quote reads don't block writes.

USAGE:
  store, err := sqlite.New("./data/rating.db")   // ":memory:" for tests
  defer store.Close()

SEE ALSO:
  - factory: Rebuilds engines from the stored documents
  - api/handlers.go: Persists each quote it computes
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Sentinel errors for callers to classify with errors.Is.
var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrNoConfig      = errors.New("no rating configuration stored")
)

// ConfigRecord is one versioned configuration snapshot.
type ConfigRecord struct {
	Version    int
	RatesJSON  []byte
	FactorsCSV []byte
	CreatedAt  time.Time
}

// QuoteRecord is one persisted quote. RequestJSON and ResultJSON are the
// API-level documents, stored verbatim so the audit trail reproduces
// exactly what the caller saw.
type QuoteRecord struct {
	ID          string
	CreatedAt   time.Time
	RequestJSON []byte
	ResultJSON  []byte
	Total       int64
}

// Store implements configuration and quote persistence over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rating_configs (
		version     INTEGER PRIMARY KEY AUTOINCREMENT,
		rates_json  TEXT NOT NULL,
		factors_csv TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS quotes (
		id           TEXT PRIMARY KEY,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		request_json TEXT NOT NULL,
		result_json  TEXT NOT NULL,
		total        INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONFIGURATION SNAPSHOTS
// =============================================================================

// SaveConfig stores a new configuration snapshot and returns its version.
func (s *Store) SaveConfig(ctx context.Context, ratesJSON, factorsCSV []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rating_configs (rates_json, factors_csv) VALUES (?, ?)`,
		string(ratesJSON), string(factorsCSV))
	if err != nil {
		return 0, fmt.Errorf("failed to save config: %w", err)
	}
	version, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(version), nil
}

// LatestConfig returns the most recent configuration snapshot.
func (s *Store) LatestConfig(ctx context.Context) (*ConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT version, rates_json, factors_csv, created_at
		 FROM rating_configs ORDER BY version DESC LIMIT 1`)

	var rec ConfigRecord
	var rates, factors string
	if err := row.Scan(&rec.Version, &rates, &factors, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	rec.RatesJSON = []byte(rates)
	rec.FactorsCSV = []byte(factors)
	return &rec, nil
}

// =============================================================================
// QUOTES - Append-only audit trail
// =============================================================================

// SaveQuote appends a computed quote. IDs are caller-assigned and unique.
func (s *Store) SaveQuote(ctx context.Context, q QuoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (id, request_json, result_json, total) VALUES (?, ?, ?, ?)`,
		q.ID, string(q.RequestJSON), string(q.ResultJSON), q.Total)
	if err != nil {
		return fmt.Errorf("failed to save quote %s: %w", q.ID, err)
	}
	return nil
}

// GetQuote fetches one quote by ID.
func (s *Store) GetQuote(ctx context.Context, id string) (*QuoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, request_json, result_json, total FROM quotes WHERE id = ?`, id)

	var q QuoteRecord
	var req, res string
	if err := row.Scan(&q.ID, &q.CreatedAt, &req, &res, &q.Total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
		}
		return nil, fmt.Errorf("failed to load quote %s: %w", id, err)
	}
	q.RequestJSON = []byte(req)
	q.ResultJSON = []byte(res)
	return &q, nil
}

// ListQuotes returns up to limit quotes, newest first.
func (s *Store) ListQuotes(ctx context.Context, limit int) ([]QuoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, request_json, result_json, total
		 FROM quotes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var out []QuoteRecord
	for rows.Next() {
		var q QuoteRecord
		var req, res string
		if err := rows.Scan(&q.ID, &q.CreatedAt, &req, &res, &q.Total); err != nil {
			return nil, err
		}
		q.RequestJSON = []byte(req)
		q.ResultJSON = []byte(res)
		out = append(out, q)
	}
	return out, rows.Err()
}

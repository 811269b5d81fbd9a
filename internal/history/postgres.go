package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// PostgresStore keeps the archive in a shared Postgres database, so CI runs
// from many machines append to one history.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		commit_hash TEXT,
		results JSONB NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *PostgresStore) Save(run Run) error {
	payload, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO runs (created_at, commit_hash, results) VALUES ($1, $2, $3)",
		run.Timestamp.UTC(), run.Commit, string(payload),
	)
	return err
}

func (s *PostgresStore) LoadAll() ([]Run, error) {
	rows, err := s.db.Query("SELECT created_at, commit_hash, results FROM runs ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

func (s *PostgresStore) LoadLatest() (*Run, error) {
	rows, err := s.db.Query("SELECT created_at, commit_hash, results FROM runs ORDER BY created_at DESC, id DESC LIMIT 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

// scanRuns decodes archive rows shared by the SQL-backed stores. created_at
// may arrive as a string (SQLite) or a time.Time (Postgres).
func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			createdAt any
			commit    sql.NullString
			payload   []byte
		)
		if err := rows.Scan(&createdAt, &commit, &payload); err != nil {
			return nil, err
		}

		var run Run
		switch v := createdAt.(type) {
		case time.Time:
			run.Timestamp = v
		case string:
			ts, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("bad created_at %q: %w", v, err)
			}
			run.Timestamp = ts
		case []byte:
			ts, err := time.Parse(time.RFC3339Nano, string(v))
			if err != nil {
				return nil, fmt.Errorf("bad created_at %q: %w", v, err)
			}
			run.Timestamp = ts
		default:
			return nil, fmt.Errorf("unexpected created_at type %T", v)
		}
		run.Commit = commit.String

		if err := json.Unmarshal(payload, &run.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

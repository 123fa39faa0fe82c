package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"route-optimizer-mcp/internal/domain"
)

// PostgresStore persists sessions as JSONB rows. It implements the same
// SessionStore port as FileStore and is selected when DATABASE_URL is set.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// InitSchema creates the session tables. The active_session table is a
// single-row pointer, mirroring the file store's pointer file.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSessionsQuery := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createActiveQuery := `
	CREATE TABLE IF NOT EXISTS active_session (
		singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		session_id TEXT NOT NULL
	);
	`

	for i, stmt := range []string{createSessionsQuery, createActiveQuery} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	var raw []byte
	q := `SELECT data FROM sessions WHERE id = $1;`
	if err := s.DB.QueryRowContext(ctx, q, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session %q: %w", id, err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("load session %q: parse json: %w", id, err)
	}
	return &session, nil
}

func (s *PostgresStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("save session: missing id")
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("save session %q: encode json: %w", session.ID, err)
	}

	q := `
	INSERT INTO sessions (id, data, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (id) DO UPDATE
	SET data = EXCLUDED.data,
		updated_at = now();
	`
	if _, err := s.DB.ExecContext(ctx, q, session.ID, raw); err != nil {
		return fmt.Errorf("save session %q: %w", session.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*domain.Session, error) {
	q := `SELECT data FROM sessions ORDER BY updated_at DESC;`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*domain.Session{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list sessions: scan row: %w", err)
		}
		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("list sessions: parse json: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: row iteration: %w", err)
	}
	return sessions, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) SetActive(ctx context.Context, id string) error {
	q := `
	INSERT INTO active_session (singleton, session_id)
	VALUES (TRUE, $1)
	ON CONFLICT (singleton) DO UPDATE
	SET session_id = EXCLUDED.session_id;
	`
	if _, err := s.DB.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("set active session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetActive(ctx context.Context) (*domain.Session, error) {
	var id string
	q := `SELECT session_id FROM active_session WHERE singleton;`
	if err := s.DB.QueryRowContext(ctx, q).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return s.Load(ctx, id)
}

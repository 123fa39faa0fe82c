package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the Postgres session store. The pool is kept small: the
// embedding protocol is single-request-at-a-time, so concurrency never
// exceeds a handful of housekeeping queries.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

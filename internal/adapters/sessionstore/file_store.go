// Package sessionstore provides the SessionStore port backends: a JSON
// file store (one file per session plus an active-session pointer file)
// and a Postgres store for multi-host deployments.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"route-optimizer-mcp/internal/domain"
)

const activePointerFile = "active_session.json"

// FileStore persists sessions as pretty-printed JSON files in one
// directory. Files are read-then-written whole on each operation; there is
// no locking. Concurrent writers on the same session are an accepted
// limitation of the single-process usage model.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("session store: dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session store: create dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Load reads one session; a missing file yields (nil, nil).
func (s *FileStore) Load(_ context.Context, id string) (*domain.Session, error) {
	raw, err := os.ReadFile(s.sessionPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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

func (s *FileStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("save session: missing id")
	}

	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("save session %q: encode json: %w", session.ID, err)
	}
	if err := os.WriteFile(s.sessionPath(session.ID), raw, 0o644); err != nil {
		return fmt.Errorf("save session %q: %w", session.ID, err)
	}
	return nil
}

func (s *FileStore) ListAll(ctx context.Context) ([]*domain.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == activePointerFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		session, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if session != nil {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(s.sessionPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

type activePointer struct {
	SessionID string `json:"session_id"`
}

// SetActive records id as the process-wide active session.
func (s *FileStore) SetActive(_ context.Context, id string) error {
	raw, err := json.Marshal(activePointer{SessionID: id})
	if err != nil {
		return fmt.Errorf("set active session: encode json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, activePointerFile), raw, 0o644); err != nil {
		return fmt.Errorf("set active session: %w", err)
	}
	return nil
}

// GetActive resolves the active-session pointer; a missing pointer or a
// pointer at a deleted session yields (nil, nil).
func (s *FileStore) GetActive(ctx context.Context) (*domain.Session, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, activePointerFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}

	var ptr activePointer
	if err := json.Unmarshal(raw, &ptr); err != nil {
		return nil, fmt.Errorf("get active session: parse pointer: %w", err)
	}
	if ptr.SessionID == "" {
		return nil, nil
	}
	return s.Load(ctx, ptr.SessionID)
}

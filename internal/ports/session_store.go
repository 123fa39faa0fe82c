package ports

import (
	"context"

	"route-optimizer-mcp/internal/domain"
)

// SessionStore is the persistence boundary for project sessions plus the
// process-wide "active session" pointer. Load and GetActive return
// (nil, nil) when nothing is stored; callers decide whether that is an
// error. No locking is provided: the design assumes a single-client,
// single-process usage pattern.
type SessionStore interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	ListAll(ctx context.Context) ([]*domain.Session, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string) error
	GetActive(ctx context.Context) (*domain.Session, error)
}

package repository

import (
	"context"

	"github.com/nvalden/arsenal/internal/domain"
)

// Session defines the interface for game session persistence
type Session interface {
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	CreateSession(ctx context.Context, session *domain.Session) (string, error)
}

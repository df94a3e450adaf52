package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

// SessionRepository implements repository.Session for PostgreSQL
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(pool *pgxpool.Pool) repository.Session {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `session_id, session_name, active_loadout_text, backpack_text, migrated_at, created_at, updated_at`

// GetSession retrieves one session by id
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE session_id = $1`, id).
		Scan(&s.ID, &s.Name, &s.ActiveLoadoutText, &s.BackpackText, &s.MigratedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// ListSessions retrieves every session, oldest first
func (r *SessionRepository) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.ActiveLoadoutText, &s.BackpackText, &s.MigratedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// CreateSession inserts a new session and returns its generated id
func (r *SessionRepository) CreateSession(ctx context.Context, session *domain.Session) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (session_name, active_loadout_text, backpack_text)
		 VALUES ($1, $2, $3)
		 RETURNING session_id`,
		session.Name, session.ActiveLoadoutText, session.BackpackText).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

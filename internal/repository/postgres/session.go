package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

// SessionRepo reads sessions issued by the platform. It never writes them.
type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	query := `SELECT user_id, expires_at FROM sessions WHERE token = $1`

	var s domain.Session
	err := r.db.Pool.QueryRow(ctx, query, token).Scan(&s.UserID, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.Expired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	return &s, nil
}

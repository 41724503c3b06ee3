package repository

import (
	"context"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	// Search - pre-filter по name/email/github/bio, без ранжирования
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
}

type NoteRepository interface {
	// Search returns at most limit notes visible to viewerID (public ones plus
	// the viewer's own) whose title, content, category or technology contains query.
	Search(ctx context.Context, viewerID int64, query string, limit int) ([]domain.Note, error)
}

type SessionRepository interface {
	// GetSession returns ErrSessionExpired for sessions past expires_at.
	GetSession(ctx context.Context, token string) (*domain.Session, error)
}

type HistoryRepository interface {
	// Record inserts the query or refreshes created_at of an existing row,
	// then keeps only the newest keep rows for the user.
	Record(ctx context.Context, userID int64, query string, keep int) (*domain.HistoryEntry, error)
	List(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error)
	Delete(ctx context.Context, userID, entryID int64) error
	Clear(ctx context.Context, userID int64) (int64, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, github, bio, avatar, telegram_id, created_at`

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}
	return user, nil
}

func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	sqlQuery := `
        SELECT ` + userColumns + `
        FROM users
        WHERE name ILIKE $1 ESCAPE '\'
           OR email ILIKE $1 ESCAPE '\'
           OR github ILIKE $1 ESCAPE '\'
           OR bio ILIKE $1 ESCAPE '\'
        ORDER BY id
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, sqlQuery, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var telegramID *int64
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.GitHub,
		&u.Bio,
		&u.Avatar,
		&telegramID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if telegramID != nil {
		u.TelegramID = *telegramID
	}
	return &u, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Record(ctx context.Context, userID int64, query string, keep int) (*domain.HistoryEntry, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// повторный запрос только обновляет created_at
	upsert := `
        INSERT INTO search_history (user_id, query, created_at)
        VALUES ($1, $2, clock_timestamp())
        ON CONFLICT (user_id, query) DO UPDATE SET created_at = clock_timestamp()
        RETURNING id, user_id, query, created_at
    `

	var e domain.HistoryEntry
	err = tx.QueryRow(ctx, upsert, userID, query).Scan(&e.ID, &e.UserID, &e.Query, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert history: %w", err)
	}

	if keep > 0 {
		prune := `
            DELETE FROM search_history
            WHERE user_id = $1
              AND id NOT IN (
                  SELECT id FROM search_history
                  WHERE user_id = $1
                  ORDER BY created_at DESC, id DESC
                  LIMIT $2
              )
        `
		if _, err = tx.Exec(ctx, prune, userID, keep); err != nil {
			return nil, fmt.Errorf("prune history: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &e, nil
}

func (r *HistoryRepo) List(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error) {
	query := `
        SELECT id, user_id, query, created_at
        FROM search_history
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

func (r *HistoryRepo) Delete(ctx context.Context, userID, entryID int64) error {
	query := `DELETE FROM search_history WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrHistoryNotFound
	}

	return nil
}

func (r *HistoryRepo) Clear(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM search_history WHERE user_id = $1`

	result, err := r.db.Pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanHistory(rows pgx.Rows) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

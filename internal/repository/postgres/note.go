package postgres

import (
	"context"
	"fmt"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type NoteRepo struct {
	db *DB
}

func NewNoteRepo(db *DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) Search(ctx context.Context, viewerID int64, query string, limit int) ([]domain.Note, error) {
	sqlQuery := `
        SELECT n.id, n.author_id, u.name, n.title, n.content, n.category, n.technology,
               n.is_public, n.created_at, n.updated_at
        FROM notes n
        JOIN users u ON u.id = n.author_id
        WHERE (n.is_public = TRUE OR n.author_id = $1)
          AND (n.title ILIKE $2 ESCAPE '\'
               OR n.content ILIKE $2 ESCAPE '\'
               OR n.category ILIKE $2 ESCAPE '\'
               OR n.technology ILIKE $2 ESCAPE '\')
        ORDER BY n.updated_at DESC, n.id DESC
        LIMIT $3
    `

	rows, err := r.db.Pool.Query(ctx, sqlQuery, viewerID, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		err := rows.Scan(
			&n.ID,
			&n.AuthorID,
			&n.AuthorName,
			&n.Title,
			&n.Content,
			&n.Category,
			&n.Technology,
			&n.IsPublic,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return notes, nil
}

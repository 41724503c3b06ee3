package domain

import "time"

// Note - заметка пользователя в том виде, в котором её видит поиск
type Note struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Title      string
	Content    string
	Category   string
	Technology string
	IsPublic   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

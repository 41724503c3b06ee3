package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxHistoryQueryLength = 200
	MaxHistoryEntries     = 20
	DefaultHistoryLimit   = 10
)

type HistoryEntry struct {
	ID        int64
	UserID    int64
	Query     string
	CreatedAt time.Time
}

// NormalizeHistoryQuery - тот же trim, что и для поиска, плюс обрезка до 200 символов
func NormalizeHistoryQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrEmptyQuery
	}
	if utf8.RuneCountInString(q) < MinQueryLength {
		return "", ErrQueryTooShort
	}
	if utf8.RuneCountInString(q) > MaxHistoryQueryLength {
		q = strings.TrimSpace(string([]rune(q)[:MaxHistoryQueryLength]))
	}
	return q, nil
}

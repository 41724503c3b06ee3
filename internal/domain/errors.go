package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

var (
	ErrEmptyQuery        = errors.New("empty query")
	ErrQueryTooShort     = errors.New("query too short")
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrAllSourcesFailed  = errors.New("all sources failed")
	ErrSourceTimeout     = errors.New("source timed out")
)

var (
	ErrHistoryNotFound = errors.New("history entry not found")
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
)

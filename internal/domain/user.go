package domain

import "time"

type User struct {
	ID         int64
	Name       string
	Email      string
	GitHub     string
	Bio        string
	Avatar     string
	TelegramID int64
	CreatedAt  time.Time
}

// Session - сессия, выданная платформой
type Session struct {
	UserID    int64
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

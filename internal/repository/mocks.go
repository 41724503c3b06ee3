package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type MockUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*domain.User // key: ID

	Err   error
	Delay time.Duration

	SearchCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[int64]*domain.User),
	}
}

func (m *MockUserRepository) Add(users ...domain.User) *MockUserRepository {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range users {
		u := users[i]
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now()
		}
		m.users[u.ID] = &u
	}
	return m
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, exists := m.users[id]; exists {
		u := *user
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if telegramID != 0 && user.TelegramID == telegramID {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	m.mu.Lock()
	m.SearchCalls++
	delay, err := m.Delay, m.Err
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	var result []domain.User
	for _, u := range m.users {
		if containsAny(q, u.Name, u.Email, u.GitHub, u.Bio) {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type MockNoteRepository struct {
	mu    sync.RWMutex
	notes map[int64]*domain.Note

	Err   error
	Delay time.Duration

	SearchCalls  int
	LastViewerID int64
	LastLimit    int
}

func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		notes: make(map[int64]*domain.Note),
	}
}

func (m *MockNoteRepository) Add(notes ...domain.Note) *MockNoteRepository {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range notes {
		n := notes[i]
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = time.Now()
		}
		m.notes[n.ID] = &n
	}
	return m
}

func (m *MockNoteRepository) Search(ctx context.Context, viewerID int64, query string, limit int) ([]domain.Note, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.LastViewerID = viewerID
	m.LastLimit = limit
	delay, err := m.Delay, m.Err
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	var result []domain.Note
	for _, n := range m.notes {
		if !n.IsPublic && n.AuthorID != viewerID {
			continue
		}
		if containsAny(q, n.Title, n.Content, n.Category, n.Technology) {
			result = append(result, *n)
		}
	}
	// как в postgres: свежие первыми
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type MockSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session

	Err   error
	Calls int
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]domain.Session),
	}
}

func (m *MockSessionRepository) Add(token string, userID int64, expiresAt time.Time) *MockSessionRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = domain.Session{UserID: userID, ExpiresAt: expiresAt}
	return m
}

func (m *MockSessionRepository) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}

	s, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.Expired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	return &s, nil
}

// Remove - как будто платформа удалила сессию (logout)
func (m *MockSessionRepository) Remove(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

type MockHistoryRepository struct {
	mu      sync.RWMutex
	entries map[int64]*domain.HistoryEntry
	nextID  int64

	// Now подменяется в тестах, чтобы порядок created_at был детерминированным
	Now func() time.Time
	Err error
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{
		entries: make(map[int64]*domain.HistoryEntry),
		nextID:  1,
		Now:     time.Now,
	}
}

func (m *MockHistoryRepository) Record(ctx context.Context, userID int64, query string, keep int) (*domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	now := m.Now()
	var entry *domain.HistoryEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.Query == query {
			e.CreatedAt = now
			entry = e
			break
		}
	}

	if entry == nil {
		entry = &domain.HistoryEntry{
			ID:        m.nextID,
			UserID:    userID,
			Query:     query,
			CreatedAt: now,
		}
		m.nextID++
		m.entries[entry.ID] = entry
	}

	if keep > 0 {
		userEntries := m.listLocked(userID)
		for _, e := range userEntries[min(keep, len(userEntries)):] {
			delete(m.entries, e.ID)
		}
	}

	e := *entry
	return &e, nil
}

func (m *MockHistoryRepository) List(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	result := m.listLocked(userID)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockHistoryRepository) Delete(ctx context.Context, userID, entryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	e, exists := m.entries[entryID]
	if !exists || e.UserID != userID {
		return domain.ErrHistoryNotFound
	}
	delete(m.entries, entryID)
	return nil
}

func (m *MockHistoryRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}

	var n int64
	for id, e := range m.entries {
		if e.UserID == userID {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

// Count - всего записей по всем пользователям
func (m *MockHistoryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MockHistoryRepository) listLocked(userID int64) []domain.HistoryEntry {
	var result []domain.HistoryEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Package auth maps an incoming request to the platform user that owns its
// session. Sessions are issued by the surrounding platform; this package only
// reads them.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/cache/memory"
	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/metrics"
	"github.com/kitbuilder587/studynotes/internal/repository"
)

const (
	CookieName      = "session"
	DefaultCacheTTL = time.Minute
)

type Config struct {
	CacheTTL time.Duration
}

type Resolver struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	cache    *memory.Cache[domain.User]
	ttl      time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewResolver(sessions repository.SessionRepository, users repository.UserRepository, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Resolver{
		sessions: sessions,
		users:    users,
		cache:    memory.New[domain.User](0),
		ttl:      cfg.CacheTTL,
		logger:   logger,
		metrics:  m,
	}
}

// Resolved users are cached for at most CacheTTL and never past the session's
// expires_at. A session deleted on the platform side stays valid here until
// its cache entry expires, so CacheTTL bounds logout latency.
//
// CurrentUser returns nil without error for anonymous requests, including
// unknown or expired sessions. An error means the session store is unreachable.
func (r *Resolver) CurrentUser(req *http.Request) (*domain.User, error) {
	token := TokenFromRequest(req)
	if token == "" {
		return nil, nil
	}
	return r.Resolve(req.Context(), token)
}

func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	key := cacheKey(token)
	if u, ok := r.cache.Get(key); ok {
		if r.metrics != nil {
			r.metrics.RecordSessionCacheHit()
		}
		return &u, nil
	}
	if r.metrics != nil {
		r.metrics.RecordSessionCacheMiss()
	}

	session, err := r.sessions.GetSession(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("session lookup failed", zap.Error(err))
		return nil, err
	}

	user, err := r.users.GetByID(ctx, session.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		r.logger.Warn("session points to missing user", zap.Int64("user_id", session.UserID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// кешируем не дольше, чем живет сама сессия
	if ttl := r.cacheTTL(session.ExpiresAt); ttl > 0 {
		r.cache.Set(key, *user, ttl)
	}
	return user, nil
}

func (r *Resolver) cacheTTL(expiresAt time.Time) time.Duration {
	return min(r.ttl, time.Until(expiresAt))
}

func (r *Resolver) Close() {
	r.cache.Stop()
}

// TokenFromRequest prefers the Authorization header over the cookie.
func TokenFromRequest(req *http.Request) string {
	if h := req.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := req.Cookie(CookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// токены в памяти держим только в виде хеша
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Package httpapi exposes search and search history over HTTP with a JSON
// envelope: every body carries "success", failures add "error".
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/metrics"
	"github.com/kitbuilder587/studynotes/internal/service"
)

type SessionResolver interface {
	CurrentUser(r *http.Request) (*domain.User, error)
}

type RateLimiter interface {
	Allow(key string) bool
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Search   service.SearchService
	History  service.HistoryService
	Sessions SessionResolver
	// опционально
	Limiter        RateLimiter
	TrustedProxies TrustedProxies
	DB             Pinger
	MetricsHandler http.Handler
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
}

type Server struct {
	search   service.SearchService
	history  service.HistoryService
	sessions SessionResolver
	limiter  RateLimiter
	proxies  TrustedProxies
	db       Pinger
	promh    http.Handler
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewServer(deps Deps) *Server {
	return &Server{
		search:   deps.Search,
		history:  deps.History,
		sessions: deps.Sessions,
		limiter:  deps.Limiter,
		proxies:  deps.TrustedProxies,
		db:       deps.DB,
		promh:    deps.MetricsHandler,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /search", s.rateLimit(http.HandlerFunc(s.handleSearch)))
	mux.HandleFunc("GET /search/history", s.handleListHistory)
	mux.HandleFunc("POST /search/history", s.handleRecordHistory)
	mux.HandleFunc("DELETE /search/history", s.handleDeleteHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.promh != nil {
		mux.Handle("GET /metrics", s.promh)
	}

	return s.requestID(s.accessLog(s.recoverer(mux)))
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Package search implements federated search over the course and tool
// catalogs and the note and user stores. Every source scores its own
// candidates with the shared relevance model; the Aggregator fans out to the
// applicable sources, tolerates individual failures, merges and paginates.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type Source interface {
	Type() domain.SourceType
	// RequiresViewer - такие источники не запускаются для анонимов
	RequiresViewer() bool
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error)
}

type BreakerConfig struct {
	// ConsecutiveFailures - после скольких ошибок подряд размыкаем
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

func newBreaker(name string, cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("search source breaker state changed",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// отмена запроса клиентом - не проблема хранилища
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

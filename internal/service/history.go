package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/metrics"
	"github.com/kitbuilder587/studynotes/internal/repository"
)

type HistoryService interface {
	Record(ctx context.Context, userID int64, query string) (*domain.HistoryEntry, error)
	List(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error)
	Delete(ctx context.Context, userID, entryID int64) error
	ClearAll(ctx context.Context, userID int64) (int64, error)
}

type HistoryConfig struct {
	MaxEntries int
}

type historyService struct {
	repo    repository.HistoryRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  HistoryConfig
}

func NewHistoryService(repo repository.HistoryRepository, cfg HistoryConfig, logger *zap.Logger, m *metrics.Metrics) HistoryService {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = domain.MaxHistoryEntries
	}
	return &historyService{
		repo:    repo,
		logger:  logger,
		metrics: m,
		config:  cfg,
	}
}

// Record stores the query as the user's newest entry. Repeating a query
// moves it to the top instead of duplicating it.
func (s *historyService) Record(ctx context.Context, userID int64, query string) (*domain.HistoryEntry, error) {
	query, err := domain.NormalizeHistoryQuery(query)
	if err != nil {
		s.record("record", err)
		return nil, err
	}

	entry, err := s.repo.Record(ctx, userID, query, s.config.MaxEntries)
	s.record("record", err)
	if err != nil {
		s.logger.Error("failed to record search history",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return entry, nil
}

func (s *historyService) List(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	limit = min(limit, s.config.MaxEntries)

	entries, err := s.repo.List(ctx, userID, limit)
	s.record("list", err)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (s *historyService) Delete(ctx context.Context, userID, entryID int64) error {
	err := s.repo.Delete(ctx, userID, entryID)
	s.record("delete", err)
	if err != nil && !errors.Is(err, domain.ErrHistoryNotFound) {
		s.logger.Error("failed to delete history entry",
			zap.Int64("user_id", userID),
			zap.Int64("entry_id", entryID),
			zap.Error(err),
		)
	}
	return err
}

func (s *historyService) ClearAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.Clear(ctx, userID)
	s.record("clear", err)
	if err != nil {
		return 0, err
	}

	s.logger.Info("search history cleared",
		zap.Int64("user_id", userID),
		zap.Int64("deleted", n),
	)
	return n, nil
}

func (s *historyService) record(op string, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrQueryTooShort),
		errors.Is(err, domain.ErrHistoryNotFound):
		status = "rejected"
	case err != nil:
		status = "error"
	}
	s.metrics.RecordHistoryOp(op, status)
}

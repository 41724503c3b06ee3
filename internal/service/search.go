package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/metrics"
	"github.com/kitbuilder587/studynotes/internal/search"
)

const QueryTooShortMessage = "搜索关键词至少需要2个字符"

type Aggregator interface {
	Search(ctx context.Context, q domain.SearchQuery) (*search.Result, error)
}

type Suggester interface {
	Suggest(query string, top []domain.SearchResult) []string
}

type SearchService interface {
	Search(ctx context.Context, params domain.SearchParams, viewer *domain.User) (*domain.SearchResponse, error)
}

type SearchConfig struct {
	// TotalTimeout bounds the whole request on top of per-source timeouts. 0 - без ограничения
	TotalTimeout time.Duration
}

type SearchServiceDeps struct {
	Aggregator Aggregator
	Suggester  Suggester
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Config     SearchConfig
}

type searchService struct {
	aggregator Aggregator
	suggester  Suggester
	logger     *zap.Logger
	metrics    *metrics.Metrics
	config     SearchConfig
}

func NewSearchService(deps SearchServiceDeps) SearchService {
	if deps.Suggester == nil {
		deps.Suggester = search.NewSuggester(nil)
	}
	return &searchService{
		aggregator: deps.Aggregator,
		suggester:  deps.Suggester,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		config:     deps.Config,
	}
}

func (s *searchService) Search(ctx context.Context, params domain.SearchParams, viewer *domain.User) (*domain.SearchResponse, error) {
	startTime := time.Now()

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	q, err := domain.NormalizeQuery(params)
	if errors.Is(err, domain.ErrQueryTooShort) {
		if s.metrics != nil {
			s.metrics.RecordRequest("search", "too_short", time.Since(startTime))
		}
		return &domain.SearchResponse{
			Query:       q.Text,
			Results:     []domain.SearchResult{},
			Pagination:  domain.NewPagination(q.Page, q.Limit, 0),
			Suggestions: []string{},
			Message:     QueryTooShortMessage,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	q.Viewer = viewer

	if s.config.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.TotalTimeout)
		defer cancel()
	}

	s.logger.Info("processing search",
		zap.Int64("viewer_id", q.ViewerID()),
		zap.Int("query_length", len([]rune(q.Text))),
		zap.String("type", string(q.Type)),
		zap.String("category", q.Category),
		zap.Int("page", q.Page),
		zap.Int("limit", q.Limit),
	)

	res, err := s.aggregator.Search(ctx, q)
	if errors.Is(err, context.Canceled) {
		if s.metrics != nil {
			s.metrics.RecordRequest("search", "canceled", time.Since(startTime))
		}
		s.logger.Debug("search canceled", zap.String("query", q.Text))
		return nil, err
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordRequest("search", "error", time.Since(startTime))
		}
		s.logger.Error("search failed", zap.String("query", q.Text), zap.Error(err))
		return nil, err
	}

	resp := &domain.SearchResponse{
		Query:       q.Text,
		Results:     res.Results,
		Pagination:  res.Pagination,
		Suggestions: s.suggester.Suggest(q.Text, res.Top),
		Sources:     res.Reports,
	}

	if s.metrics != nil {
		s.metrics.RecordRequest("search", "success", time.Since(startTime))
	}

	s.logger.Info("search completed",
		zap.Int("total", res.Pagination.Total),
		zap.Int("returned", len(res.Results)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return resp, nil
}

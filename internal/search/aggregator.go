package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/metrics"
)

const (
	DefaultSourceTimeout = 3 * time.Second
	topResultsForSuggest = 5
)

// Phase - стадия обработки одного запроса, только для логов
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseDispatching Phase = "dispatching"
	PhaseCollecting  Phase = "collecting"
	PhaseMerging     Phase = "merging"
	PhaseReady       Phase = "ready"
)

type AggregatorConfig struct {
	SourceTimeout time.Duration
}

type Aggregator struct {
	sources []Source
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Result holds one page of merged results. Total in Pagination counts the
// whole merged, filtered set; Top is the head of that set regardless of page.
type Result struct {
	Results    []domain.SearchResult
	Top        []domain.SearchResult
	Pagination domain.Pagination
	Reports    []domain.SourceReport
}

// NewAggregator keeps sources in the given order; that order is also the
// tie-break between sources for equal scores.
func NewAggregator(sources []Source, cfg AggregatorConfig, logger *zap.Logger, m *metrics.Metrics) *Aggregator {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = DefaultSourceTimeout
	}
	return &Aggregator{
		sources: sources,
		timeout: cfg.SourceTimeout,
		logger:  logger,
		metrics: m,
	}
}

func (a *Aggregator) Search(ctx context.Context, q domain.SearchQuery) (*Result, error) {
	a.phase(PhaseIdle, q)

	a.phase(PhaseDispatching, q)
	reports := make([]domain.SourceReport, len(a.sources))
	groups := make([][]domain.Candidate, len(a.sources))

	var g errgroup.Group
	dispatched := 0
	for i, src := range a.sources {
		reports[i] = domain.SourceReport{Source: src.Type(), Status: domain.SourceSkipped}
		if !q.Type.Includes(src.Type()) || (src.RequiresViewer() && q.Anonymous()) {
			continue
		}
		dispatched++

		i, src := i, src
		g.Go(func() error {
			cands, report := a.run(ctx, src, q)
			groups[i] = cands
			reports[i] = report
			// ошибки источника не валят весь поиск
			return nil
		})
	}

	a.phase(PhaseCollecting, q)
	_ = g.Wait()

	// клиент ушел: это не отказ источников
	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		a.logger.Debug("search canceled by caller", zap.String("query", q.Text))
		return &Result{Reports: reports}, err
	}

	failed := 0
	for _, r := range reports {
		if r.Status == domain.SourceFailed || r.Status == domain.SourceTimeout {
			failed++
		}
	}
	if dispatched > 0 && failed == dispatched {
		a.logger.Error("all search sources failed",
			zap.String("query", q.Text),
			zap.Int("dispatched", dispatched),
		)
		return &Result{Reports: reports}, domain.ErrAllSourcesFailed
	}

	a.phase(PhaseMerging, q)
	merged := Merge(groups, q.Category)

	res := &Result{
		Results:    Paginate(merged, q.Page, q.Limit),
		Top:        merged[:min(topResultsForSuggest, len(merged))],
		Pagination: domain.NewPagination(q.Page, q.Limit, len(merged)),
		Reports:    reports,
	}

	a.phase(PhaseReady, q)
	return res, nil
}

// run executes one source under its own timeout. A source that ignores the
// context is abandoned when the timeout fires and its late result is dropped.
func (a *Aggregator) run(ctx context.Context, src Source, q domain.SearchQuery) ([]domain.Candidate, domain.SourceReport) {
	start := time.Now()
	report := domain.SourceReport{Source: src.Type()}

	sctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		cands []domain.Candidate
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("source panic: %v", r)}
			}
		}()
		cands, err := src.Search(sctx, q)
		done <- outcome{cands: cands, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-sctx.Done():
		out = outcome{err: sctx.Err()}
	}

	switch {
	case out.err == nil:
		report.Status = domain.SourceOK
		report.Candidates = len(out.cands)
	case errors.Is(ctx.Err(), context.Canceled):
		report.Status = domain.SourceCanceled
		out.cands = nil
	case errors.Is(out.err, context.DeadlineExceeded):
		report.Status = domain.SourceTimeout
		report.Err = fmt.Errorf("%w: %v", domain.ErrSourceTimeout, out.err)
		out.cands = nil
	default:
		report.Status = domain.SourceFailed
		report.Err = out.err
		out.cands = nil
	}

	duration := time.Since(start)
	if report.Err != nil {
		a.logger.Warn("search source failed",
			zap.String("source", src.Type().String()),
			zap.String("status", string(report.Status)),
			zap.Duration("duration", duration),
			zap.Error(report.Err),
		)
	}
	if a.metrics != nil {
		a.metrics.RecordSourceRequest(src.Type().String(), string(report.Status), report.Candidates, duration)
	}

	return out.cands, report
}

func (a *Aggregator) phase(p Phase, q domain.SearchQuery) {
	a.logger.Debug("search phase",
		zap.String("phase", string(p)),
		zap.String("query", q.Text),
		zap.String("type", string(q.Type)),
	)
}

// Merge concatenates source groups, drops zero scores, applies the category
// filter, assigns ids and sorts. Equal scores are ordered by source
// (course, tool, note, user), then title, then id, so the order does not
// depend on which source answered first.
func Merge(groups [][]domain.Candidate, category string) []domain.SearchResult {
	category = strings.ToLower(strings.TrimSpace(category))

	merged := make([]domain.SearchResult, 0)
	for _, group := range groups {
		for _, c := range group {
			if c.Score <= 0 {
				continue
			}
			if category != "" && !strings.Contains(strings.ToLower(c.Category), category) {
				continue
			}
			merged = append(merged, domain.SearchResult{ID: c.ID(), Candidate: c})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if ra, rb := a.Source.Rank(), b.Source.Rank(); ra != rb {
			return ra < rb
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	return merged
}

// Paginate - срез [offset, offset+limit); за пределами - пустая страница
func Paginate(results []domain.SearchResult, page, limit int) []domain.SearchResult {
	if page < 1 || limit < 1 || page-1 > len(results)/limit {
		return []domain.SearchResult{}
	}
	offset := (page - 1) * limit
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	end := min(offset+limit, len(results))
	return results[offset:end]
}

package search

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/relevance"
	"github.com/kitbuilder587/studynotes/internal/repository"
)

const (
	DefaultNoteFetchLimit = 20
	snippetLength         = 200
)

type NoteSourceConfig struct {
	// FetchLimit caps the rows pulled from storage before scoring. Raising it
	// improves recall at the cost of a heavier query.
	FetchLimit int
	Breaker    BreakerConfig
}

type NoteSource struct {
	repo       repository.NoteRepository
	weights    relevance.Weights
	fetchLimit int
	breaker    *gobreaker.CircuitBreaker
}

func NewNoteSource(repo repository.NoteRepository, table relevance.Table, cfg NoteSourceConfig, logger *zap.Logger) *NoteSource {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultNoteFetchLimit
	}
	return &NoteSource{
		repo:       repo,
		weights:    table.For(domain.SourceNote),
		fetchLimit: cfg.FetchLimit,
		breaker:    newBreaker("note", cfg.Breaker, logger),
	}
}

func (s *NoteSource) Type() domain.SourceType { return domain.SourceNote }

func (s *NoteSource) RequiresViewer() bool { return true }

func (s *NoteSource) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	if q.Anonymous() {
		return nil, nil
	}

	notes, err := execute(s.breaker, func() ([]domain.Note, error) {
		return s.repo.Search(ctx, q.ViewerID(), q.Text, s.fetchLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("note source: %w", err)
	}

	var out []domain.Candidate
	for _, n := range notes {
		score := s.weights.Best(q.Text,
			relevance.F(relevance.FieldTitle, n.Title),
			relevance.F(relevance.FieldDescription, n.Content),
			relevance.F(relevance.FieldTechnology, n.Technology),
			relevance.F(relevance.FieldCategory, n.Category),
		)
		if score <= 0 {
			continue
		}
		out = append(out, domain.Candidate{
			Source:      domain.SourceNote,
			Key:         strconv.FormatInt(n.ID, 10),
			Title:       n.Title,
			Description: snippet(n.Content, snippetLength),
			Category:    n.Category,
			Score:       score,
			Path:        fmt.Sprintf("/notes/%d", n.ID),
			Author:      n.AuthorName,
			Technology:  n.Technology,
		})
	}
	return out, nil
}

func snippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

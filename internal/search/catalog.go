package search

import (
	"context"
	"strconv"

	"github.com/kitbuilder587/studynotes/internal/catalog"
	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/relevance"
)

type CourseSource struct {
	catalog catalog.Provider
	weights relevance.Weights
}

func NewCourseSource(p catalog.Provider, table relevance.Table) *CourseSource {
	return &CourseSource{catalog: p, weights: table.For(domain.SourceCourse)}
}

func (s *CourseSource) Type() domain.SourceType { return domain.SourceCourse }

func (s *CourseSource) RequiresViewer() bool { return false }

func (s *CourseSource) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []domain.Candidate
	for _, c := range s.catalog.Courses() {
		score := s.weights.Best(q.Text,
			relevance.F(relevance.FieldTitle, c.Title),
			relevance.F(relevance.FieldDescription, c.Description),
			relevance.F(relevance.FieldCategory, c.Category),
		)
		if score <= 0 {
			continue
		}
		out = append(out, domain.Candidate{
			Source:      domain.SourceCourse,
			Key:         strconv.Itoa(c.ID),
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Score:       score,
			Path:        c.Path,
			Level:       c.Level,
		})
	}
	return out, nil
}

type ToolSource struct {
	catalog catalog.Provider
	weights relevance.Weights
}

func NewToolSource(p catalog.Provider, table relevance.Table) *ToolSource {
	return &ToolSource{catalog: p, weights: table.For(domain.SourceTool)}
}

func (s *ToolSource) Type() domain.SourceType { return domain.SourceTool }

func (s *ToolSource) RequiresViewer() bool { return false }

func (s *ToolSource) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []domain.Candidate
	for _, t := range s.catalog.Tools() {
		score := s.weights.Best(q.Text,
			relevance.F(relevance.FieldTitle, t.Name),
			relevance.F(relevance.FieldDescription, t.Description),
			relevance.F(relevance.FieldCategory, t.Category),
		)
		if score <= 0 {
			continue
		}
		out = append(out, domain.Candidate{
			Source:      domain.SourceTool,
			Key:         strconv.Itoa(t.ID),
			Title:       t.Name,
			Description: t.Description,
			Category:    t.Category,
			Score:       score,
			URL:         t.URL,
		})
	}
	return out, nil
}

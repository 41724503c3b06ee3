package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/relevance"
	"github.com/kitbuilder587/studynotes/internal/repository"
)

const (
	DefaultUserFetchLimit = 20

	// ExactEmailScore bypasses field weights: an exact email is an
	// unambiguous identity match.
	ExactEmailScore = relevance.PrefixScore

	userCategory = "用户"
)

type UserSourceConfig struct {
	FetchLimit int
	Breaker    BreakerConfig
}

type UserSource struct {
	repo       repository.UserRepository
	weights    relevance.Weights
	fetchLimit int
	breaker    *gobreaker.CircuitBreaker
}

func NewUserSource(repo repository.UserRepository, table relevance.Table, cfg UserSourceConfig, logger *zap.Logger) *UserSource {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultUserFetchLimit
	}
	return &UserSource{
		repo:       repo,
		weights:    table.For(domain.SourceUser),
		fetchLimit: cfg.FetchLimit,
		breaker:    newBreaker("user", cfg.Breaker, logger),
	}
}

func (s *UserSource) Type() domain.SourceType { return domain.SourceUser }

func (s *UserSource) RequiresViewer() bool { return true }

func (s *UserSource) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	if q.Anonymous() {
		return nil, nil
	}

	users, err := execute(s.breaker, func() ([]domain.User, error) {
		return s.repo.Search(ctx, q.Text, s.fetchLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("user source: %w", err)
	}

	var out []domain.Candidate
	for _, u := range users {
		score := s.score(u, q.Text)
		if score <= 0 {
			continue
		}
		out = append(out, domain.Candidate{
			Source:      domain.SourceUser,
			Key:         strconv.FormatInt(u.ID, 10),
			Title:       u.Name,
			Description: u.Bio,
			Category:    userCategory,
			Score:       score,
			Path:        fmt.Sprintf("/users/%d", u.ID),
			Email:       u.Email,
			GitHub:      u.GitHub,
			Avatar:      u.Avatar,
		})
	}
	return out, nil
}

func (s *UserSource) score(u domain.User, query string) float64 {
	if u.Email != "" && strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(query)) {
		return ExactEmailScore
	}
	return s.weights.Best(query,
		relevance.F(relevance.FieldName, u.Name),
		relevance.F(relevance.FieldGitHub, u.GitHub),
		relevance.F(relevance.FieldEmail, u.Email),
		relevance.F(relevance.FieldBio, u.Bio),
	)
}

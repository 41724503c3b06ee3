package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/relevance"
	"github.com/kitbuilder587/studynotes/internal/repository"
)

func TestUserSource_ExactEmailOutranks(t *testing.T) {
	repo := repository.NewMockUserRepository().Add(
		domain.User{ID: 1, Name: "zhang@example.com fan club", Email: "fan@example.com"},
		domain.User{ID: 2, Name: "Zhang Wei", Email: "zhang@example.com", GitHub: "zhangwei"},
		domain.User{ID: 3, Name: "Li", Email: "li@example.com", Bio: "contact zhang@example.com"},
	)
	src := NewUserSource(repo, relevance.DefaultTable(), UserSourceConfig{}, zap.NewNop())

	cands, err := src.Search(context.Background(), domain.SearchQuery{Text: "ZHANG@example.com", Viewer: &domain.User{ID: 9}})
	require.NoError(t, err)
	require.Len(t, cands, 3)

	scores := map[string]float64{}
	for _, c := range cands {
		scores[c.Key] = c.Score
	}
	assert.Equal(t, ExactEmailScore, scores["2"])
	assert.Less(t, scores["1"], scores["2"])
	assert.Less(t, scores["3"], scores["2"])
}

func TestUserSource_Fields(t *testing.T) {
	repo := repository.NewMockUserRepository().Add(
		domain.User{ID: 5, Name: "Gopher", Email: "g@example.com", GitHub: "gopher", Avatar: "/a/5.png", Bio: "Go developer"},
	)
	src := NewUserSource(repo, relevance.DefaultTable(), UserSourceConfig{}, zap.NewNop())

	cands, err := src.Search(context.Background(), domain.SearchQuery{Text: "gopher", Viewer: &domain.User{ID: 1}})
	require.NoError(t, err)
	require.Len(t, cands, 1)

	c := cands[0]
	assert.Equal(t, "user_5", c.ID())
	assert.Equal(t, "/users/5", c.Path)
	assert.Equal(t, "gopher", c.GitHub)
	assert.Equal(t, "/a/5.png", c.Avatar)
	assert.Equal(t, "g@example.com", c.Email)
	// имя: 100 * 0.9
	assert.InDelta(t, 90, c.Score, 0.001)
}

func TestUserSource_Anonymous(t *testing.T) {
	repo := repository.NewMockUserRepository().Add(domain.User{ID: 1, Name: "gopher"})
	src := NewUserSource(repo, relevance.DefaultTable(), UserSourceConfig{}, zap.NewNop())

	cands, err := src.Search(context.Background(), domain.SearchQuery{Text: "gopher"})
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Zero(t, repo.SearchCalls)
}

package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitbuilder587/studynotes/internal/catalog"
	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/relevance"
)

func testCatalog() *catalog.Static {
	return catalog.NewStatic(
		[]domain.Course{
			{ID: 1, Title: "Python编程入门", Description: "学习Python语法", Category: "编程语言", Path: "/courses/python"},
			{ID: 2, Title: "机器学习入门", Description: "使用Python完成分类任务", Category: "人工智能", Path: "/courses/ml"},
			{ID: 3, Title: "Java面向对象编程", Description: "类与接口", Category: "编程语言", Path: "/courses/java"},
		},
		[]domain.Tool{
			{ID: 1, Name: "VS Code", Description: "支持Python的代码编辑器", Category: "代码编辑器", URL: "https://code.visualstudio.com"},
			{ID: 2, Name: "Git", Description: "版本控制", Category: "版本控制", URL: "https://git-scm.com"},
		},
	)
}

func TestCourseSource_Search(t *testing.T) {
	src := NewCourseSource(testCatalog(), relevance.DefaultTable())

	cands, err := src.Search(context.Background(), domain.SearchQuery{Text: "python"})
	require.NoError(t, err)
	require.Len(t, cands, 2)

	byKey := map[string]domain.Candidate{}
	for _, c := range cands {
		byKey[c.Key] = c
	}

	assert.InDelta(t, 100, byKey["1"].Score, 0.001)
	// описание: 80 * 0.7
	assert.InDelta(t, 56, byKey["2"].Score, 0.001)
	assert.Equal(t, "/courses/python", byKey["1"].Path)
	assert.Equal(t, domain.SourceCourse, byKey["1"].Source)
}

func TestCourseSource_CategoryField(t *testing.T) {
	src := NewCourseSource(testCatalog(), relevance.DefaultTable())

	cands, err := src.Search(context.Background(), domain.SearchQuery{Text: "编程语言"})
	require.NoError(t, err)
	require.Len(t, cands, 2)
	for _, c := range cands {
		assert.InDelta(t, 60, c.Score, 0.001)
	}
}

func TestCourseSource_CanceledContext(t *testing.T) {
	src := NewCourseSource(testCatalog(), relevance.DefaultTable())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Search(ctx, domain.SearchQuery{Text: "python"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolSource_Search(t *testing.T) {
	src := NewToolSource(testCatalog(), relevance.DefaultTable())
	assert.False(t, src.RequiresViewer())

	cands, err := src.Search(context.Background(), domain.SearchQuery{Text: "python"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "VS Code", cands[0].Title)
	assert.Equal(t, "https://code.visualstudio.com", cands[0].URL)
	assert.InDelta(t, 56, cands[0].Score, 0.001)

	none, err := src.Search(context.Background(), domain.SearchQuery{Text: "kubernetes"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  float64
	}{
		{"prefix", "Python编程入门", "python", 100},
		{"exact", "Python", "python", 100},
		{"interior", "Learn Python", "python", 80},
		{"case fold query", "learn python", "PYTHON", 80},
		{"all words", "react and vue basics", "vue react", 60},
		{"half words", "react basics", "react angular", 30},
		{"third of words", "go tooling", "go rust java", 20},
		{"no match", "Docker", "python", 0},
		{"empty text", "", "python", 0},
		{"empty query", "Python", "", 0},
		{"blank query", "Python", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.text, tt.query), 0.0001)
		})
	}
}

func TestScore_PrefixOutranksInterior(t *testing.T) {
	assert.Greater(t, Score("Python", "python"), Score("Learn Python", "python"))
	assert.GreaterOrEqual(t, Score("Python编程入门", "python"), Score("数据分析 with Python", "python"))
}

func TestScore_WordOverlapBelowSubstring(t *testing.T) {
	// полное совпадение по словам всё равно ниже любого substring
	overlap := Score("basics of react and vue", "vue react")
	assert.Less(t, overlap, SubstringScore)
}

func TestWeights_Best(t *testing.T) {
	w := Weights{FieldTitle: 1.0, FieldDescription: 0.7, FieldCategory: 0.5}

	t.Run("max not sum", func(t *testing.T) {
		got := w.Best("python",
			F(FieldTitle, "Python"),
			F(FieldDescription, "Python everywhere"),
			F(FieldCategory, "python"),
		)
		assert.InDelta(t, 100, got, 0.0001)
	})

	t.Run("description discounted", func(t *testing.T) {
		got := w.Best("python", F(FieldTitle, "VS Code"), F(FieldDescription, "Editor with Python support"))
		assert.InDelta(t, 56, got, 0.0001)
	})

	t.Run("unknown field ignored", func(t *testing.T) {
		got := w.Best("python", F(FieldEmail, "python@example.com"))
		assert.Zero(t, got)
	})

	t.Run("no fields", func(t *testing.T) {
		assert.Zero(t, w.Best("python"))
	})
}

func TestDefaultTable_UserBelowExactEmail(t *testing.T) {
	w := DefaultTable().For(domain.SourceUser)
	for field, weight := range w {
		assert.Less(t, weight*PrefixScore, PrefixScore, "field %s", field)
	}
}

func TestTable_ForUnknown(t *testing.T) {
	w := Table{}.For(domain.SourceCourse)
	assert.Equal(t, 1.0, w[FieldTitle])
}

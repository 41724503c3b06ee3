package search

import (
	"strings"
	"unicode/utf8"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

const MaxSuggestions = 8

// DefaultHotTerms - фиксированный список популярных запросов
var DefaultHotTerms = []string{
	"JavaScript",
	"Python",
	"Python数据分析",
	"React",
	"Vue",
	"Node.js",
	"TypeScript",
	"Java",
	"Go语言",
	"Docker",
	"Kubernetes",
	"MySQL",
	"Redis",
	"Linux",
	"算法",
	"数据结构",
	"机器学习",
	"前端开发",
}

type Suggester struct {
	hotTerms []string
}

func NewSuggester(hotTerms []string) *Suggester {
	if hotTerms == nil {
		hotTerms = DefaultHotTerms
	}
	return &Suggester{hotTerms: hotTerms}
}

// Suggest derives follow-up queries: words from the titles of the top
// results that are longer than two characters and not already part of the
// query, then hot terms containing the query. The order is title words
// first, then hot terms; it is not a ranking.
func (s *Suggester) Suggest(query string, top []domain.SearchResult) []string {
	folded := strings.ToLower(strings.TrimSpace(query))
	if folded == "" {
		return []string{}
	}

	out := make([]string, 0, MaxSuggestions)
	seen := make(map[string]bool)
	add := func(term string) bool {
		key := strings.ToLower(term)
		if seen[key] {
			return true
		}
		seen[key] = true
		out = append(out, term)
		return len(out) < MaxSuggestions
	}

	for i, r := range top {
		if i >= topResultsForSuggest {
			break
		}
		for _, w := range strings.Fields(r.Title) {
			if utf8.RuneCountInString(w) <= 2 || strings.Contains(folded, strings.ToLower(w)) {
				continue
			}
			if !add(w) {
				return out
			}
		}
	}

	for _, term := range s.hotTerms {
		if !strings.Contains(strings.ToLower(term), folded) {
			continue
		}
		if !add(term) {
			return out
		}
	}

	return out
}

// Package relevance implements the deterministic relevance model shared by
// every search source: a single text/query score plus per-source field weights.
package relevance

import (
	"strings"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

const (
	PrefixScore      = 100.0
	SubstringScore   = 80.0
	WordOverlapScore = 60.0
)

// Score returns how well text matches query.
//
// A substring match scores PrefixScore when it starts at index 0 and
// SubstringScore otherwise. Without a substring match the score is the share
// of whitespace-separated query words found in text times WordOverlapScore,
// so partial overlap always ranks below any substring match.
func Score(text, query string) float64 {
	text = strings.ToLower(text)
	query = strings.ToLower(strings.TrimSpace(query))
	if text == "" || query == "" {
		return 0
	}

	switch idx := strings.Index(text, query); {
	case idx == 0:
		return PrefixScore
	case idx > 0:
		return SubstringScore
	}

	words := strings.Fields(query)
	matched := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return float64(matched) / float64(len(words)) * WordOverlapScore
}

type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldTechnology  Field = "technology"
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldGitHub      Field = "github"
	FieldBio         Field = "bio"
)

// FieldValue - одно поле кандидата
type FieldValue struct {
	Field Field
	Text  string
}

func F(field Field, text string) FieldValue {
	return FieldValue{Field: field, Text: text}
}

// Weights maps a field to its discount. Fields missing from the map are not scored.
type Weights map[Field]float64

// Best returns the maximum weighted field score. Fields are not cumulative:
// one strong match is enough, and repeating a keyword across fields gains nothing.
func (w Weights) Best(query string, fields ...FieldValue) float64 {
	best := 0.0
	for _, f := range fields {
		weight, ok := w[f.Field]
		if !ok || weight <= 0 {
			continue
		}
		if s := Score(f.Text, query) * weight; s > best {
			best = s
		}
	}
	return best
}

// Table - веса полей по типу источника
type Table map[domain.SourceType]Weights

// DefaultTable keeps user weights below 1.0 so that the flat exact-email
// score outranks every other user match.
func DefaultTable() Table {
	return Table{
		domain.SourceCourse: {
			FieldTitle:       1.0,
			FieldDescription: 0.7,
			FieldCategory:    0.6,
		},
		domain.SourceTool: {
			FieldTitle:       1.0,
			FieldDescription: 0.7,
			FieldCategory:    0.5,
		},
		domain.SourceNote: {
			FieldTitle:       1.0,
			FieldDescription: 0.7,
			FieldTechnology:  0.8,
			FieldCategory:    0.6,
		},
		domain.SourceUser: {
			FieldName:   0.9,
			FieldGitHub: 0.85,
			FieldEmail:  0.8,
			FieldBio:    0.6,
		},
	}
}

func (t Table) For(src domain.SourceType) Weights {
	if w, ok := t[src]; ok {
		return w
	}
	return Weights{FieldTitle: 1.0}
}

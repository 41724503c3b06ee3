package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinQueryLength = 2
	DefaultPage    = 1
	DefaultLimit   = 10
	MaxLimit       = 100
)

type SourceType string

const (
	SourceCourse SourceType = "course"
	SourceTool   SourceType = "tool"
	SourceNote   SourceType = "note"
	SourceUser   SourceType = "user"
)

// SourceOrder - порядок источников при равных score
var SourceOrder = []SourceType{SourceCourse, SourceTool, SourceNote, SourceUser}

func (s SourceType) String() string {
	return string(s)
}

func (s SourceType) Rank() int {
	for i, src := range SourceOrder {
		if src == s {
			return i
		}
	}
	return len(SourceOrder)
}

type SearchType string

const SearchAll SearchType = "all"

// ParseSearchType - неизвестный тип трактуем как all
func ParseSearchType(raw string) SearchType {
	t := SearchType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case SearchType(SourceCourse), SearchType(SourceTool), SearchType(SourceNote), SearchType(SourceUser):
		return t
	default:
		return SearchAll
	}
}

func (t SearchType) Includes(src SourceType) bool {
	return t == SearchAll || t == SearchType(src)
}

// SearchParams - сырые параметры запроса, как пришли от клиента
type SearchParams struct {
	Query    string
	Type     string
	Category string
	Page     string
	Limit    string
}

type SearchQuery struct {
	Text     string
	Folded   string
	Type     SearchType
	Category string
	Page     int
	Limit    int
	Viewer   *User
}

func (q SearchQuery) Anonymous() bool {
	return q.Viewer == nil
}

func (q SearchQuery) ViewerID() int64 {
	if q.Viewer == nil {
		return 0
	}
	return q.Viewer.ID
}

// NormalizeQuery trims and folds the query and clamps pagination.
// A query shorter than MinQueryLength is not invalid input: the returned
// query is fully populated and the error is ErrQueryTooShort.
func NormalizeQuery(p SearchParams) (SearchQuery, error) {
	text := strings.TrimSpace(p.Query)
	q := SearchQuery{
		Text:     text,
		Folded:   strings.ToLower(text),
		Type:     ParseSearchType(p.Type),
		Category: strings.TrimSpace(p.Category),
		Page:     ParsePage(p.Page),
		Limit:    ParseLimit(p.Limit),
	}

	if utf8.RuneCountInString(text) < MinQueryLength {
		return q, ErrQueryTooShort
	}
	return q, nil
}

func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLimit
	}
	return clamp(limit, 1, MaxLimit)
}

// ParseStrictInt - для мест, где нужна строгая валидация (400 вместо clamp).
// Пустое значение -> def.
func ParseStrictInt(raw string, def, min, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, ErrInvalidPagination
	}
	return v, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

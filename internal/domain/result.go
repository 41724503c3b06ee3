package domain

import "fmt"

// Candidate - промежуточный результат одного источника, до слияния
type Candidate struct {
	Source      SourceType
	Key         string
	Title       string
	Description string
	Category    string
	Score       float64
	Path        string
	URL         string

	Level      string
	Author     string
	Technology string
	Email      string
	GitHub     string
	Avatar     string
}

func (c Candidate) ID() string {
	return fmt.Sprintf("%s_%s", c.Source, c.Key)
}

type SearchResult struct {
	ID string
	Candidate
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

type SourceStatus string

const (
	SourceOK      SourceStatus = "ok"
	SourceFailed  SourceStatus = "error"
	SourceTimeout SourceStatus = "timeout"
	SourceSkipped SourceStatus = "skipped"
	// SourceCanceled - вызывающий ушел раньше, чем источник ответил
	SourceCanceled SourceStatus = "canceled"
)

type SourceReport struct {
	Source     SourceType
	Status     SourceStatus
	Candidates int
	Err        error
}

type SearchResponse struct {
	Query       string
	Results     []SearchResult
	Pagination  Pagination
	Suggestions []string
	Sources     []SourceReport
	Message     string
}

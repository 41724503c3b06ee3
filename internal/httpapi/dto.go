package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

const (
	msgInternal      = "服务暂时不可用，请稍后再试"
	msgRateLimited   = "请求过于频繁，请稍后再试"
	msgUnauthorized  = "请先登录"
	msgBadRequest    = "请求参数无效"
	msgEmptyQuery    = "搜索关键词不能为空"
	msgQueryTooShort = "搜索关键词至少需要2个字符"
	msgEntryNotFound = "搜索记录不存在"
)

type resultDTO struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
	Path        string  `json:"path,omitempty"`
	URL         string  `json:"url,omitempty"`
	Level       string  `json:"level,omitempty"`
	Author      string  `json:"author,omitempty"`
	Technology  string  `json:"technology,omitempty"`
	Email       string  `json:"email,omitempty"`
	GitHub      string  `json:"github,omitempty"`
	Avatar      string  `json:"avatar,omitempty"`
}

type paginationDTO struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type sourceDTO struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type searchResponse struct {
	Success     bool          `json:"success"`
	Results     []resultDTO   `json:"results"`
	Total       int           `json:"total"`
	Pagination  paginationDTO `json:"pagination"`
	Query       string        `json:"query"`
	Suggestions []string      `json:"suggestions"`
	Sources     []sourceDTO   `json:"sources,omitempty"`
	Message     string        `json:"message,omitempty"`
}

type searchErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Results []resultDTO `json:"results"`
	Total   int         `json:"total"`
}

type historyEntryDTO struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
}

type historyListResponse struct {
	Success bool              `json:"success"`
	History []historyEntryDTO `json:"history"`
}

type historyRecordRequest struct {
	Query string `json:"query"`
}

type historyRecordResponse struct {
	Success bool            `json:"success"`
	Entry   historyEntryDTO `json:"entry"`
}

type historyDeleteResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func toSearchResponse(resp *domain.SearchResponse) searchResponse {
	results := make([]resultDTO, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, resultDTO{
			ID:          r.ID,
			Type:        r.Source.String(),
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Score:       r.Score,
			Path:        r.Path,
			URL:         r.URL,
			Level:       r.Level,
			Author:      r.Author,
			Technology:  r.Technology,
			Email:       r.Email,
			GitHub:      r.GitHub,
			Avatar:      r.Avatar,
		})
	}

	var sources []sourceDTO
	for _, rep := range resp.Sources {
		sources = append(sources, sourceDTO{
			Source: rep.Source.String(),
			Status: string(rep.Status),
			Count:  rep.Candidates,
		})
	}

	suggestions := resp.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	p := resp.Pagination
	return searchResponse{
		Success: true,
		Results: results,
		Total:   p.Total,
		Pagination: paginationDTO{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      p.Total,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
		Query:       resp.Query,
		Suggestions: suggestions,
		Sources:     sources,
		Message:     resp.Message,
	}
}

func toHistoryDTO(e domain.HistoryEntry) historyEntryDTO {
	return historyEntryDTO{ID: e.ID, Query: e.Query, CreatedAt: e.CreatedAt}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

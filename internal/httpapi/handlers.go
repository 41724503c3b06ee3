package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

const maxBodyBytes = 4 << 10

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.SearchParams{
		Query:    q.Get("q"),
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	}

	// сбой сессий не должен ломать поиск: ищем как аноним
	viewer, err := s.sessions.CurrentUser(r)
	if err != nil {
		s.logger.Warn("session resolve failed, searching anonymously",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		viewer = nil
	}

	resp, err := s.search.Search(r.Context(), params, viewer)
	if errors.Is(err, context.Canceled) {
		// отвечать некому
		return
	}
	if err != nil {
		s.logger.Error("search request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, searchErrorResponse{
			Success: false,
			Error:   msgInternal,
			Results: []resultDTO{},
		})
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.viewer(w, r, false)
	if !ok {
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, historyListResponse{Success: true, History: []historyEntryDTO{}})
		return
	}

	limit, err := domain.ParseStrictInt(r.URL.Query().Get("limit"), domain.DefaultHistoryLimit, 1, domain.MaxHistoryEntries)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	entries, err := s.history.List(r.Context(), user.ID, limit)
	if err != nil {
		s.internalError(w, r, "list history", err)
		return
	}

	out := make([]historyEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryDTO(e))
	}
	writeJSON(w, http.StatusOK, historyListResponse{Success: true, History: out})
}

func (s *Server) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.viewer(w, r, true)
	if !ok {
		return
	}

	var req historyRecordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	entry, err := s.history.Record(r.Context(), user.ID, req.Query)
	if errors.Is(err, domain.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, msgEmptyQuery)
		return
	}
	if errors.Is(err, domain.ErrQueryTooShort) {
		writeError(w, http.StatusBadRequest, msgQueryTooShort)
		return
	}
	if err != nil {
		s.internalError(w, r, "record history", err)
		return
	}

	writeJSON(w, http.StatusCreated, historyRecordResponse{Success: true, Entry: toHistoryDTO(*entry)})
}

// handleDeleteHistory takes either ?id=<entry id> or ?clearAll=true.
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.viewer(w, r, true)
	if !ok {
		return
	}

	q := r.URL.Query()
	if clearAll, _ := strconv.ParseBool(q.Get("clearAll")); clearAll {
		n, err := s.history.ClearAll(r.Context(), user.ID)
		if err != nil {
			s.internalError(w, r, "clear history", err)
			return
		}
		writeJSON(w, http.StatusOK, historyDeleteResponse{Success: true, Deleted: n})
		return
	}

	rawID := strings.TrimSpace(q.Get("id"))
	id, err := strconv.ParseInt(rawID, 10, 64)
	if rawID == "" || err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	err = s.history.Delete(r.Context(), user.ID, id)
	if errors.Is(err, domain.ErrHistoryNotFound) {
		writeError(w, http.StatusNotFound, msgEntryNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, "delete history", err)
		return
	}
	writeJSON(w, http.StatusOK, historyDeleteResponse{Success: true, Deleted: 1})
}

// viewer resolves the session. With required set, anonymous callers get 401.
// ok=false means the response is already written.
func (s *Server) viewer(w http.ResponseWriter, r *http.Request, required bool) (*domain.User, bool) {
	user, err := s.sessions.CurrentUser(r)
	if err != nil {
		s.internalError(w, r, "resolve session", err)
		return nil, false
	}
	if user == nil && required {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return nil, false
	}
	return user, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error("request failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("op", op),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"samenvatter/internal/summarizer"

	"github.com/go-chi/chi/v5"
)

type summarizeRequest struct {
	Content string `json:"content"`
}

type editSummaryRequest struct {
	Summary string `json:"summary"`
}

type summaryResponse struct {
	Summary   string `json:"summary"`
	WordCount int    `json:"wordCount"`
	Attempts  int    `json:"attempts"`
	Validated bool   `json:"validated"`
}

type diffResponse struct {
	Status           string  `json:"status"`
	Label            string  `json:"label"`
	CSSClass         string  `json:"cssClass"`
	ChangePercentage float64 `json:"changePercentage"`
	Before           string  `json:"before"`
	After            string  `json:"after"`
}

type checkResponse struct {
	OK      bool   `json:"ok"`
	ModelID string `json:"modelId"`
}

func newSummaryResponse(r summarizer.Result) summaryResponse {
	return summaryResponse{
		Summary:   r.Text,
		WordCount: r.WordCount,
		Attempts:  r.Attempts,
		Validated: r.Validated,
	}
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authorize(r, CapEditPosts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req summarizeRequest
	if err = decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		s.writeError(w, r, summarizer.ErrInvalidInput("Er is geen inhoud meegestuurd."))
		return
	}

	result, err := s.deps.Summaries.Summarize(r.Context(), summarizer.Input{
		Identity: identity(userID),
		Content:  req.Content,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newSummaryResponse(result))
}

func (s *Server) handleGenerateForPost(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authorize(r, CapEditPosts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Summaries.GenerateForPost(r.Context(), identity(userID), postID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newSummaryResponse(result))
}

func (s *Server) handleEditSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authorize(r, CapEditPosts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req editSummaryRequest
	if err = decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err = s.deps.Posts.SaveEditedSummary(r.Context(), postID, req.Summary, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAuditMonth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, CapManageOptions); err != nil {
		s.writeError(w, r, err)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		s.writeError(w, r, summarizer.ErrInvalidInput("Ongeldig jaar."))
		return
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		s.writeError(w, r, summarizer.ErrInvalidInput("Ongeldige maand."))
		return
	}

	report, err := s.deps.Auditor.Month(r.Context(), year, time.Month(month))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleAuditDiff(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, CapManageOptions); err != nil {
		s.writeError(w, r, err)
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.deps.Auditor.Diff(r.Context(), postID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, diffResponse{
		Status:           d.Post.Status.String(),
		Label:            d.Post.Label,
		CSSClass:         d.Post.CSSClass,
		ChangePercentage: d.Post.ChangePercentage,
		Before:           d.Diff.Before,
		After:            d.Diff.After,
	})
}

func (s *Server) handleSettingsCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, CapManageOptions); err != nil {
		s.writeError(w, r, err)
		return
	}

	modelID, err := s.deps.Checker.Check(r.Context(), s.deps.Settings.APIKey, s.deps.Settings.ModelID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, checkResponse{OK: true, ModelID: modelID})
}

func identity(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, summarizer.ErrInvalidInput("Ongeldig bericht-ID.")
	}

	return id, nil
}

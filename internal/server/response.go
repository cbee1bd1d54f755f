package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"samenvatter/internal/domain"
	"samenvatter/internal/ratelimiter"
	"samenvatter/internal/summarizer"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		s.log.ErrorContext(r.Context(), "Failed to write response",
			"error", err,
			"requestID", GetRequestID(r.Context()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := errorResponse(err)

	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", strconv.Itoa(int(ratelimiter.WindowLength.Seconds())))
	}

	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"requestID", GetRequestID(r.Context()),
			"path", r.URL.Path,
			"status", status)
	}

	s.writeJSON(w, r, status, errorBody{Error: detail})
}

func errorResponse(err error) (int, errorDetail) {
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized, errorDetail{Kind: "unauthenticated", Message: "Onbekende gebruiker."}
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, errorDetail{Kind: "forbidden", Message: "Onvoldoende rechten."}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorDetail{Kind: "not_found", Message: "Niet gevonden."}
	}

	kind := summarizer.KindOf(err)
	detail := errorDetail{Kind: kind.String(), Message: summarizer.UserMessage(err)}

	switch kind {
	case summarizer.KindMissingConfig:
		return http.StatusServiceUnavailable, detail
	case summarizer.KindInvalidInput:
		return http.StatusBadRequest, detail
	case summarizer.KindRateLimited:
		return http.StatusTooManyRequests, detail
	case summarizer.KindAPI, summarizer.KindNetwork, summarizer.KindInvalidResponse:
		return http.StatusBadGateway, detail
	default:
		return http.StatusInternalServerError, detail
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return summarizer.ErrInvalidInput("Ongeldige JSON in het verzoek.")
	}

	return nil
}

package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quicksearch/internal/answer"
	"github.com/hyperifyio/quicksearch/internal/extract"
	"github.com/hyperifyio/quicksearch/internal/fetch"
)

// deadlineMessage is returned when the outer deadline fires before the
// bounded task finishes.
const deadlineMessage = "the search took too long and was aborted, please try again"

// unexpectedMessage hides internals on 500s; the detail goes to the log.
const unexpectedMessage = "the search failed unexpectedly, please try again"

type answerResponse struct {
	Result      string  `json:"result"`
	ElapsedTime float64 `json:"elapsed_time"`
}

type scrapeResponse struct {
	*extract.Page
	ElapsedTime float64 `json:"elapsed_time"`
}

type errorResponse struct {
	Error       string  `json:"error"`
	ElapsedTime float64 `json:"elapsed_time"`
}

// elapsedSeconds reports the time since request entry in seconds, rounded to
// two decimals. Every response carries it, errors included.
func elapsedSeconds(start time.Time) float64 {
	return math.Round(time.Since(start).Seconds()*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, start time.Time) {
	writeJSON(w, status, errorResponse{Error: msg, ElapsedTime: elapsedSeconds(start)})
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request, start time.Time) (searchRequest, bool) {
	var req searchRequest
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is missing or not valid JSON", start)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is missing or not valid JSON", start)
		return req, false
	}
	return req, true
}

// answerErrorResponse maps completion failures to a status and user-facing
// message. Recognized upstream conditions are the caller's to deal with
// (400); anything else is unexpected (500).
func answerErrorResponse(err error) (int, string) {
	var up *answer.UpstreamError
	switch {
	case errors.Is(err, answer.ErrTimeout),
		errors.Is(err, answer.ErrRateLimited):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &up):
		return http.StatusBadRequest, up.Error()
	}
	return http.StatusInternalServerError, unexpectedMessage
}

// scrapeErrorResponse maps fetch and extraction failures to a status and
// user-facing message. The closed error set from those packages is
// user-correctable (400); anything outside it is unexpected (500).
func scrapeErrorResponse(err error) (int, string) {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, extract.ErrInvalidURL),
		errors.Is(err, extract.ErrParse),
		errors.Is(err, fetch.ErrTimeout),
		errors.Is(err, fetch.ErrConnection):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &se):
		return http.StatusBadRequest, se.Error()
	}
	return http.StatusInternalServerError, unexpectedMessage
}

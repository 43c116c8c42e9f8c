package server

import (
	"context"
	_ "embed"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quicksearch/internal/answer"
	"github.com/hyperifyio/quicksearch/internal/config"
	"github.com/hyperifyio/quicksearch/internal/extract"
	"github.com/hyperifyio/quicksearch/internal/fetch"
	"github.com/hyperifyio/quicksearch/internal/task"
)

// maxQueryRunes caps accepted query length on the answer variant.
const maxQueryRunes = 1000

//go:embed index.html
var indexHTML []byte

// searchRequest is the JSON body of POST /search. The answer variant reads
// Query; the scrape variant reads URL plus an optional Query filter.
type searchRequest struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

type handler struct {
	cfg      config.Config
	answerer *answer.Answerer
	fetcher  *fetch.Client
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": float64(time.Now().UnixMilli()) / 1000,
	})
}

func (h *handler) answerSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeSearchRequest(w, r, start)
	if !ok {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty", start)
		return
	}
	if utf8.RuneCountInString(query) > maxQueryRunes {
		writeError(w, http.StatusBadRequest, "query is too long (1000 characters or fewer)", start)
		return
	}

	out := task.Run(r.Context(), h.cfg.AnswerDeadline, func(ctx context.Context) (string, error) {
		return h.answerer.Answer(ctx, query)
	})
	switch {
	case out.TimedOut:
		writeError(w, http.StatusInternalServerError, deadlineMessage, start)
	case out.Err != nil:
		status, msg := answerErrorResponse(out.Err)
		if status == http.StatusInternalServerError {
			log.Error().Err(out.Err).Msg("answer search failed")
		}
		writeError(w, status, msg, start)
	default:
		writeJSON(w, http.StatusOK, answerResponse{
			Result:      out.Value,
			ElapsedTime: elapsedSeconds(start),
		})
	}
}

func (h *handler) scrapeSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeSearchRequest(w, r, start)
	if !ok {
		return
	}
	target := strings.TrimSpace(req.URL)
	if target == "" {
		writeError(w, http.StatusBadRequest, "url must not be empty", start)
		return
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	// Reject malformed URLs before any network I/O.
	if _, err := extract.ValidateURL(target); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), start)
		return
	}
	query := strings.TrimSpace(req.Query)

	out := task.Run(r.Context(), h.cfg.ScrapeDeadline, func(ctx context.Context) (*extract.Page, error) {
		body, err := h.fetcher.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		return extract.Extract(body, target, query)
	})
	switch {
	case out.TimedOut:
		writeError(w, http.StatusInternalServerError, deadlineMessage, start)
	case out.Err != nil:
		status, msg := scrapeErrorResponse(out.Err)
		if status == http.StatusInternalServerError {
			log.Error().Err(out.Err).Str("url", target).Msg("scrape search failed")
		}
		writeError(w, status, msg, start)
	default:
		writeJSON(w, http.StatusOK, scrapeResponse{
			Page:        out.Value,
			ElapsedTime: elapsedSeconds(start),
		})
	}
}

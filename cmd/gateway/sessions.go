package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"doc-digest/internal/app"
	"doc-digest/internal/extract"
	"doc-digest/internal/httputil"
	"doc-digest/internal/session"
	"doc-digest/internal/summarizer"
)

type urlRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

type questionRequest struct {
	Question string `json:"question" validate:"max=2000"`
}

// sessionView is the public shape of a session. The retained context is
// reported by size only.
type sessionView struct {
	ID           string        `json:"id"`
	State        session.State `json:"state"`
	Source       string        `json:"source,omitempty"`
	Origin       string        `json:"origin,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	ContextChars int           `json:"context_chars"`
	Question     string        `json:"question,omitempty"`
	Answer       string        `json:"answer,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		ID:           s.ID,
		State:        s.State,
		Source:       s.Source,
		Origin:       s.Origin,
		Summary:      s.Summary,
		ContextChars: extract.CharCount(s.Context),
		Question:     s.Question,
		Answer:       s.Answer,
		LastError:    s.LastError,
		UpdatedAt:    s.UpdatedAt,
	}
}

func createSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := deps.Sessions.Create(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to create session", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, viewOf(s))
	}
}

func getSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(deps, w, r)
		if !ok {
			return
		}
		httputil.WriteJSON(w, http.StatusOK, viewOf(s))
	}
}

func deleteSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			httputil.Fail(deps.Log, w, "failed to delete session", err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func summarizeURLHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req urlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		s, ok := loadSession(deps, w, r)
		if !ok {
			return
		}

		res, err := deps.Summarizer.SummarizeURL(r.Context(), req.URL)
		recordSummary(r.Context(), deps, w, s.ID, string(extract.KindWeb), req.URL, res, err)
	}
}

func summarizePDFHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		// Validate file size before parsing
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusRequestEntityTooLarge)
			return
		}
		s, ok := loadSession(deps, w, r)
		if !ok {
			return
		}

		// Multipart framing adds a little on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+64<<10)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), err, http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusRequestEntityTooLarge)
			return
		}

		// If Content-Type is missing, detect from filename
		contentType := header.Header.Get("Content-Type")
		if contentType == "" && strings.ToLower(filepath.Ext(header.Filename)) == ".pdf" {
			contentType = "application/pdf"
		}
		if contentType != "application/pdf" {
			httputil.Fail(deps.Log, w, "unsupported file type (only PDF allowed)", nil, http.StatusUnsupportedMediaType)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		res, err := deps.Summarizer.SummarizePDF(r.Context(), content)
		recordSummary(r.Context(), deps, w, s.ID, string(extract.KindPDF), header.Filename, res, err)
	}
}

// recordSummary moves the session to its post-summarize state and writes
// the response. A failed summarize clears the session's context.
func recordSummary(ctx context.Context, deps app.Deps, w http.ResponseWriter, id, source, origin string, res summarizer.Result, sumErr error) {
	now := time.Now().UTC()
	s, err := deps.Sessions.Update(ctx, id, func(s *session.Session) error {
		if sumErr != nil {
			s.Failed(source, origin, summarizer.Message(sumErr), now)
			return nil
		}
		s.Summarized(source, origin, res.Summary, res.Context, now)
		return nil
	})
	if err != nil {
		failSession(deps.Log, w, err)
		return
	}

	if sumErr != nil {
		failSummarizer(deps.Log.With("session_id", id), w, sumErr, viewOf(s))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"session": viewOf(s),
		"summary": res.Summary,
		"context": res.Context,
		"cached":  res.Cached,
	})
}

func questionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		s, ok := loadSession(deps, w, r)
		if !ok {
			return
		}
		log := deps.Log.With("session_id", s.ID)

		revision := s.Revision
		answer, err := deps.Summarizer.Answer(r.Context(), req.Question, s.Context)
		if err != nil {
			failSummarizer(log, w, err, viewOf(s))
			return
		}

		now := time.Now().UTC()
		updated, err := deps.Sessions.Update(r.Context(), s.ID, func(s *session.Session) error {
			return s.Answered(revision, strings.TrimSpace(req.Question), answer, now)
		})
		if err != nil {
			failSession(log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"session": viewOf(updated),
			"answer":  answer,
		})
	}
}

func loadSession(deps app.Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := deps.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failSession(deps.Log, w, err)
		return nil, false
	}
	return s, true
}

func failSession(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		httputil.Fail(log, w, "session not found", err, http.StatusNotFound)
	case errors.Is(err, session.ErrStale):
		httputil.Fail(log, w, "session was re-summarized before the answer arrived", err, http.StatusConflict)
	case errors.Is(err, session.ErrNotSummarized):
		httputil.Fail(log, w, "session was reset before the answer arrived", err, http.StatusConflict)
	default:
		httputil.Fail(log, w, "session store failed", err, http.StatusInternalServerError)
	}
}

// failSummarizer writes the user-facing message for a summarize or answer
// failure along with its kind.
func failSummarizer(log *slog.Logger, w http.ResponseWriter, err error, view sessionView) {
	status := statusFor(err)
	kind := summarizer.KindOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "kind", kind, "err", err)
	} else {
		log.Warn("request rejected", "kind", kind, "err", err)
	}
	httputil.WriteJSON(w, status, map[string]any{
		"error":   summarizer.Message(err),
		"kind":    kind,
		"session": view,
	})
}

func statusFor(err error) int {
	var se *extract.StatusError
	switch {
	case summarizer.KindOf(err) == summarizer.KindInit:
		return http.StatusServiceUnavailable
	case errors.Is(err, summarizer.ErrNoContext):
		return http.StatusConflict
	case errors.Is(err, summarizer.ErrNoQuestion), errors.Is(err, extract.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, summarizer.ErrNoContent), errors.Is(err, extract.ErrInvalidPDF), errors.Is(err, extract.ErrUnreachable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extract.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &se), errors.Is(err, extract.ErrFetch), errors.Is(err, extract.ErrBodyTooLarge):
		return http.StatusBadGateway
	case summarizer.KindOf(err) == summarizer.KindInvocation:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

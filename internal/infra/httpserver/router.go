package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appreviews "github.com/leaselens/leaselens/internal/application/reviews"
	domai "github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/middleware"
)

type Router struct {
	svc            *appreviews.Service
	maxUploadBytes int64
	adminKey       string
}

// NewRouter wires the review service behind the JSON surface the browser
// client consumes.
func NewRouter(svc *appreviews.Service, maxUploadMB int, adminKey string) http.Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	r := &Router{
		svc:            svc,
		maxUploadBytes: int64(maxUploadMB) << 20,
		adminKey:       adminKey,
	}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/sessions", r.wrap(r.handleCreateSession))
		rt.Route("/sessions/{id}", func(st chi.Router) {
			st.Get("/", r.wrap(r.handleGetSession))
			st.Post("/file", r.wrap(r.handleUploadFile))
			st.Post("/analyze", r.wrap(r.handleAnalyze))
			st.Post("/email", r.wrap(r.handleDraftEmail))
			st.Post("/reset", r.wrap(r.handleReset))
		})

		rt.Group(func(at chi.Router) {
			at.Use(middleware.AdminKeyAuth(r.adminKey))
			at.Get("/reviews", r.wrap(r.handleListReviews))
			at.Get("/reviews/{id}", r.wrap(r.handleGetReview))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, appreviews.ErrSessionNotFound), errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, appreviews.ErrAnalysisInFlight):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, appreviews.ErrNoReport), errors.Is(err, appreviews.ErrBadTransition):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, appreviews.ErrNoDocument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "model quota exceeded", http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func sessionID(req *http.Request) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", fmt.Errorf("%w: %s", appreviews.ErrSessionNotFound, id)
	}
	return id, nil
}

// POST /v1/sessions
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	sess := r.svc.Sessions.Create()
	return writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// GET /v1/sessions/{id}
func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	sess, err := r.svc.Sessions.Get(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess.Snapshot())
}

// POST /v1/sessions/{id}/file
// multipart form with a single "document" part; any previous selection is
// replaced wholesale.
func (r *Router) handleUploadFile(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}

	req.Body = http.MaxBytesReader(w, req.Body, r.maxUploadBytes)
	file, header, err := req.FormFile("document")
	if err != nil {
		return fmt.Errorf("%w: missing document part", appreviews.ErrNoDocument)
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if err := middleware.ValidateMediaType(mediaType); err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	name := middleware.SanitizeFileName(header.Filename)
	if err := r.svc.SelectFile(id, name, data, mediaType); err != nil {
		return err
	}

	sess, err := r.svc.Sessions.Get(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess.Snapshot())
}

// POST /v1/sessions/{id}/analyze
// Confirms the selected file. The model call runs in the background; the
// client polls GET /v1/sessions/{id} for the phase and outcome.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	if err := r.svc.StartAnalysis(id); err != nil {
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, http.StatusAccepted, map[string]any{
		"id":     id,
		"status": "analyzing",
	})
}

// POST /v1/sessions/{id}/email
// Body: {"include_attention": bool, "include_missing": bool}
func (r *Router) handleDraftEmail(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}

	var body struct {
		IncludeAttention bool `json:"include_attention"`
		IncludeMissing   bool `json:"include_missing"`
	}
	if req.Body != nil && req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode request body: %w", err)
		}
	}

	text, err := r.svc.DraftEmail(req.Context(), id, body.IncludeAttention, body.IncludeMissing)
	if err != nil {
		return err
	}
	middleware.IncrementEmailDrafts()

	return writeJSON(w, http.StatusOK, map[string]string{"email": text})
}

// POST /v1/sessions/{id}/reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	sess, err := r.svc.Sessions.Get(id)
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess.Snapshot())
}

// GET /v1/reviews?page=&page_size=
func (r *Router) handleListReviews(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.History(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/reviews/{id}
func (r *Router) handleGetReview(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	rev, err := r.svc.GetReview(req.Context(), id)
	if err != nil {
		return err
	}
	if rev == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return nil
	}
	return writeJSON(w, http.StatusOK, rev)
}

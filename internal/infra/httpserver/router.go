package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bryanwahyu/shoplens/internal/application/analysis"
	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
	"github.com/bryanwahyu/shoplens/internal/middleware"
)

type Router struct {
	svc *appanalysis.Service
}

func NewRouter(svc *appanalysis.Service) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Get("/status/{jobId}", r.wrap(r.handleStatus))
	mux.Get("/results/{jobId}", r.wrap(r.handleResults))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain sentinel errors to status codes; anything else is a 500.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, "Invalid Meesho URL")
		case errors.Is(err, domain.ErrJobNotFound):
			writeError(w, http.StatusNotFound, "Job not found")
		case errors.Is(err, domain.ErrResultNotFound):
			writeError(w, http.StatusNotFound, "Result not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /analyze
// Body: {"url": "<product page>"}
// Balikin {jobId, status:"started"}, atau langsung AnalysisResult kalau
// cache hit (caller bedakan lewat field jobId vs product).
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if body.URL == "" {
		return domain.ErrInvalidURL
	}
	// tolak scheme aneh dan alamat internal sebelum di-scrape (SSRF)
	if err := middleware.ValidateURL(body.URL); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	outcome, err := r.svc.Submit(req.Context(), body.URL)
	if err != nil {
		return err
	}
	if outcome.Cached != nil {
		return writeJSON(w, outcome.Cached)
	}

	middleware.IncrementAnalyses()
	return writeJSON(w, map[string]any{
		"jobId":  outcome.JobID,
		"status": "started",
	})
}

// GET /status/{jobId}
func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) error {
	jobID := domain.JobID(chi.URLParam(req, "jobId"))

	job, err := r.svc.GetStatus(req.Context(), jobID)
	if err != nil {
		return err
	}
	return writeJSON(w, job)
}

// GET /results/{jobId}?range=1m|6m|life (default 1m)
func (r *Router) handleResults(w http.ResponseWriter, req *http.Request) error {
	jobID := domain.JobID(chi.URLParam(req, "jobId"))
	tr := domain.ParseTimeRange(req.URL.Query().Get("range"))

	result, err := r.svc.GetResult(req.Context(), jobID, tr)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

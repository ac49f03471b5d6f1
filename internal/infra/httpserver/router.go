package httpserver

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/insight/internal/application/analysis"
	"github.com/bryanwahyu/insight/internal/config"
	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
	"github.com/bryanwahyu/insight/internal/middleware"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

type Router struct {
	svc     *appanalysis.Service
	cfg     *config.Config
	logger  *log.Logger
	limiter *middleware.RateLimiter
	mux     chi.Router
}

func NewRouter(svc *appanalysis.Service, cfg *config.Config, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r := &Router{
		svc:     svc,
		cfg:     cfg,
		logger:  logger,
		limiter: middleware.NewRateLimiter(cfg.Limits.RateCapacity, cfg.Limits.RateRefillPerSec),
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/", r.handleIndex)
	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{"ai": svc}))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Use(middleware.RateLimit(r.limiter, cfg.Server.TrustProxy))
		rt.Use(middleware.LimitBody(cfg.Limits.MaxBodyBytes))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
	})

	r.mux = mux
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close stops background work owned by the router.
func (r *Router) Close() {
	r.limiter.Close()
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			middleware.RecordAnalysis(middleware.OutcomeSuccess)
			return
		}

		status := http.StatusInternalServerError
		outcome := middleware.OutcomeFailed
		switch {
		case errors.Is(err, domain.ErrNotConfigured):
			status = http.StatusServiceUnavailable
			outcome = middleware.OutcomeRejected
		case errors.Is(err, domain.ErrInvalidInput):
			status = http.StatusBadRequest
			outcome = middleware.OutcomeRejected
		}
		middleware.RecordAnalysis(outcome)
		r.logger.Printf("analysis error request_id=%s status=%d err=%v",
			middleware.GetRequestID(req.Context()), status, err)
		writeJSON(w, status, map[string]string{"error": domain.PublicMessage(err)})
	}
}

// POST /api/analyze
// Body: {"input": "<text>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.Ready(); err != nil {
		return err
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body == nil {
		return domain.InvalidInput(domain.MsgInvalidBody)
	}
	var input string
	raw, ok := body["input"]
	if !ok || json.Unmarshal(raw, &input) != nil {
		return domain.InvalidInput(domain.MsgInputRequired)
	}

	res, err := r.svc.Analyze(req.Context(), input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

type indexData struct {
	Title               string
	MaxInputChars       int
	Phases              []string
	PhaseIntervalMillis int64
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, indexData{
		Title:               "Insight",
		MaxInputChars:       r.cfg.AI.MaxInputChars,
		Phases:              domain.Phases,
		PhaseIntervalMillis: domain.PhaseInterval.Milliseconds(),
	})
	if err != nil {
		r.logger.Printf("render index: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

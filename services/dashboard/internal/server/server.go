package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airstream/internal/metrics"
	"airstream/internal/ratelimit"
	"airstream/internal/util"
	"airstream/pkg/auth"
	"airstream/pkg/autosave"
	"airstream/pkg/directory"
	"airstream/pkg/session"
	"airstream/services/dashboard/internal/app"
	"airstream/services/dashboard/internal/security"
)

const (
	maxBodyBytes = 1 << 20

	msgUnexpected   = "An unexpected error occurred"
	msgInvalidJSON  = "Invalid JSON body."
	msgUnauthorized = "Authentication required."
	msgRateLimited  = "Too many attempts. Please try again later."
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// AuthCookieMaxAge defaults to 24 hours.
	AuthCookieMaxAge time.Duration
	AuthCookieSecure bool
	TrustedProxies   *util.TrustedProxies
	AllowedOrigins   []string
}

// Server exposes the dashboard views and JSON API.
type Server struct {
	app          *app.App
	cookieMaxAge time.Duration
	cookieSecure bool
	proxies      *util.TrustedProxies
	router       chi.Router
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:          cfg.App,
		cookieMaxAge: cfg.AuthCookieMaxAge,
		cookieSecure: cfg.AuthCookieSecure,
		proxies:      cfg.TrustedProxies,
	}
	if s.cookieMaxAge <= 0 {
		s.cookieMaxAge = 24 * time.Hour
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(util.WithRequestID)
	r.Use(util.WithRequestLog)
	r.Use(metrics.WithRequestMetrics)
	r.Use(func(next http.Handler) http.Handler { return util.WithCORS(cfg.AllowedOrigins, next) })
	r.Use(util.WithSecurityHeaders)
	r.Use(s.routeGuard)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})
	s.router = r
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// views
	r.Get("/", s.handleRoot)
	r.Get("/login", s.handleLoginView)
	r.Get("/forgot-password", s.handleForgotPasswordView)
	r.Get("/verify-code", s.handleVerifyCodeView)
	r.Get("/reset-password", s.handleResetPasswordView)
	r.Get("/reset-success", s.handleResetSuccessView)
	r.Get("/dashboard", s.handleDashboardView)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(s.rateLimited).Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/session", s.handleSession)
		r.With(s.rateLimited).Post("/reset/email", s.handleResetEmail)
		// Wrong codes may be retried without limit; failures are still audited.
		r.Post("/reset/code", s.handleResetCode)
		r.With(s.rateLimited).Post("/reset/password", s.handleResetPassword)
	})

	r.Route("/api/assets", func(r chi.Router) {
		r.Get("/", s.handleListAssets)
		r.Post("/", s.handleCreateAsset)
		r.Get("/{id}", s.handleSelectAsset)
		r.Put("/{id}", s.handleUpdateAsset)
		r.Delete("/{id}", s.handleDeleteAsset)
	})

	r.Route("/api/view", func(r chi.Router) {
		r.Get("/", s.handleGetView)
		r.Patch("/", s.handlePatchView)
		r.Post("/new", s.handleBeginCreate)
		r.Post("/close", s.handleCloseDetails)
	})

	r.Put("/api/drafts/current", s.handleEditDraft)
	r.Get("/api/drafts/autosaved", s.handleAutoSavedDraft)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// audit logs a security_event and feeds failures to the alerter.
func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	ip := s.clientIP(r)
	logger := util.LoggerFromContext(r.Context())
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", ip,
	}
	logAttrs = append(logAttrs, attrs...)
	metrics.AuthEventsTotal.WithLabelValues(event, outcome).Inc()
	if outcome == security.OutcomeSuccess {
		logger.Info("security_event", logAttrs...)
	} else {
		logger.Warn("security_event", logAttrs...)
	}

	result, err := s.app.Alerter().Observe(r.Context(), event, outcome, ip)
	if err != nil {
		logger.Warn("security alert counter failed", "event", event, "err", err)
		return
	}
	if result.Triggered {
		logger.Error("security_alert",
			"event", event,
			"outcome", outcome,
			"ip", ip,
			"count", result.Count,
			"threshold", result.Threshold,
			"window", result.Window.String(),
		)
	}
}

// rateLimited applies the auth limiter per path and client address.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := s.app.Limiter()
		if limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		decision := limiter.Allow(r.Context(), r.URL.Path+"|"+s.clientIP(r))
		if decision.Allowed {
			next.ServeHTTP(w, r)
			return
		}
		s.audit(r, auditEvent(r.URL.Path), security.OutcomeRateLimited)
		w.Header().Set("Retry-After", retryAfterSeconds(decision))
		writeError(w, http.StatusTooManyRequests, msgRateLimited)
	})
}

func retryAfterSeconds(d ratelimit.Decision) string {
	secs := int(d.RetryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func auditEvent(path string) string {
	switch path {
	case "/api/auth/login":
		return security.EventLogin
	case "/api/auth/reset/email":
		return security.EventResetEmail
	case "/api/auth/reset/password":
		return security.EventResetPass
	default:
		return "auth.unknown"
	}
}

func (s *Server) clientIP(r *http.Request) string {
	return util.ClientIP(r, s.proxies)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Message: msg})
}

// respondError maps user-facing errors to their message and hides the rest.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, status, msg)
}

func errorStatus(err error) (int, string) {
	var validation *directory.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, session.ErrEmailNotFound),
		errors.Is(err, directory.ErrAssetNotFound),
		errors.Is(err, autosave.ErrNoSnapshot):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, session.ErrInvalidVerificationCode),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrPasswordLength),
		errors.Is(err, auth.ErrPasswordMissingDigit),
		errors.Is(err, auth.ErrPasswordMissingSpecial):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrResetOutOfOrder),
		errors.Is(err, directory.ErrNotEditing):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, msgUnexpected
	}
}

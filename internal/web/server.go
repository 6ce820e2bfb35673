package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/jub0bs/fcors"

	"github.com/vbonduro/atozbnb/internal/auth"
	"github.com/vbonduro/atozbnb/internal/service"
)

// Options tunes cookie and cross-origin behaviour of the API.
type Options struct {
	CookieSecure bool
	// CORSOrigins enables credentialed cross-origin access for these origins.
	CORSOrigins []string
}

type Server struct {
	spots   *service.SpotService
	reviews *service.ReviewService
	users   *service.UserService
	tokens  *auth.Tokens
	opts    Options
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
}

func NewServer(
	spots *service.SpotService,
	reviews *service.ReviewService,
	users *service.UserService,
	tokens *auth.Tokens,
	opts Options,
	logger *slog.Logger,
) (*Server, error) {
	s := &Server{
		spots:   spots,
		reviews: reviews,
		users:   users,
		tokens:  tokens,
		opts:    opts,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()

	var h http.Handler = s.restoreUser(s.verifyCSRF(s.mux))
	if len(opts.CORSOrigins) > 0 {
		cors, err := fcors.AllowAccessWithCredentials(
			fcors.FromOrigins(opts.CORSOrigins[0], opts.CORSOrigins[1:]...),
			fcors.WithMethods(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete),
			fcors.WithRequestHeaders("Content-Type", auth.CSRFHeader),
		)
		if err != nil {
			return nil, err
		}
		h = cors(h)
	}
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(false),
	)
	s.handler = recovery(requestLogger(logger, securityHeaders(h)))
	return s, nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/csrf/restore", s.handleRestoreCSRF)

	s.mux.HandleFunc("GET /api/session", s.handleGetSession)
	s.mux.HandleFunc("POST /api/session", s.handleLogin)
	s.mux.HandleFunc("DELETE /api/session", s.handleLogout)
	s.mux.HandleFunc("POST /api/users", s.handleSignup)
	s.mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)

	s.mux.HandleFunc("GET /api/spots", s.handleListSpots)
	s.mux.HandleFunc("POST /api/spots", s.requireAuth(s.handleCreateSpot))
	s.mux.HandleFunc("GET /api/spots/{id}", s.handleGetSpot)
	s.mux.HandleFunc("PUT /api/spots/{id}", s.requireAuth(s.handleUpdateSpot))
	s.mux.HandleFunc("DELETE /api/spots/{id}", s.requireAuth(s.handleDeleteSpot))
	s.mux.HandleFunc("POST /api/spots/{id}/images", s.requireAuth(s.handleAddSpotImage))
	s.mux.HandleFunc("GET /images/{key}", s.handleGetImage)

	s.mux.HandleFunc("GET /api/spots/{id}/reviews", s.handleListReviews)
	s.mux.HandleFunc("POST /api/spots/{id}/reviews", s.requireAuth(s.handleCreateReview))
	s.mux.HandleFunc("DELETE /api/reviews/{id}", s.requireAuth(s.handleDeleteReview))

	s.mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "The requested resource couldn't be found.", nil)
	})
}

// securityHeaders sets browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// Package http serves the web dashboard, the JSON API and the live refresh
// socket on top of the per-session trackers.
package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gestor/internal/charts"
	applog "gestor/internal/log"
	"gestor/internal/middleware/ratelimit"
	"gestor/internal/middleware/security"
	"gestor/internal/middleware/trace"
	"gestor/internal/session"
	appweb "gestor/web"
)

// Options wires the server to its collaborators. Nil middleware components
// are created with their defaults.
type Options struct {
	Addr          string
	Sessions      *session.Manager
	Charts        *charts.Generator
	Limiter       *ratelimit.Limiter
	Detector      *security.Detector
	Headers       security.HeadersConfig
	Logger        *applog.Logger
	ToastDuration time.Duration
	SessionTTL    time.Duration
}

// appMetrics counts submissions across every session.
type appMetrics struct {
	accepted atomic.Int64
	rejected atomic.Int64
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Manager
	charts    *charts.Generator
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	trace     *trace.Middleware
	live      *LiveHub
	logger    *applog.Logger

	toastDuration time.Duration
	sessionTTL    time.Duration
	started       time.Time
	metrics       appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run http.Server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.Discard()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewManager(session.Options{}, opts.Logger)
	}
	if opts.Charts == nil {
		opts.Charts = charts.NewGenerator()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	if opts.Detector == nil {
		opts.Detector = security.NewDetector()
	}
	if opts.Headers.CSP == "" {
		opts.Headers = security.DefaultHeadersConfig()
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 2500 * time.Millisecond
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		sessions:      opts.Sessions,
		charts:        opts.Charts,
		limiter:       opts.Limiter,
		detector:      opts.Detector,
		trace:         trace.NewMiddleware(opts.Logger.WithComponent(applog.ComponentTrace), opts.Detector.ExtractClientIP),
		live:          NewLiveHub(opts.Logger),
		logger:        logger,
		toastDuration: opts.ToastDuration,
		sessionTTL:    opts.SessionTTL,
		started:       time.Now(),
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpParse)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /account", s.handleUpdateAccount)

	mux.Handle("GET /{$}", security.NoStore(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("GET /ui/summary", security.NoStore(http.HandlerFunc(s.handleSummary)))
	mux.HandleFunc("POST /period", s.handleSetPeriod)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.Handle("GET /chart/categories.png", security.NoStore(http.HandlerFunc(s.handleCategoryChart)))

	mux.HandleFunc("GET /api/aggregates", s.handleAPIAggregates)
	mux.HandleFunc("POST /api/transactions", s.handleAPICreateTransaction)
	mux.HandleFunc("POST /api/period", s.handleAPISetPeriod)

	mux.HandleFunc("GET /ws", s.handleLive)

	headers := security.NewHeadersMiddleware(opts.Headers)
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited, http.MethodPost)

	var handler http.Handler = mux
	handler = limited(handler)
	handler = headers.Middleware(handler)
	handler = s.trace.Middleware(handler)
	handler = s.detector.Middleware(handler)
	s.Handler = handler

	return s
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

// onRateLimited answers throttled POSTs with a toast for htmx and plain text
// otherwise. Retry-After is already set.
func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	if isHTMX(r) {
		NewHTMXResponse().
			Status(http.StatusTooManyRequests).
			TriggerNotification(NotificationError, "Demasiadas solicitudes, probá en un minuto.", s.toastDuration).
			Write(w)
		return
	}
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// Run serves until ctx is cancelled, then shuts it down
// within the given grace period.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown closes live connections and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info("HTTP server shutting down", applog.FieldOperation, applog.OpShutdown)
		s.live.CloseAll()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

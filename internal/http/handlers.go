package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	applog "gestor/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the server can render pages.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	checks["sessions"] = map[string]any{
		"active": s.sessions.Count(),
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}
	checks["live"] = map[string]any{
		"connections": s.live.Count(),
		"status":      "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", s.trace.TotalRequests())
	writeMetric(w, "transactions_accepted_total", "counter", "Submissions stored", s.metrics.accepted.Load())
	writeMetric(w, "transactions_rejected_total", "counter", "Submissions rejected by validation", s.metrics.rejected.Load())
	writeMetric(w, "rate_limit_hits_total", "counter", "Total rate limit hits", s.limiter.Hits())
	writeMetric(w, "suspicious_requests_total", "counter", "Total suspicious requests detected", s.detector.SuspiciousRequests())
	writeMetric(w, "active_sessions", "gauge", "Live sessions", int64(s.sessions.Count()))
	writeMetric(w, "live_connections", "gauge", "Open live refresh sockets", int64(s.live.Count()))
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", int64(s.limiter.ActiveClients()))
	writeMetric(w, "uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.started).Seconds()))
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n\n", name, value)
}

var errTemplatesMissing = errors.New("templates not loaded")

// renderPartial executes a named template into memory.
func (s *Server) renderPartial(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, errTemplatesMissing
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// render writes a full template response, answering 500 when templates are
// missing or execution fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	body, err := s.renderPartial(name, data)
	if err != nil {
		s.logRenderError(r, name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) logRenderError(r *http.Request, name string, err error) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate)
	if errors.Is(err, errTemplatesMissing) {
		logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			"error_type", applog.ErrorTypeConfiguration)
		return
	}
	logger.ErrorContext(r.Context(), "Template execution failed",
		applog.FieldError, err,
		"template", name,
		applog.FieldOperation, applog.OpRender)
}

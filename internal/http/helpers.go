package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	applog "gestor/internal/log"
	"gestor/internal/session"
)

// SessionCookie names the cookie holding the session id.
const SessionCookie = "gestor_session"

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, s *session.Session, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentSession returns the live session referenced by the request cookie.
func (s *Server) currentSession(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

// requireSession resolves the session or answers the request itself: API
// clients get a JSON 401, htmx gets an HX-Redirect and browsers a 303 to
// the login page.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.currentSession(r)
	if ok {
		return sess, true
	}
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		writeJSONError(w, http.StatusUnauthorized, "not signed in")
	case isHTMX(r):
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
	return nil, false
}

// requestLogger returns the request-scoped logger enriched with the session id.
func requestLogger(r *http.Request, sess *session.Session) *applog.Logger {
	logger := applog.FromContext(r.Context())
	if sess != nil {
		logger = logger.With(applog.NewFields().WithSession(sess.ID).ToSlice()...)
	}
	return logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

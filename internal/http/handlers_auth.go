package http

import (
	"errors"
	"net/http"

	applog "gestor/internal/log"
	"gestor/internal/session"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentSession(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", loginView{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	email := sanitizeInput(r.Form.Get("email"))

	sess, err := s.sessions.Login(r.Context(), email, r.Form.Get("password"))
	if err != nil {
		s.loginFailed(w, r, loginView{Email: email}, err)
		return
	}
	s.signedIn(w, r, sess)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	email := sanitizeInput(r.Form.Get("email"))

	sess, err := s.sessions.Register(r.Context(), name, email, r.Form.Get("password"))
	if err != nil {
		s.loginFailed(w, r, loginView{Email: email, Name: name}, err)
		return
	}
	s.signedIn(w, r, sess)
}

func (s *Server) signedIn(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	setSessionCookie(w, r, sess, s.sessionTTL)
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginFailed re-renders the login page with the reason and a 422 status.
func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, view loginView, err error) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentSession).WarnContext(r.Context(), "Sign in rejected",
		applog.FieldError, err,
		"error_type", applog.ErrorTypeAuth)

	view.Error = "Ingresá email y contraseña."
	if errors.Is(err, session.ErrMissingAccountData) {
		view.Error = "Ingresá tu nombre."
	}
	body, rerr := s.renderPartial("login.html", view)
	if rerr != nil {
		s.logRenderError(r, "login.html", rerr)
		UnprocessableEntityError(view.Error).Write(w)
		return
	}
	NewHTMXResponse().
		Status(http.StatusUnprocessableEntity).
		BodyHTML(string(body)).
		Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.currentSession(r); ok {
		s.sessions.Logout(r.Context(), sess.ID)
	}
	clearSessionCookie(w)
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Formato de solicitud inválido").Write(w)
		return
	}

	user, err := s.sessions.UpdateAccount(r.Context(), sess.ID, parser.Get("name"), parser.Get("email"))
	switch {
	case errors.Is(err, session.ErrMissingAccountData):
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			TriggerNotification(NotificationError, "Completá nombre y email.", s.toastDuration).
			Write(w)
		return
	case err != nil:
		requestLogger(r, sess).ErrorContext(r.Context(), "Account update failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpUpdate)
		InternalServerError("No se pudo actualizar la cuenta").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerAccountUpdated(user.Name, user.Email).
		TriggerNotification(NotificationSuccess, "Cuenta actualizada", s.toastDuration).
		Write(w)
}

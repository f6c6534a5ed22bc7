package http

import (
	"net/http"

	"gestor/internal/core"
	applog "gestor/internal/log"
	"gestor/internal/session"
)

// handleDashboard renders the main dashboard page for the selected period.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	agg, err := sess.Tracker.Current(r.Context())
	if err != nil {
		s.aggregateFailed(w, r, sess, err)
		return
	}

	view := dashboardView{
		User:       newUserView(sess.User()),
		Today:      sess.Tracker.Today().String(),
		Categories: core.Categories,
		Methods:    core.Methods,
		Default:    core.DefaultCategory,
		Summary:    newSummaryView(agg),
		ToastMs:    s.toastDuration.Milliseconds(),
	}
	s.render(w, r, "dashboard.html", view)
}

// handleSummary returns the summary partial. A period query parameter
// previews another window without changing the selection.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	p, err := ParsePeriodParam(r.URL.Query(), sess.Tracker.Period())
	if err != nil {
		BadRequestError("Período desconocido").Write(w)
		return
	}
	agg, err := sess.Tracker.Aggregates(r.Context(), p)
	if err != nil {
		s.aggregateFailed(w, r, sess, err)
		return
	}
	s.render(w, r, "summary", newSummaryView(agg))
}

// handleSetPeriod changes the selected period and answers with the refreshed
// summary.
func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Formato de solicitud inválido").Write(w)
		return
	}
	p, err := core.ParsePeriod(parser.Get("period"))
	if err == nil {
		err = sess.Tracker.SetPeriod(p)
	}
	if err != nil {
		requestLogger(r, sess).WarnContext(r.Context(), "Period change rejected",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpSetPeriod)
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			TriggerNotification(NotificationError, "Período desconocido", s.toastDuration).
			Write(w)
		return
	}

	agg, err := sess.Tracker.Aggregates(r.Context(), p)
	if err != nil {
		s.aggregateFailed(w, r, sess, err)
		return
	}
	body, err := s.renderPartial("summary", newSummaryView(agg))
	if err != nil {
		s.logRenderError(r, "summary", err)
		InternalServerError("No se pudo actualizar el resumen").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerPeriodChanged(p).
		BodyHTML(string(body)).
		Write(w)
}

// handleCategoryChart renders the expense pie of a period as PNG.
func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	p, err := ParsePeriodParam(r.URL.Query(), sess.Tracker.Period())
	if err != nil {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}
	agg, err := sess.Tracker.Aggregates(r.Context(), p)
	if err != nil {
		s.aggregateFailed(w, r, sess, err)
		return
	}
	img, err := s.charts.CategoryPie(agg.Breakdown)
	if err != nil {
		applog.NewStructuredLogger(requestLogger(r, sess)).LogError(r.Context(), "Chart rendering failed", err,
			applog.ComponentChart, applog.OpRender, applog.NewFields().WithPeriod(p))
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	NewHTMXResponse().
		Header("Content-Type", "image/png").
		Header("Cache-Control", "no-store").
		Body(img).
		Write(w)
}

func (s *Server) aggregateFailed(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	applog.NewStructuredLogger(requestLogger(r, sess)).LogError(r.Context(), "Aggregation failed", err,
		applog.ComponentTracker, applog.OpAggregate, nil)
	InternalServerError("No se pudo calcular el resumen").Write(w)
}

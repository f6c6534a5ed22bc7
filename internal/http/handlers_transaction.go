package http

import (
	"net/http"
)

// handleCreateTransaction runs a form submission through the session's
// tracker. Rejections answer 422 with an error toast and leave the form as
// typed; accepted entries reset the form and refresh the summary.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Formato de solicitud inválido").Write(w)
		return
	}

	res := sess.Tracker.Submit(r.Context(), parser.TransactionInput())
	if !res.Accepted {
		s.metrics.rejected.Add(1)
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			TriggerNotification(NotificationError, res.Message(), s.toastDuration).
			Write(w)
		return
	}
	s.metrics.accepted.Add(1)

	agg, err := sess.Tracker.Current(r.Context())
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
		TriggerTransactionCreated(res.Transaction).
		TriggerFormReset().
		TriggerAggregatesRefresh(agg.Period).
		TriggerNotification(NotificationSuccess, res.Message(), s.toastDuration).
		BodyHTML(string(body)).
		Write(w)
}

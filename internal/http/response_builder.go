// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a fluent API for building HX-Trigger headers and consistent
// response formatting.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"gestor/internal/core"
)

// Events fired through HX-Trigger and listened to by the dashboard.
const (
	EventTransactionCreated = "transaction:created"
	EventAggregatesRefresh  = "aggregates:refresh"
	EventPeriodChanged      = "period:changed"
	EventAccountUpdated     = "account:updated"
	EventFormReset          = "form:reset"
	EventNotification       = "show-notification"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerTransactionCreated announces a stored transaction.
func (b *HTMXResponseBuilder) TriggerTransactionCreated(tx core.Transaction) *HTMXResponseBuilder {
	return b.Trigger(EventTransactionCreated, map[string]string{
		"id":   tx.ID,
		"kind": string(tx.Kind),
		"date": tx.Date.String(),
	})
}

// TriggerAggregatesRefresh asks the summary and chart to reload for period.
func (b *HTMXResponseBuilder) TriggerAggregatesRefresh(p core.Period) *HTMXResponseBuilder {
	return b.Trigger(EventAggregatesRefresh, map[string]string{"period": string(p)})
}

func (b *HTMXResponseBuilder) TriggerPeriodChanged(p core.Period) *HTMXResponseBuilder {
	return b.Trigger(EventPeriodChanged, map[string]string{"period": string(p), "label": p.Label()})
}

func (b *HTMXResponseBuilder) TriggerAccountUpdated(name, email string) *HTMXResponseBuilder {
	return b.Trigger(EventAccountUpdated, map[string]string{"name": name, "email": email})
}

func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, struct{}{})
}

// NotificationType represents the tone of a toast.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// TriggerNotification adds a toast that the page dismisses after d.
func (b *HTMXResponseBuilder) TriggerNotification(notifType NotificationType, message string, d time.Duration) *HTMXResponseBuilder {
	return b.Trigger(EventNotification, map[string]any{
		"type":     string(notifType),
		"message":  message,
		"duration": d.Milliseconds(),
	})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
	"tirelire/internal/services"
)

// Envelope is the uniform JSON response shape.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// statusFor maps domain errors onto HTTP statuses. A dangling user or bundle
// behind a live session means the document is unusable for this client, so
// it is reported as not-authenticated and the client starts over at login.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated),
		errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrUserDataNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrConflict),
		errors.Is(err, core.ErrDuplicateUser):
		return http.StatusConflict

	case errors.Is(err, core.ErrTransactionNotFound),
		errors.Is(err, core.ErrGoalNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrMissingAccount),
		errors.Is(err, core.ErrSameAccount),
		errors.Is(err, core.ErrUnknownAccount),
		errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrInvalidTargetDate),
		errors.Is(err, core.ErrInvalidRegistration),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, errBadRequestBody):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "internal error"
		s.logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err.Error())
	}

	writeJSON(w, status, Envelope{Success: false, Error: message})
}

package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"pawgather/internal/delivery/http/helpers"
	"pawgather/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// writeDomainError maps RSVP engine sentinel errors to HTTP statuses:
// validation failures are 400, missing resources 404, state conflicts 409,
// anything unexpected 500 (logged).
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrNotWaitlisted):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrRegistrationClosed),
		errors.Is(err, domain.ErrOutsideRegistrationWindow),
		errors.Is(err, domain.ErrEventStarted),
		errors.Is(err, domain.ErrGuestsNotAllowed),
		errors.Is(err, domain.ErrGuestLimitExceeded),
		errors.Is(err, domain.ErrGuestNameCountMismatch),
		errors.Is(err, domain.ErrWaitlistDisabled):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrAlreadyWaitlisted),
		errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// eventIDFromPath extracts and validates the eventID path parameter. It writes
// a 400 response and returns false when the parameter is missing or malformed.
func eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return "", false
	}
	return eventID, true
}

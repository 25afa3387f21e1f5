package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"pawgather/internal/delivery/http/helpers"
	"pawgather/internal/delivery/http/middleware"
	"pawgather/internal/domain"
)

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// JoinRequest is the request body for POST /events/{eventID}/rsvp.
type JoinRequest struct {
	GuestCount int      `json:"guest_count"`
	GuestNames []string `json:"guest_names"`
}

// Validate implements helpers.Validator.
func (req *JoinRequest) Validate() []string {
	var errs []string
	if req.GuestCount < 0 {
		errs = append(errs, "guest_count must not be negative")
	}
	for i, name := range req.GuestNames {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "guest_names must not contain empty names")
			break
		}
		req.GuestNames[i] = strings.TrimSpace(name)
	}
	return errs
}

// JoinSuccessResponse is the success response envelope for POST /events/{eventID}/rsvp.
type JoinSuccessResponse struct {
	Data  *domain.JoinOutcome `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// Join godoc
// @Summary RSVP to an event
// @Description Registers the authenticated user for the event with the given guests. When the event is full and keeps a waiting list, the user is enqueued instead and the assigned position is returned.
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.JoinRequest true "Guest count and names"
// @Success 200 {object} controllers.JoinSuccessResponse "Event full, placed on waiting list"
// @Success 201 {object} controllers.JoinSuccessResponse "Registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *RSVPController) Join(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req JoinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := c.Service.Join(r.Context(), eventID, userID, req.GuestCount, req.GuestNames)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if outcome.Waitlisted() {
		helpers.WriteJSONSuccess(w, http.StatusOK, outcome)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, outcome)
}

// UpdateGuestsRequest is the request body for PUT /events/{eventID}/rsvp.
type UpdateGuestsRequest struct {
	GuestCount int      `json:"guest_count"`
	GuestNames []string `json:"guest_names"`
}

// Validate implements helpers.Validator.
func (req *UpdateGuestsRequest) Validate() []string {
	j := JoinRequest{GuestCount: req.GuestCount, GuestNames: req.GuestNames}
	errs := j.Validate()
	req.GuestNames = j.GuestNames
	return errs
}

// RegistrationSuccessResponse is the success response envelope for registration endpoints.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UpdateGuestCount godoc
// @Summary Change the guest count of an existing RSVP
// @Description Grows or shrinks the registration's guest allotment. Growth is only granted when the event still has room for the additional seats.
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.UpdateGuestsRequest true "New guest count and names"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [put]
func (c *RSVPController) UpdateGuestCount(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req UpdateGuestsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Service.UpdateGuestCount(r.Context(), eventID, userID, req.GuestCount, req.GuestNames)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Cancel godoc
// @Summary Cancel an RSVP
// @Description Cancels the authenticated user's registration, releases its seats, and promotes the head of the waiting list when one exists.
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [delete]
func (c *RSVPController) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.Cancel(r.Context(), eventID, userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// GetMyRegistration godoc
// @Summary Get the authenticated user's RSVP for an event
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [get]
func (c *RSVPController) GetMyRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.GetRegistration(r.Context(), eventID, userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

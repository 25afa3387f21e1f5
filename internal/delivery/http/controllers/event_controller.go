package controllers

import (
	"log/slog"
	"net/http"

	"pawgather/internal/delivery/http/helpers"
	"pawgather/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewEventController(logger *slog.Logger, svc domain.RSVPService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// EventSuccessResponse is the success response envelope for GET /events/{eventID}.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Get godoc
// @Summary Get an event's registration snapshot
// @Description Returns the event metadata the RSVP engine works with, including confirmed seats and capacity.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

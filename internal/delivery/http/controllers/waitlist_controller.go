package controllers

import (
	"log/slog"
	"net/http"

	"pawgather/internal/delivery/http/helpers"
	"pawgather/internal/delivery/http/middleware"
	"pawgather/internal/domain"
)

type WaitlistController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewWaitlistController(logger *slog.Logger, svc domain.RSVPService) *WaitlistController {
	return &WaitlistController{
		Logger:  logger,
		Service: svc,
	}
}

// WaitlistEntrySuccessResponse is the success response envelope for waitlist endpoints.
type WaitlistEntrySuccessResponse struct {
	Data  *domain.WaitlistEntry `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Join godoc
// @Summary Join the waiting list of an event
// @Description Appends the authenticated user to the event's waiting list and returns the assigned position.
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.WaitlistEntrySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist [post]
func (c *WaitlistController) Join(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	entry, err := c.Service.JoinWaitlist(r.Context(), eventID, userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, entry)
}

// Leave godoc
// @Summary Leave the waiting list of an event
// @Description Removes the authenticated user's waiting entry; everyone behind moves up one position.
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist [delete]
func (c *WaitlistController) Leave(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.LeaveWaitlist(r.Context(), eventID, userID); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "left"})
}

// WaitlistPage is the paginated payload for GET /events/{eventID}/waitlist.
// swagger:model WaitlistPage
type WaitlistPage struct {
	Entries    []*domain.WaitlistEntry `json:"entries"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// List godoc
// @Summary List the waiting entries of an event
// @Description Returns the event's waiting entries in position order, paginated with page and page_size query parameters.
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data: controllers.WaitlistPage"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist [get]
func (c *WaitlistController) List(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	params := helpers.ParsePagination(r)
	entries, total, err := c.Service.ListWaitlist(r.Context(), eventID, params)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	page := WaitlistPage{
		Entries:    entries,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"pawgather/internal/delivery/http/controllers"
	"pawgather/internal/delivery/http/middleware"
	"pawgather/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// RSVP and waitlist routes require a Bearer token; the event snapshot is public.
func NewRouter(
	verifier domain.TokenVerifier,
	rsvpController *controllers.RSVPController,
	waitlistController *controllers.WaitlistController,
	eventController *controllers.EventController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, rsvpController.Logger)

	// Events
	mux.HandleFunc("GET /events/{eventID}", eventController.Get)

	// RSVP lifecycle
	mux.HandleFunc("POST /events/{eventID}/rsvp", auth(rsvpController.Join))
	mux.HandleFunc("PUT /events/{eventID}/rsvp", auth(rsvpController.UpdateGuestCount))
	mux.HandleFunc("DELETE /events/{eventID}/rsvp", auth(rsvpController.Cancel))
	mux.HandleFunc("GET /events/{eventID}/rsvp", auth(rsvpController.GetMyRegistration))

	// Waiting list
	mux.HandleFunc("POST /events/{eventID}/waitlist", auth(waitlistController.Join))
	mux.HandleFunc("DELETE /events/{eventID}/waitlist", auth(waitlistController.Leave))
	mux.HandleFunc("GET /events/{eventID}/waitlist", auth(waitlistController.List))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

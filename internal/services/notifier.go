package services

import (
	"context"
	"fmt"
	"log"

	"pawgather/internal/domain"
)

type rsvpNotifier struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewRSVPNotifier returns an RSVPNotifier that renders the embedded email
// templates and sends them through the given Mailer.
func NewRSVPNotifier(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.RSVPNotifier {
	return &rsvpNotifier{mailer: mailer, renderer: renderer}
}

// SendRSVPConfirmed sends the RSVP confirmation email using the "rsvp_confirmed" template.
func (s *rsvpNotifier) SendRSVPConfirmed(ctx context.Context, data *domain.RSVPConfirmedEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("rsvp_confirmed", data)
	if err != nil {
		return fmt.Errorf("failed to render rsvp_confirmed template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send rsvp confirmation email: %w", err)
	}
	log.Printf("[EMAIL] RSVP confirmation sent to %s", data.Email)
	return nil
}

// SendWaitlistPromoted sends the promotion email using the "waitlist_promoted" template.
func (s *rsvpNotifier) SendWaitlistPromoted(ctx context.Context, data *domain.WaitlistPromotedEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist promotion data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("waitlist_promoted", data)
	if err != nil {
		return fmt.Errorf("failed to render waitlist_promoted template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send waitlist promotion email: %w", err)
	}
	log.Printf("[EMAIL] Waitlist promotion sent to %s", data.Email)
	return nil
}

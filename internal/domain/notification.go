package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RSVPConfirmedEmailData holds data for the RSVP confirmation email.
type RSVPConfirmedEmailData struct {
	Email      string
	Name       string
	EventTitle string
	SeatsHeld  int
	Pending    bool // true when the registration awaits organizer approval
}

// WaitlistPromotedEmailData holds data for the waitlist promotion email.
type WaitlistPromotedEmailData struct {
	Email      string
	Name       string
	EventTitle string
}

// RSVPNotifier sends best-effort notifications for RSVP outcomes. Failures are
// logged by callers and never roll back the transaction that triggered them.
type RSVPNotifier interface {
	SendRSVPConfirmed(ctx context.Context, data *RSVPConfirmedEmailData) error
	SendWaitlistPromoted(ctx context.Context, data *WaitlistPromotedEmailData) error
}

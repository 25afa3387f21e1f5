package email

import (
	"strings"
	"testing"

	"pawgather/internal/domain"
)

func TestTemplateRenderer_RSVPConfirmed(t *testing.T) {
	renderer := NewTemplateRenderer()

	data := &domain.RSVPConfirmedEmailData{
		Email:      "ana@example.com",
		Name:       "Ana",
		EventTitle: "Puppy Meetup",
		SeatsHeld:  2,
		Pending:    false,
	}
	subject, htmlBody, textBody, err := renderer.Render("rsvp_confirmed", data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(subject, "Puppy Meetup") {
		t.Errorf("subject missing event title: %q", subject)
	}
	if !strings.Contains(htmlBody, "confirmed") {
		t.Errorf("html body missing confirmation: %q", htmlBody)
	}
	if !strings.Contains(textBody, "Ana") {
		t.Errorf("text body missing name: %q", textBody)
	}
}

func TestTemplateRenderer_RSVPConfirmed_Pending(t *testing.T) {
	renderer := NewTemplateRenderer()

	data := &domain.RSVPConfirmedEmailData{
		Email:      "ana@example.com",
		Name:       "Ana",
		EventTitle: "Puppy Meetup",
		SeatsHeld:  1,
		Pending:    true,
	}
	subject, _, textBody, err := renderer.Render("rsvp_confirmed", data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(subject, "reserved") {
		t.Errorf("pending subject should mention the reservation: %q", subject)
	}
	if !strings.Contains(textBody, "approve") {
		t.Errorf("pending text should mention approval: %q", textBody)
	}
}

func TestTemplateRenderer_WaitlistPromoted(t *testing.T) {
	renderer := NewTemplateRenderer()

	data := &domain.WaitlistPromotedEmailData{
		Email:      "ana@example.com",
		Name:       "Ana",
		EventTitle: "Puppy Meetup",
	}
	subject, htmlBody, textBody, err := renderer.Render("waitlist_promoted", data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(subject, "Puppy Meetup") {
		t.Errorf("subject missing event title: %q", subject)
	}
	if !strings.Contains(htmlBody, "waiting list") {
		t.Errorf("html body missing waitlist mention: %q", htmlBody)
	}
	if !strings.Contains(textBody, "confirmed") {
		t.Errorf("text body missing confirmation: %q", textBody)
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	renderer := NewTemplateRenderer()
	if _, _, _, err := renderer.Render("no_such_template", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestTemplateRenderer_HTMLEscapesEventTitle(t *testing.T) {
	renderer := NewTemplateRenderer()

	data := &domain.WaitlistPromotedEmailData{
		Email:      "ana@example.com",
		Name:       "Ana",
		EventTitle: "<script>alert(1)</script>",
	}
	_, htmlBody, _, err := renderer.Render("waitlist_promoted", data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(htmlBody, "<script>") {
		t.Errorf("html body must escape markup: %q", htmlBody)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pawgather/internal/domain"
)

type rsvpService struct {
	eventRepo        domain.EventRepository
	ledger           domain.CapacityLedger
	registrationRepo domain.RegistrationRepository
	waitlistRepo     domain.WaitlistRepository
	userRepo         domain.UserRepository
	notifier         domain.RSVPNotifier
	logger           *slog.Logger

	now func() time.Time
}

// NewRSVPService creates the RSVP lifecycle service with the given
// collaborators. The notifier is best-effort: its failures are logged and
// never surfaced to callers.
func NewRSVPService(
	eventRepo domain.EventRepository,
	ledger domain.CapacityLedger,
	registrationRepo domain.RegistrationRepository,
	waitlistRepo domain.WaitlistRepository,
	userRepo domain.UserRepository,
	notifier domain.RSVPNotifier,
	logger *slog.Logger,
) domain.RSVPService {
	return &rsvpService{
		eventRepo:        eventRepo,
		ledger:           ledger,
		registrationRepo: registrationRepo,
		waitlistRepo:     waitlistRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *rsvpService) Join(ctx context.Context, eventID, userID string, guestCount int, guestNames []string) (*domain.JoinOutcome, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.now()
	if err := checkRegistrationOpen(event, now); err != nil {
		return nil, err
	}
	if err := s.checkNotParticipating(ctx, eventID, userID); err != nil {
		return nil, err
	}
	guestNames, err = validateGuests(event, guestCount, guestNames)
	if err != nil {
		return nil, err
	}

	seatsNeeded := 1 + guestCount
	err = s.ledger.TryReserve(ctx, eventID, seatsNeeded)
	if err == nil {
		// Seats are reserved eagerly even when the event requires approval:
		// a pending registration counts against capacity until resolved.
		status := domain.RegistrationStatusPending
		if event.AutoApprove {
			status = domain.RegistrationStatusConfirmed
		}
		reg := domain.NewRegistration(eventID, userID, status, guestCount, guestNames, now)
		if createErr := s.registrationRepo.Create(ctx, reg); createErr != nil {
			// Give the seats back; the reservation has no holder.
			if relErr := s.ledger.Release(ctx, eventID, seatsNeeded); relErr != nil {
				s.logger.ErrorContext(ctx, "release after failed create",
					"event_id", eventID, "user_id", userID, "err", relErr)
			}
			if errors.Is(createErr, domain.ErrAlreadyRegistered) || errors.Is(createErr, domain.ErrAlreadyWaitlisted) {
				return nil, createErr
			}
			return nil, fmt.Errorf("create registration: %w", createErr)
		}
		s.notifyConfirmed(ctx, event, reg)
		return &domain.JoinOutcome{Registration: reg}, nil
	}

	if errors.Is(err, domain.ErrEventFull) {
		if !event.WaitlistEnabled {
			return nil, domain.ErrEventFull
		}
		entry, wlErr := s.enqueue(ctx, eventID, userID, now)
		if wlErr != nil {
			return nil, wlErr
		}
		return &domain.JoinOutcome{WaitlistEntry: entry}, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return nil, fmt.Errorf("reserve seats: %w", err)
}

func (s *rsvpService) UpdateGuestCount(ctx context.Context, eventID, userID string, guestCount int, guestNames []string) (*domain.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !s.now().Before(event.EventStart) {
		return nil, domain.ErrEventStarted
	}

	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if !reg.IsLive() {
		// The row exists but is cancelled; editing it is not a legal
		// transition, the user has to re-join first.
		return nil, domain.ErrInvalidStatusTransition
	}

	guestNames, err = validateGuests(event, guestCount, guestNames)
	if err != nil {
		return nil, err
	}

	delta := (1 + guestCount) - reg.SeatsHeld()
	if delta > 0 {
		// Growth reserves before committing so two concurrent growths cannot
		// both squeeze into the last seats.
		if err := s.ledger.TryReserve(ctx, eventID, delta); err != nil {
			if errors.Is(err, domain.ErrEventFull) {
				return nil, domain.ErrEventFull
			}
			return nil, fmt.Errorf("reserve additional seats: %w", err)
		}
		updated, err := s.registrationRepo.UpdateGuests(ctx, eventID, userID, guestCount, guestNames)
		if err != nil {
			if relErr := s.ledger.Release(ctx, eventID, delta); relErr != nil {
				s.logger.ErrorContext(ctx, "release after failed guest update",
					"event_id", eventID, "user_id", userID, "err", relErr)
			}
			if errors.Is(err, domain.ErrNotRegistered) {
				return nil, domain.ErrNotRegistered
			}
			return nil, fmt.Errorf("update guests: %w", err)
		}
		return updated, nil
	}

	updated, err := s.registrationRepo.UpdateGuests(ctx, eventID, userID, guestCount, guestNames)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("update guests: %w", err)
	}
	if delta < 0 {
		// Shrink releases after the commit; releasing first would hand out
		// seats that are still held.
		if err := s.ledger.Release(ctx, eventID, -delta); err != nil {
			if errors.Is(err, domain.ErrLedgerUnderflow) {
				s.logger.WarnContext(ctx, "seat counter underflow on guest shrink, clamped",
					"event_id", eventID, "user_id", userID, "seats", -delta)
			} else {
				s.logger.ErrorContext(ctx, "release shrunk seats",
					"event_id", eventID, "user_id", userID, "err", err)
			}
		}
	}
	return updated, nil
}

func (s *rsvpService) Cancel(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	reg, err := s.registrationRepo.Cancel(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			// Distinguish a row that never existed from one already cancelled.
			if existing, getErr := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID); getErr == nil && !existing.IsLive() {
				return nil, domain.ErrInvalidStatusTransition
			}
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("cancel registration: %w", err)
	}

	if err := s.ledger.Release(ctx, eventID, reg.SeatsHeld()); err != nil {
		// The cancellation itself stands; a clamped counter is a logged
		// consistency anomaly, not a caller-facing failure.
		if errors.Is(err, domain.ErrLedgerUnderflow) {
			s.logger.WarnContext(ctx, "seat counter underflow on cancel, clamped",
				"event_id", eventID, "user_id", userID, "seats", reg.SeatsHeld())
		} else {
			s.logger.ErrorContext(ctx, "release cancelled seats",
				"event_id", eventID, "user_id", userID, "err", err)
		}
	}

	s.promoteNext(ctx, eventID)
	return reg, nil
}

func (s *rsvpService) GetRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *rsvpService) JoinWaitlist(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.now()
	if err := checkRegistrationOpen(event, now); err != nil {
		return nil, err
	}
	if !event.WaitlistEnabled {
		return nil, domain.ErrWaitlistDisabled
	}
	if err := s.checkNotParticipating(ctx, eventID, userID); err != nil {
		return nil, err
	}
	return s.enqueue(ctx, eventID, userID, now)
}

func (s *rsvpService) LeaveWaitlist(ctx context.Context, eventID, userID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	// Leaving is always allowed; an entry abandoned once the event has started
	// is recorded as expired rather than cancelled.
	status := domain.WaitlistStatusCancelled
	if !s.now().Before(event.EventStart) {
		status = domain.WaitlistStatusExpired
	}
	err = s.waitlistRepo.Remove(ctx, eventID, userID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotWaitlisted) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("leave waitlist: %w", err)
	}
	return nil
}

func (s *rsvpService) ListWaitlist(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.WaitlistEntry, int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	entries, total, err := s.waitlistRepo.ListWaiting(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list waitlist: %w", err)
	}
	return entries, total, nil
}

func (s *rsvpService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// promoteNext is invoked after a cancellation has released seats. Exactly one
// promotion is attempted per cancellation, even when the cancellation freed
// several seats; freeing more than one promotion per cancel is a product
// decision that has not been made, so the behavior stays conservative.
func (s *rsvpService) promoteNext(ctx context.Context, eventID string) {
	if _, err := s.waitlistRepo.PeekHead(ctx, eventID); err != nil {
		if !errors.Is(err, domain.ErrWaitlistEmpty) {
			s.logger.ErrorContext(ctx, "peek waitlist head", "event_id", eventID, "err", err)
		}
		return
	}

	reg, entry, err := s.waitlistRepo.PromoteHead(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWaitlistEmpty):
			// Head left between peek and promote; nothing to do.
		case errors.Is(err, domain.ErrEventFull):
			// A concurrent join consumed the freed seat first. The head stays
			// waiting; no user-facing error, the cancellation succeeded.
			s.logger.InfoContext(ctx, "promotion skipped, seat taken by concurrent join", "event_id", eventID)
		default:
			s.logger.ErrorContext(ctx, "promote waitlist head", "event_id", eventID, "err", err)
		}
		return
	}

	s.logger.InfoContext(ctx, "waitlist entry promoted",
		"event_id", eventID, "user_id", entry.UserID, "position", entry.Position)
	s.notifyPromoted(ctx, eventID, reg)
}

// checkNotParticipating is a fast pre-check for friendly errors before any
// seats are touched. It is not the enforcement point: the repositories
// re-check both sides under the event row lock, so an interleaving between
// this read and the write cannot leave a user both registered and waiting.
func (s *rsvpService) checkNotParticipating(ctx context.Context, eventID, userID string) error {
	existing, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err == nil {
		if existing.IsLive() {
			return domain.ErrAlreadyRegistered
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get registration: %w", err)
	}

	if _, err := s.waitlistRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return domain.ErrAlreadyWaitlisted
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get waitlist entry: %w", err)
	}
	return nil
}

func (s *rsvpService) enqueue(ctx context.Context, eventID, userID string, now time.Time) (*domain.WaitlistEntry, error) {
	entry := &domain.WaitlistEntry{
		EventID:   eventID,
		UserID:    userID,
		JoinedAt:  now,
		UpdatedAt: now,
	}
	if err := s.waitlistRepo.Enqueue(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrAlreadyWaitlisted) || errors.Is(err, domain.ErrAlreadyRegistered) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("enqueue: %w", err)
	}
	return entry, nil
}

func (s *rsvpService) notifyConfirmed(ctx context.Context, event *domain.Event, reg *domain.Registration) {
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "lookup user for confirmation notice",
			"event_id", event.ID, "user_id", reg.UserID, "err", err)
		return
	}
	data := &domain.RSVPConfirmedEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
		SeatsHeld:  reg.SeatsHeld(),
		Pending:    reg.Status == domain.RegistrationStatusPending,
	}
	if err := s.notifier.SendRSVPConfirmed(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "send confirmation notice",
			"event_id", event.ID, "user_id", reg.UserID, "err", err)
	}
}

func (s *rsvpService) notifyPromoted(ctx context.Context, eventID string, reg *domain.Registration) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "lookup event for promotion notice",
			"event_id", eventID, "err", err)
		return
	}
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "lookup user for promotion notice",
			"event_id", eventID, "user_id", reg.UserID, "err", err)
		return
	}
	data := &domain.WaitlistPromotedEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
	}
	if err := s.notifier.SendWaitlistPromoted(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "send promotion notice",
			"event_id", eventID, "user_id", reg.UserID, "err", err)
	}
}

// checkRegistrationOpen enforces the join rules: the event must be open, the
// event must not have started, and now must fall within the registration
// window when one is configured.
func checkRegistrationOpen(event *domain.Event, now time.Time) error {
	if event.Status != domain.EventStatusOpen {
		return domain.ErrRegistrationClosed
	}
	if !now.Before(event.EventStart) {
		return domain.ErrEventStarted
	}
	if event.RegistrationStart != nil && now.Before(*event.RegistrationStart) {
		return domain.ErrOutsideRegistrationWindow
	}
	if event.RegistrationEnd != nil && !now.Before(*event.RegistrationEnd) {
		return domain.ErrOutsideRegistrationWindow
	}
	return nil
}

// validateGuests checks the guest rules and returns the trimmed guest names.
func validateGuests(event *domain.Event, guestCount int, guestNames []string) ([]string, error) {
	if guestCount < 0 {
		return nil, domain.ErrGuestLimitExceeded
	}
	if guestCount > 0 {
		if !event.GuestsAllowed {
			return nil, domain.ErrGuestsNotAllowed
		}
		if guestCount > event.MaxGuestsPerRegistrant {
			return nil, domain.ErrGuestLimitExceeded
		}
	}
	if len(guestNames) != guestCount {
		return nil, domain.ErrGuestNameCountMismatch
	}
	trimmed := make([]string, len(guestNames))
	for i, name := range guestNames {
		trimmed[i] = strings.TrimSpace(name)
	}
	return trimmed, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"eventtix/internal/domain"
)

type bookingService struct {
	eventRepo    domain.EventRepository
	ticketRepo   domain.TicketRepository
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewBookingService creates a BookingService with the given repositories.
// emailService may be nil, in which case no confirmation email is sent.
func NewBookingService(eventRepo domain.EventRepository, ticketRepo domain.TicketRepository, emailService domain.EmailService, logger *slog.Logger) domain.BookingService {
	return &bookingService{
		eventRepo:    eventRepo,
		ticketRepo:   ticketRepo,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *bookingService) Book(ctx context.Context, slug string, userID *string, purchaserName, purchaserEmail, rawQuantity string) (*domain.BookingConfirmation, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(rawQuantity))
	if err != nil {
		return nil, domain.ErrInvalidQuantity
	}
	if quantity < 1 {
		return nil, domain.ErrQuantityUnavailable
	}
	issued, err := s.ticketRepo.CountByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	if quantity > event.TotalTickets-issued {
		return nil, domain.ErrQuantityUnavailable
	}

	now := time.Now()
	tickets := make([]*domain.Ticket, quantity)
	for i := range tickets {
		tickets[i] = domain.NewTicket(event.ID, userID, purchaserName, purchaserEmail, now)
	}

	// The store re-checks capacity under a row lock, so two bookings that both
	// passed the read above cannot jointly oversell; the loser is rejected.
	if err := s.ticketRepo.CreateBatch(ctx, event.ID, tickets); err != nil {
		if errors.Is(err, domain.ErrInsufficientTickets) {
			return nil, domain.ErrQuantityUnavailable
		}
		return nil, fmt.Errorf("create tickets: %w", err)
	}

	codes := make([]string, len(tickets))
	for i, t := range tickets {
		codes[i] = t.Code
	}

	if s.emailService != nil && strings.TrimSpace(purchaserEmail) != "" {
		data := &domain.BookingConfirmationEmailData{
			PurchaserName: purchaserName,
			EventTitle:    event.Title,
			EventVenue:    event.Venue,
			EventURL:      event.CanonicalURL(),
			Codes:         codes,
		}
		if err := s.emailService.SendBookingConfirmation(ctx, purchaserEmail, data); err != nil {
			// The booking is already committed; a mail failure must not undo it.
			s.logger.ErrorContext(ctx, "failed to send booking confirmation", "event", event.Slug, "err", err)
		}
	}

	return &domain.BookingConfirmation{Event: event, Codes: codes}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventtix/internal/domain"
)

var (
	slugRegexp       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugStripRegexp  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugHyphenRegexp = regexp.MustCompile(`[\s-]+`)
)

type eventService struct {
	eventRepo  domain.EventRepository
	ticketRepo domain.TicketRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, ticketRepo domain.TicketRepository) domain.EventService {
	return &eventService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
	}
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*domain.EventWithAvailability, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	available, err := s.AvailableTickets(ctx, event)
	if err != nil {
		return nil, err
	}
	return &domain.EventWithAvailability{Event: event, Available: available}, nil
}

// AvailableTickets is capacity minus tickets already issued. The count can go
// stale under concurrent bookings; the booking path re-checks inside its
// transaction, this read is for display only.
func (s *eventService) AvailableTickets(ctx context.Context, event *domain.Event) (int, error) {
	issued, err := s.ticketRepo.CountByEventID(ctx, event.ID)
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return event.TotalTickets - issued, nil
}

func (s *eventService) ListWithAvailability(ctx context.Context) ([]*domain.EventWithAvailability, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	result := make([]*domain.EventWithAvailability, 0, len(events))
	for _, event := range events {
		available, err := s.AvailableTickets(ctx, event)
		if err != nil {
			return nil, err
		}
		result = append(result, &domain.EventWithAvailability{Event: event, Available: available})
	}
	return result, nil
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("title is required")
	}
	if event.Slug == "" {
		event.Slug = Slugify(event.Title)
	} else {
		event.Slug = strings.ToLower(strings.TrimSpace(event.Slug))
	}
	if !slugRegexp.MatchString(event.Slug) {
		return fmt.Errorf("invalid slug %q", event.Slug)
	}
	if event.TotalTickets < 0 {
		return fmt.Errorf("total_tickets must be non-negative")
	}
	if event.Price.IsNegative() {
		return fmt.Errorf("price must be non-negative")
	}
	if event.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	event.CreatedAt = time.Now()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) Update(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	if update.TotalTickets != nil && *update.TotalTickets < 0 {
		return nil, fmt.Errorf("total_tickets must be non-negative")
	}
	if update.Price != nil && update.Price.IsNegative() {
		return nil, fmt.Errorf("price must be non-negative")
	}
	event, err := s.eventRepo.Update(ctx, eventID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string) error {
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Slugify derives a URL slug from a title: lowercase, alphanumerics kept,
// runs of whitespace and hyphens collapsed to single hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripRegexp.ReplaceAllString(slug, "")
	slug = slugHyphenRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

package services

import (
	"context"
	"errors"
	"fmt"

	"eventtix/internal/domain"
)

type ticketService struct {
	eventRepo  domain.EventRepository
	ticketRepo domain.TicketRepository
}

// NewTicketService creates a TicketService with the given repositories.
func NewTicketService(eventRepo domain.EventRepository, ticketRepo domain.TicketRepository) domain.TicketService {
	return &ticketService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
	}
}

func (s *ticketService) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Ticket, int, error) {
	// Ensure the event exists so an unknown ID is a 404, not an empty list.
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	tickets, total, err := s.ticketRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, total, nil
}

func (s *ticketService) CheckIn(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.MarkUsed(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTicketUsed) {
			return nil, err
		}
		return nil, fmt.Errorf("mark ticket used: %w", err)
	}
	return ticket, nil
}

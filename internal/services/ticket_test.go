package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventtix/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketService_ListByEvent(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	ticketRepo := newFakeTicketRepo(eventRepo)
	svc := NewTicketService(eventRepo, ticketRepo)
	event := seedEvent(t, eventRepo, "gala", 10)
	for i := 0; i < 5; i++ {
		ticketRepo.tickets = append(ticketRepo.tickets, domain.NewTicket(event.ID, nil, "Alice", "", time.Now()))
	}

	t.Run("paginated list", func(t *testing.T) {
		tickets, total, err := svc.ListByEvent(ctx, event.ID, domain.PaginationParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, tickets, 2)
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		tickets, total, err := svc.ListByEvent(ctx, "ev-missing", domain.PaginationParams{Page: 1, PageSize: 10})
		require.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Nil(t, tickets)
		assert.Zero(t, total)
	})
}

func TestTicketService_CheckIn(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	ticketRepo := newFakeTicketRepo(eventRepo)
	svc := NewTicketService(eventRepo, ticketRepo)
	event := seedEvent(t, eventRepo, "gala", 10)
	ticket := domain.NewTicket(event.ID, nil, "Alice", "", time.Now())
	ticketRepo.tickets = append(ticketRepo.tickets, ticket)

	t.Run("marks ticket used", func(t *testing.T) {
		got, err := svc.CheckIn(ctx, ticket.Code)
		require.NoError(t, err)
		assert.True(t, got.IsUsed)
	})

	t.Run("second check-in is rejected", func(t *testing.T) {
		got, err := svc.CheckIn(ctx, ticket.Code)
		require.True(t, errors.Is(err, domain.ErrTicketUsed))
		assert.Nil(t, got)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		got, err := svc.CheckIn(ctx, "000000000000")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Nil(t, got)
	})
}

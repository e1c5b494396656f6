package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a ticketed occurrence with fixed capacity and schedule.
// swagger:model Event
type Event struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Venue        string          `json:"venue"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      *time.Time      `json:"end_time"`
	TotalTickets int             `json:"total_tickets"`
	Price        decimal.Decimal `json:"price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title, slug, description, venue string, startTime time.Time, endTime *time.Time, totalTickets int, price decimal.Decimal, createdAt time.Time) *Event {
	return &Event{
		Title:        title,
		Slug:         slug,
		Description:  description,
		Venue:        venue,
		StartTime:    startTime,
		EndTime:      endTime,
		TotalTickets: totalTickets,
		Price:        price,
		CreatedAt:    createdAt,
	}
}

// CanonicalURL returns the site-relative URL for the event's detail page.
// The slug is unique and immutable, so the URL is stable.
func (e *Event) CanonicalURL() string {
	return "/event/" + e.Slug
}

// EventWithAvailability bundles an event with its remaining ticket count.
// swagger:model EventWithAvailability
type EventWithAvailability struct {
	Event     *Event `json:"event"`
	Available int    `json:"available"`
}

// EventUpdate carries the optional fields of a partial event update.
// The slug is immutable and deliberately absent.
type EventUpdate struct {
	Title        *string
	Description  *string
	Venue        *string
	StartTime    *time.Time
	EndTime      *time.Time
	TotalTickets *int
	Price        *decimal.Decimal
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// List returns all events ordered by start time ascending.
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, eventID string, update EventUpdate) (*Event, error)
	// Delete removes the event; associated tickets cascade at the store level.
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for browsing and administering events.
type EventService interface {
	List(ctx context.Context) ([]*Event, error)
	// GetBySlug resolves an event and its current availability.
	GetBySlug(ctx context.Context, slug string) (*EventWithAvailability, error)
	// AvailableTickets returns total capacity minus tickets already issued.
	AvailableTickets(ctx context.Context, event *Event) (int, error)
	Create(ctx context.Context, event *Event) error
	ListWithAvailability(ctx context.Context) ([]*EventWithAvailability, error)
	Update(ctx context.Context, eventID string, update EventUpdate) (*Event, error)
	Delete(ctx context.Context, eventID string) error
}

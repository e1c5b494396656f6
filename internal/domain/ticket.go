package domain

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketCodeLength is the length of the human-shareable ticket code.
const TicketCodeLength = 12

// Ticket represents a single admission unit tied to one event.
// swagger:model Ticket
type Ticket struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	EventID        string    `json:"event_id"`
	UserID         *string   `json:"user_id"`
	PurchaserName  string    `json:"purchaser_name"`
	PurchaserEmail string    `json:"purchaser_email"`
	IsUsed         bool      `json:"is_used"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTicket returns a Ticket for the given event with a freshly generated code.
// ID is set by the repository on create. userID is nil for anonymous purchases.
func NewTicket(eventID string, userID *string, purchaserName, purchaserEmail string, createdAt time.Time) *Ticket {
	return &Ticket{
		Code:           NewTicketCode(),
		EventID:        eventID,
		UserID:         userID,
		PurchaserName:  purchaserName,
		PurchaserEmail: purchaserEmail,
		CreatedAt:      createdAt,
	}
}

// NewTicketCode returns a short shareable code: 12 uppercase hex characters
// derived from a fresh UUID. Distinct with overwhelming probability; global
// uniqueness is enforced by the store's unique index, not by the generator.
func NewTicketCode() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:TicketCodeLength/2]))
}

// TicketRepository defines the interface for ticket storage
type TicketRepository interface {
	// CreateBatch inserts all tickets for one event in a single transaction.
	// It locks the event row, re-checks capacity against the issued count, and
	// returns ErrInsufficientTickets without inserting anything if the batch
	// does not fit. Returns ErrNotFound if the event does not exist and
	// ErrDuplicateCode on a code collision.
	CreateBatch(ctx context.Context, eventID string, tickets []*Ticket) error
	CountByEventID(ctx context.Context, eventID string) (int, error)
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Ticket, int, error)
	// MarkUsed transitions is_used false->true. Returns ErrTicketUsed if the
	// ticket was already used and ErrNotFound for an unknown code.
	MarkUsed(ctx context.Context, code string) (*Ticket, error)
}

// BookingConfirmation is the result of a confirmed booking: the created ticket
// codes in creation order, plus the event booked.
type BookingConfirmation struct {
	Event *Event   `json:"event"`
	Codes []string `json:"codes"`
}

// BookingService defines the public booking contract.
type BookingService interface {
	// Book resolves the slug, parses rawQuantity, validates it against current
	// availability, and creates exactly that many tickets. userID is nil for
	// anonymous visitors. Returns ErrNotFound for an unknown slug and
	// ErrInvalidQuantity for a quantity that fails to parse or to fit.
	Book(ctx context.Context, slug string, userID *string, purchaserName, purchaserEmail, rawQuantity string) (*BookingConfirmation, error)
}

// TicketService defines staff-facing ticket operations.
type TicketService interface {
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Ticket, int, error)
	// CheckIn marks the ticket with the given code as used (venue check-in).
	CheckIn(ctx context.Context, code string) (*Ticket, error)
}

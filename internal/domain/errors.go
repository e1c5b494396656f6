package domain

import "errors"

// Sentinel errors shared across repositories and services.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidQuantity is returned when a booking quantity fails to parse as
	// an integer.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrQuantityUnavailable is returned when a parsed booking quantity falls
	// outside 1..available.
	ErrQuantityUnavailable = errors.New("invalid quantity selected")
	// ErrInsufficientTickets is returned by the ticket store when the requested
	// quantity exceeds the remaining capacity at insert time.
	ErrInsufficientTickets = errors.New("not enough tickets available")

	// ErrDuplicateSlug is returned when an event slug is already taken.
	ErrDuplicateSlug = errors.New("slug already in use")
	// ErrDuplicateCode is returned on a ticket code collision. There is no retry:
	// the caller surfaces this as a failed booking.
	ErrDuplicateCode = errors.New("ticket code already in use")
	// ErrDuplicateUsername is returned when a username is already registered.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrTicketUsed is returned when checking in a ticket that was already used.
	ErrTicketUsed = errors.New("ticket already used")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventtix/internal/delivery/http/helpers"
	"eventtix/internal/domain"
)

// CreateEventRequest is the request body for POST /api/admin/events
type CreateEventRequest struct {
	Title        string     `json:"title"`
	Slug         string     `json:"slug"` // optional: derived from title when empty
	Description  string     `json:"description"`
	Venue        string     `json:"venue"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	TotalTickets int        `json:"total_tickets"`
	Price        string     `json:"price"` // decimal string, e.g. "25.00"; empty means 0
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartTime.IsZero() {
		errs = append(errs, "start_time is required")
	}
	if c.EndTime != nil && c.EndTime.Before(c.StartTime) {
		errs = append(errs, "end_time must not be before start_time")
	}
	if c.TotalTickets < 0 {
		errs = append(errs, "total_tickets must be non-negative")
	}
	if c.Price != "" {
		if p, err := decimal.NewFromString(c.Price); err != nil {
			errs = append(errs, "price must be a decimal number")
		} else if p.IsNegative() {
			errs = append(errs, "price must be non-negative")
		}
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /api/admin/events/{eventID}.
// All fields are optional; the slug is immutable and not accepted.
type UpdateEventRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Venue        *string    `json:"venue"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	TotalTickets *int       `json:"total_tickets"`
	Price        *string    `json:"price"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.TotalTickets != nil && *u.TotalTickets < 0 {
		errs = append(errs, "total_tickets must be non-negative")
	}
	if u.Price != nil {
		if p, err := decimal.NewFromString(*u.Price); err != nil {
			errs = append(errs, "price must be a decimal number")
		} else if p.IsNegative() {
			errs = append(errs, "price must be non-negative")
		}
	}
	return errs
}

// TicketListResponse is the response body for the paginated ticket listing.
type TicketListResponse struct {
	Tickets    []*domain.Ticket       `json:"tickets"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// AdminController handles the staff-only JSON API over events and tickets.
type AdminController struct {
	Logger  *slog.Logger
	Events  domain.EventService
	Tickets domain.TicketService
}

// NewAdminController creates an AdminController with the given services.
func NewAdminController(logger *slog.Logger, events domain.EventService, tickets domain.TicketService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Events:  events,
		Tickets: tickets,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event with capacity and price. When slug is empty it is derived from the title.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate slug)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /api/admin/events [post]
func (c *AdminController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	price := decimal.Zero
	if req.Price != "" {
		price, _ = decimal.NewFromString(req.Price)
	}
	event := domain.NewEvent(req.Title, req.Slug, req.Description, req.Venue, req.StartTime, req.EndTime, req.TotalTickets, price, time.Now())
	if err := c.Events.Create(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "slug already in use")
			return
		}
		c.Logger.ErrorContext(r.Context(), "create event", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events with availability
// @Tags admin
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains events with availability"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /api/admin/events [get]
func (c *AdminController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Events.ListWithAvailability(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "list events", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update. The slug is immutable.
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /api/admin/events/{eventID} [patch]
func (c *AdminController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.EventUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Venue:        req.Venue,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		TotalTickets: req.TotalTickets,
	}
	if req.Price != nil {
		p, _ := decimal.NewFromString(*req.Price)
		update.Price = &p
	}
	event, err := c.Events.Update(r.Context(), r.PathValue("eventID"), update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "update event", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Delete an event; its tickets are removed by the store's cascade.
// @Tags admin
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /api/admin/events/{eventID} [delete]
func (c *AdminController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := c.Events.Delete(r.Context(), r.PathValue("eventID")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "delete event", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEventTickets godoc
// @Summary List tickets for an event
// @Tags admin
// @Produce json
// @Param eventID path string true "Event ID"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains tickets and pagination"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /api/admin/events/{eventID}/tickets [get]
func (c *AdminController) ListEventTickets(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	tickets, total, err := c.Tickets.ListByEvent(r.Context(), r.PathValue("eventID"), params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "list tickets", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TicketListResponse{
		Tickets:    tickets,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// CheckInTicket godoc
// @Summary Check in a ticket
// @Description Mark the ticket with the given code as used. A ticket can be checked in once.
// @Tags admin
// @Produce json
// @Param code path string true "Ticket code"
// @Success 200 {object} helpers.APIResponse "data contains the checked-in ticket"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already used)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /api/admin/tickets/{code}/checkin [post]
func (c *AdminController) CheckInTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := c.Tickets.CheckIn(r.Context(), r.PathValue("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "ticket not found")
		case errors.Is(err, domain.ErrTicketUsed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "ticket already used")
		default:
			c.Logger.ErrorContext(r.Context(), "check in ticket", "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

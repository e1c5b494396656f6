package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventtix/internal/delivery/http/helpers"
	"eventtix/internal/delivery/http/middleware"
	"eventtix/internal/delivery/http/views"
	"eventtix/internal/domain"
)

// EventsController serves the public HTML pages: event listing, event detail
// with the booking form, and the booking confirmation.
type EventsController struct {
	Logger   *slog.Logger
	Events   domain.EventService
	Bookings domain.BookingService
	Views    *views.Renderer
}

// NewEventsController creates an EventsController with the given services and renderer.
func NewEventsController(logger *slog.Logger, events domain.EventService, bookings domain.BookingService, renderer *views.Renderer) *EventsController {
	return &EventsController{
		Logger:   logger,
		Events:   events,
		Bookings: bookings,
		Views:    renderer,
	}
}

func (c *EventsController) page(w http.ResponseWriter, r *http.Request, title string, data any) views.Page {
	_, authenticated := middleware.IdentityFromContext(r.Context())
	return views.Page{
		Title:         title,
		Flash:         helpers.PopFlash(w, r),
		Authenticated: authenticated,
		Data:          data,
	}
}

// List renders all events ordered by start time ascending.
func (c *EventsController) List(w http.ResponseWriter, r *http.Request) {
	events, err := c.Events.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "list events", "err", err)
		c.Views.Render(w, http.StatusInternalServerError, "error.html", c.page(w, r, "Error", nil))
		return
	}
	c.Views.Render(w, http.StatusOK, "event_list.html", c.page(w, r, "Events", events))
}

// Detail renders one event by slug with its availability and booking form.
func (c *EventsController) Detail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	result, err := c.Events.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.NotFound(w, r)
			return
		}
		c.Logger.ErrorContext(r.Context(), "get event", "slug", slug, "err", err)
		c.Views.Render(w, http.StatusInternalServerError, "error.html", c.page(w, r, "Error", nil))
		return
	}
	c.Views.Render(w, http.StatusOK, "event_detail.html", c.page(w, r, result.Event.Title, result))
}

// Book handles the booking form post. Quantity problems flash a message and
// redirect back to the event page; success renders the confirmation with the
// created ticket codes.
func (c *EventsController) Book(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var userID *string
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		userID = &id.UserID
	}

	confirmation, err := c.Bookings.Book(
		r.Context(),
		slug,
		userID,
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("quantity"),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.NotFound(w, r)
		case errors.Is(err, domain.ErrInvalidQuantity):
			helpers.SetFlash(w, "Invalid quantity")
			http.Redirect(w, r, "/event/"+slug, http.StatusSeeOther)
		case errors.Is(err, domain.ErrQuantityUnavailable):
			helpers.SetFlash(w, "Invalid quantity selected")
			http.Redirect(w, r, "/event/"+slug, http.StatusSeeOther)
		default:
			c.Logger.ErrorContext(r.Context(), "book tickets", "slug", slug, "err", err)
			c.Views.Render(w, http.StatusInternalServerError, "error.html", c.page(w, r, "Error", nil))
		}
		return
	}

	c.Views.Render(w, http.StatusOK, "booking_success.html", c.page(w, r, "Booking confirmed", confirmation))
}

// NotFound renders the 404 page.
func (c *EventsController) NotFound(w http.ResponseWriter, r *http.Request) {
	c.Views.Render(w, http.StatusNotFound, "not_found.html", c.page(w, r, "Not found", nil))
}

package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventtix/internal/delivery/http/controllers"
	"eventtix/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(events *controllers.EventsController, auth *controllers.AuthController, admin *controllers.AdminController) *http.ServeMux {
	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", events.List)
	mux.HandleFunc("GET /event/{slug}", events.Detail)
	mux.HandleFunc("POST /event/{slug}/book", events.Book)

	// Accounts
	mux.HandleFunc("GET /accounts/signup", auth.SignupForm)
	mux.HandleFunc("POST /accounts/signup", auth.Signup)
	mux.HandleFunc("GET /accounts/login", auth.LoginForm)
	mux.HandleFunc("POST /accounts/login", auth.Login)
	mux.HandleFunc("POST /accounts/logout", auth.Logout)

	// Staff console
	staff := middleware.RequireStaff()
	mux.HandleFunc("POST /api/admin/events", staff(admin.CreateEvent))
	mux.HandleFunc("GET /api/admin/events", staff(admin.ListEvents))
	mux.HandleFunc("PATCH /api/admin/events/{eventID}", staff(admin.UpdateEvent))
	mux.HandleFunc("DELETE /api/admin/events/{eventID}", staff(admin.DeleteEvent))
	mux.HandleFunc("GET /api/admin/events/{eventID}/tickets", staff(admin.ListEventTickets))
	mux.HandleFunc("POST /api/admin/tickets/{code}/checkin", staff(admin.CheckInTicket))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Everything else under / that didn't match a pattern above
	mux.HandleFunc("/", events.NotFound)

	return mux
}

package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventtix/internal/delivery/http/controllers"
	"eventtix/internal/delivery/http/middleware"
	"eventtix/internal/delivery/http/views"
	"eventtix/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal service stubs: the routing tests only care about which handler runs,
// not what it returns.

type stubEventService struct{}

func (stubEventService) List(context.Context) ([]*domain.Event, error) { return nil, nil }
func (stubEventService) GetBySlug(context.Context, string) (*domain.EventWithAvailability, error) {
	return nil, domain.ErrNotFound
}
func (stubEventService) AvailableTickets(context.Context, *domain.Event) (int, error) {
	return 0, nil
}
func (stubEventService) Create(context.Context, *domain.Event) error { return nil }
func (stubEventService) ListWithAvailability(context.Context) ([]*domain.EventWithAvailability, error) {
	return nil, nil
}
func (stubEventService) Update(context.Context, string, domain.EventUpdate) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}
func (stubEventService) Delete(context.Context, string) error { return domain.ErrNotFound }

type stubBookingService struct{}

func (stubBookingService) Book(context.Context, string, *string, string, string, string) (*domain.BookingConfirmation, error) {
	return nil, domain.ErrNotFound
}

type stubUserService struct{}

func (stubUserService) SignUp(context.Context, domain.SignupForm) (*domain.AuthSession, error) {
	return nil, domain.FieldErrors{"username": {"This field is required."}}
}
func (stubUserService) Login(context.Context, string, string) (*domain.AuthSession, error) {
	return nil, domain.ErrInvalidCredentials
}
func (stubUserService) GetByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

type stubTicketService struct{}

func (stubTicketService) ListByEvent(context.Context, string, domain.PaginationParams) ([]*domain.Ticket, int, error) {
	return nil, 0, nil
}
func (stubTicketService) CheckIn(context.Context, string) (*domain.Ticket, error) {
	return nil, domain.ErrNotFound
}

// stubVerifier maps a fixed token to a fixed identity.
type stubVerifier struct {
	token   string
	userID  string
	isStaff bool
}

func (v stubVerifier) Verify(token string) (string, bool, error) {
	if token != v.token {
		return "", false, errors.New("invalid token")
	}
	return v.userID, v.isStaff, nil
}

func newTestHandler(t *testing.T, verifier domain.TokenVerifier) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := views.NewRenderer(logger)
	require.NoError(t, err)

	events := controllers.NewEventsController(logger, stubEventService{}, stubBookingService{}, renderer)
	auth := controllers.NewAuthController(logger, stubUserService{}, renderer, time.Hour, false)
	admin := controllers.NewAdminController(logger, stubEventService{}, stubTicketService{})
	return middleware.WithIdentity(verifier, NewRouter(events, auth, admin))
}

func TestRouter_publicRoutes(t *testing.T) {
	handler := newTestHandler(t, stubVerifier{})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"event listing", http.MethodGet, "/", http.StatusOK},
		{"unknown path falls through to 404 page", http.MethodGet, "/nope", http.StatusNotFound},
		{"unknown event detail", http.MethodGet, "/event/missing", http.StatusNotFound},
		{"signup form", http.MethodGet, "/accounts/signup", http.StatusOK},
		{"login form", http.MethodGet, "/accounts/login", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRouter_staffGate(t *testing.T) {
	verifier := stubVerifier{token: "staff-token", userID: "user-1", isStaff: true}
	handler := newTestHandler(t, verifier)

	adminRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/admin/events"},
		{http.MethodGet, "/api/admin/events"},
		{http.MethodPatch, "/api/admin/events/ev-1"},
		{http.MethodDelete, "/api/admin/events/ev-1"},
		{http.MethodGet, "/api/admin/events/ev-1/tickets"},
		{http.MethodPost, "/api/admin/tickets/AB12CD34EF56/checkin"},
	}

	t.Run("anonymous is 401", func(t *testing.T) {
		for _, route := range adminRoutes {
			req := httptest.NewRequest(route.method, "http://test"+route.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
		}
	})

	t.Run("non-staff is 403", func(t *testing.T) {
		nonStaff := newTestHandler(t, stubVerifier{token: "user-token", userID: "user-2"})
		for _, route := range adminRoutes {
			req := httptest.NewRequest(route.method, "http://test"+route.path, nil)
			req.Header.Set("Authorization", "Bearer user-token")
			rr := httptest.NewRecorder()
			nonStaff.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s", route.method, route.path)
		}
	})

	t.Run("staff reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/api/admin/events", nil)
		req.Header.Set("Authorization", "Bearer staff-token")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("staff via session cookie reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/api/admin/events", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "staff-token"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})
}

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventtix/internal/delivery/http/helpers"
	"eventtix/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	userID  string
	isStaff bool
	err     error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	return f.userID, f.isStaff, nil
}

func TestWithIdentity(t *testing.T) {
	tests := []struct {
		name         string
		authHeader   string
		cookieValue  string
		verifier     domain.TokenVerifier
		wantIdentity *Identity
	}{
		{
			name:         "bearer token sets identity",
			authHeader:   "Bearer valid-token",
			verifier:     &fakeTokenVerifier{userID: "user-123", isStaff: true},
			wantIdentity: &Identity{UserID: "user-123", IsStaff: true},
		},
		{
			name:         "session cookie sets identity",
			cookieValue:  "valid-token",
			verifier:     &fakeTokenVerifier{userID: "user-456"},
			wantIdentity: &Identity{UserID: "user-456"},
		},
		{
			name:         "bearer wins over cookie",
			authHeader:   "Bearer header-token",
			cookieValue:  "cookie-token",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantIdentity: &Identity{UserID: "user-123"},
		},
		{
			name:     "no token proceeds anonymously",
			verifier: &fakeTokenVerifier{userID: "user-123"},
		},
		{
			name:        "invalid token proceeds anonymously",
			cookieValue: "bad-token",
			verifier:    &fakeTokenVerifier{err: errors.New("invalid or expired token")},
		},
		{
			name:       "non-bearer authorization is ignored",
			authHeader: "Basic abc",
			verifier:   &fakeTokenVerifier{userID: "user-123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIdentity *Identity
			var gotOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotIdentity, gotOK = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := WithIdentity(tt.verifier, next)

			req := httptest.NewRequest(http.MethodGet, "http://test/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookieValue})
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code, "request always proceeds")
			if tt.wantIdentity == nil {
				assert.False(t, gotOK, "request should be anonymous")
				return
			}
			require.True(t, gotOK)
			assert.Equal(t, tt.wantIdentity, gotIdentity)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name         string
		identity     *Identity
		wantStatus   int
		wantBodyCode string
		nextCalled   bool
	}{
		{
			name:       "staff identity calls next",
			identity:   &Identity{UserID: "user-1", IsStaff: true},
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "anonymous is unauthorized",
			identity:     nil,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "non-staff is forbidden",
			identity:     &Identity{UserID: "user-1"},
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireStaff()(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/api/admin/events", nil)
			if tt.identity != nil {
				req = req.WithContext(SetIdentity(req.Context(), tt.identity))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestSessionCookie(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SetSessionCookie(rr, "tok-123", time.Hour, true)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, SessionCookie, c.Name)
		assert.Equal(t, "tok-123", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 3600, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("clear", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ClearSessionCookie(rr, false)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, SessionCookie, c.Name)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	})
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	h "eventtix/internal/delivery/http/helpers"
	"eventtix/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionCookie is the name of the session cookie carrying the signed token.
const SessionCookie = "session"

// Identity is the request-scoped authenticated identity. It is resolved once
// by WithIdentity and passed explicitly; there is no ambient auth state.
type Identity struct {
	UserID  string
	IsStaff bool
}

// SetIdentity returns a context with the identity set. Used by auth middleware.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the authenticated identity from the context, if present.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// WithIdentity resolves the session cookie (web flow) or Bearer token (API
// flow) into an Identity on the request context. An absent or invalid token is
// not an error here: the request proceeds anonymously and RequireStaff or the
// handlers decide what anonymity means.
func WithIdentity(verifier domain.TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				token = c.Value
			}
		}
		if token != "" {
			if userID, isStaff, err := verifier.Verify(token); err == nil {
				r = r.WithContext(SetIdentity(r.Context(), &Identity{UserID: userID, IsStaff: isStaff}))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff returns a wrapper that rejects requests without a staff
// identity: 401 when anonymous, 403 when authenticated but not staff.
func RequireStaff() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
				return
			}
			if !id.IsStaff {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "staff access required")
				return
			}
			next(w, r)
		}
	}
}

// SetSessionCookie establishes the session for the browser flow.
func SetSessionCookie(w http.ResponseWriter, token string, expiry time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(expiry.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

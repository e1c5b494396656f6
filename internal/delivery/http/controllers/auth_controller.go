package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventtix/internal/delivery/http/helpers"
	"eventtix/internal/delivery/http/middleware"
	"eventtix/internal/delivery/http/views"
	"eventtix/internal/domain"
)

// AuthController serves the signup/login/logout HTML flow. On success it
// establishes the session cookie and redirects to the "next" target.
type AuthController struct {
	Logger       *slog.Logger
	Users        domain.UserService
	Views        *views.Renderer
	CookieExpiry time.Duration
	CookieSecure bool
}

// NewAuthController creates an AuthController with the given service and renderer.
func NewAuthController(logger *slog.Logger, users domain.UserService, renderer *views.Renderer, cookieExpiry time.Duration, cookieSecure bool) *AuthController {
	return &AuthController{
		Logger:       logger,
		Users:        users,
		Views:        renderer,
		CookieExpiry: cookieExpiry,
		CookieSecure: cookieSecure,
	}
}

// signupPage is the template data for the signup form.
type signupPage struct {
	Username string
	Email    string
	Next     string
	Errors   domain.FieldErrors
}

// loginPage is the template data for the login form.
type loginPage struct {
	Username string
	Next     string
	Error    string
}

func (c *AuthController) page(w http.ResponseWriter, r *http.Request, title string, data any) views.Page {
	_, authenticated := middleware.IdentityFromContext(r.Context())
	return views.Page{
		Title:         title,
		Flash:         helpers.PopFlash(w, r),
		Authenticated: authenticated,
		Data:          data,
	}
}

// redirectTarget returns the posted "next" value if it is a safe site-relative
// path, else the site root. Absolute URLs are rejected to prevent open redirects.
func redirectTarget(r *http.Request) string {
	next := r.PostFormValue("next")
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

// SignupForm renders the signup form. An authenticated visitor is sent back to
// the event listing.
func (c *AuthController) SignupForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := signupPage{Next: r.URL.Query().Get("next"), Errors: domain.FieldErrors{}}
	c.Views.Render(w, http.StatusOK, "signup.html", c.page(w, r, "Sign up", data))
}

// Signup handles the signup form post: creates the account, logs the new user
// in, and redirects to "next" or the site root. Validation failures re-render
// the form with field errors.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := domain.SignupForm{
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}
	session, err := c.Users.SignUp(r.Context(), form)
	if err != nil {
		data := signupPage{
			Username: form.Username,
			Email:    form.Email,
			Next:     r.PostFormValue("next"),
			Errors:   domain.FieldErrors{},
		}
		var fieldErrs domain.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			data.Errors = fieldErrs
		case errors.Is(err, domain.ErrDuplicateUsername):
			data.Errors.Add("username", "A user with that username already exists.")
		default:
			c.Logger.ErrorContext(r.Context(), "signup", "err", err)
			c.Views.Render(w, http.StatusInternalServerError, "error.html", c.page(w, r, "Error", nil))
			return
		}
		c.Views.Render(w, http.StatusOK, "signup.html", c.page(w, r, "Sign up", data))
		return
	}

	middleware.SetSessionCookie(w, session.Token, c.CookieExpiry, c.CookieSecure)
	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// LoginForm renders the login form.
func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := loginPage{Next: r.URL.Query().Get("next")}
	c.Views.Render(w, http.StatusOK, "login.html", c.page(w, r, "Log in", data))
}

// Login handles the login form post.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	session, err := c.Users.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			data := loginPage{
				Username: username,
				Next:     r.PostFormValue("next"),
				Error:    "Please enter a correct username and password.",
			}
			c.Views.Render(w, http.StatusOK, "login.html", c.page(w, r, "Log in", data))
			return
		}
		c.Logger.ErrorContext(r.Context(), "login", "err", err)
		c.Views.Render(w, http.StatusInternalServerError, "error.html", c.page(w, r, "Error", nil))
		return
	}

	middleware.SetSessionCookie(w, session.Token, c.CookieExpiry, c.CookieSecure)
	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// Logout clears the session cookie and redirects to the event listing.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, c.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

package domain

import (
	"context"
	"time"
)

// User represents a registered account. The password is stored as a salted
// bcrypt hash; neither hash nor salt is ever serialized.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(username, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues session tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username string, isStaff bool, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (userID string, isStaff bool, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create inserts the user. Returns ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// SignupForm holds the raw signup form fields. Validation produces a map of
// field name to error messages; an empty map means the form is valid.
type SignupForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// AuthSession is an established session for a user: the signed token plus the
// user it belongs to.
type AuthSession struct {
	Token string
	User  *User
}

// UserService defines the business logic for signup and login.
type UserService interface {
	// SignUp validates the form, creates the account, and establishes a session.
	// Validation failures return FieldErrors; a taken username returns
	// ErrDuplicateUsername (also rendered as a field error by callers).
	SignUp(ctx context.Context, form SignupForm) (*AuthSession, error)
	// Login authenticates username/password and establishes a session.
	// Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, username, password string) (*AuthSession, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// FieldErrors maps form field names to their validation error messages.
// It implements error so services can return it through the normal error path.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	return "validation failed"
}

// Add appends a message to the named field's errors.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

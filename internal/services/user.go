package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventtix/internal/domain"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 150
)

var (
	usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type userService struct {
	userRepo    domain.UserRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewUserService creates a UserService with the given repository and auth ports.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.UserService {
	return &userService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

// ValidateSignupForm checks the form fields and returns per-field errors.
// An empty map means the form is valid.
func ValidateSignupForm(form domain.SignupForm) domain.FieldErrors {
	fieldErrs := domain.FieldErrors{}
	username := strings.TrimSpace(form.Username)
	if username == "" {
		fieldErrs.Add("username", "This field is required.")
	} else if len(username) > maxUsernameLen {
		fieldErrs.Add("username", fmt.Sprintf("Ensure this value has at most %d characters.", maxUsernameLen))
	} else if !usernameRegexp.MatchString(username) {
		fieldErrs.Add("username", "Enter a valid username. Letters, digits and @/./+/-/_ only.")
	}
	if email := strings.TrimSpace(form.Email); email != "" && !emailRegexp.MatchString(email) {
		fieldErrs.Add("email", "Enter a valid email address.")
	}
	if form.Password1 == "" {
		fieldErrs.Add("password1", "This field is required.")
	} else if len(form.Password1) < minPasswordLen {
		fieldErrs.Add("password1", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLen))
	}
	if form.Password2 == "" {
		fieldErrs.Add("password2", "This field is required.")
	} else if form.Password1 != "" && form.Password1 != form.Password2 {
		fieldErrs.Add("password2", "The two password fields didn't match.")
	}
	return fieldErrs
}

func (s *userService) SignUp(ctx context.Context, form domain.SignupForm) (*domain.AuthSession, error) {
	if fieldErrs := ValidateSignupForm(form); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, form.Password1)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(strings.TrimSpace(form.Username), strings.TrimSpace(form.Email), now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Username, user.IsStaff, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthSession{Token: token, User: user}, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*domain.AuthSession, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		// Unknown username and bad password are indistinguishable to the caller.
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Username, user.IsStaff, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthSession{Token: token, User: user}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

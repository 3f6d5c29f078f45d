package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic/internal/platform/auth"
)

// ErrInvalidCredentials is returned for login failures. It does not
// distinguish unknown email from wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	users    Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users Repository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{users: users, secret: secret, tokenTTL: tokenTTL}
}

// Signup registers a new staff account. The role is fixed at signup.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" {
		return nil, fmt.Errorf("first_name is required")
	}
	if in.LastName == "" {
		return nil, fmt.Errorf("last_name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if !auth.ValidRole(in.Role) {
		return nil, fmt.Errorf("role must be nurse or doctor")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Role:         in.Role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, *User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return "", nil, fmt.Errorf("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.secret, u.ID, u.Role, u.Email, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}
	return token, u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns staff accounts, optionally filtered by role.
func (s *Service) ListUsers(ctx context.Context, role string, limit, offset int) ([]*User, int, error) {
	if role != "" {
		if !auth.ValidRole(role) {
			return nil, 0, fmt.Errorf("role must be nurse or doctor")
		}
		return s.users.ListByRole(ctx, role, limit, offset)
	}
	return s.users.List(ctx, limit, offset)
}

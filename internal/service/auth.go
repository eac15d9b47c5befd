package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"docflow/internal/model"
	"docflow/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	// A missing account and a wrong password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound is returned when a session references a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService resolves identities and verifies credentials.
type AuthService interface {
	// Login verifies the username/password pair and returns the matching user.
	Login(ctx context.Context, username, password string) (*model.User, error)

	// LoadUser resolves a persisted session's user id back to a full user record.
	LoadUser(ctx context.Context, id int64) (*model.User, error)
}

type authService struct {
	users repository.UserRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) LoadUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/ctxutil"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/platform/validate"
	"github.com/taibuivan/tasktrack/internal/session"
	"github.com/taibuivan/tasktrack/pkg/uuid"
)

// # Contracts & Types

// TokenProvider issues and inspects session tokens. Satisfied by [*sec.TokenService].
type TokenProvider interface {
	Issue(userID, email string) (string, time.Time, error)
	Verify(token string) (*sec.AuthClaims, error)
	RemainingValidity(claims *sec.AuthClaims) time.Duration
}

// PasswordHasher is the one-way credential verifier. Satisfied by [*sec.PasswordHasher].
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Compare(plainTextPassword, existingHash string) bool
}

// Service implements the account use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	hasher         PasswordHasher
	registry       session.Registry
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, tokens TokenProvider, hasher PasswordHasher, registry session.Registry) *Service {
	return &Service{
		userRepository: users,
		tokenProvider:  tokens,
		hasher:         hasher,
		registry:       registry,
	}
}

// IssuedSession is an account together with a freshly signed session token.
type IssuedSession struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Username string
}

/*
Register validates, hashes, and persists a new account, then signs it in.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *IssuedSession: Created account and its first session token
  - error: ValidationError, Conflict (email taken) or a store error
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*IssuedSession, error) {
	email := NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, email, "Email, password, and username are required").
		Required(FieldPassword, input.Password, "Email, password, and username are required").
		Required(FieldUsername, username, "Email, password, and username are required")
	if !validator.HasErrors() {
		validator.
			Custom(FieldPassword, len(input.Password) < MinPasswordLength, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)).
			Custom(FieldPassword, len(input.Password) > MaxPasswordBytes, fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes)).
			Email(FieldEmail, email).
			MaxLen(FieldUsername, username, MaxUsernameLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Fast path for the common duplicate; the unique index settles races
	_, err := service.userRepository.FindByEmail(context, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("User with this email already exists")
	case !errors.Is(err, dberr.ErrNotFound):
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, dberr.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.String("user_id", user.ID))

	return service.issue(user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login verifies credentials and issues a session token.

Unknown emails and wrong passwords produce the same 401 to prevent enumeration.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*IssuedSession, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, email, "Email and password are required").
		Required(FieldPassword, input.Password, "Email and password are required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !service.hasher.Compare(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return service.issue(user)
}

func (service *Service) issue(user *User) (*IssuedSession, error) {
	token, expiresAt, err := service.tokenProvider.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}
	return &IssuedSession{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// # Session Lifecycle

/*
Me returns the account behind an admitted session.

Returns:
  - *User: Account of the caller
  - error: NotFound when the account was deleted after the token was issued
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return user, nil
}

/*
Logout revokes the presented token until it would have expired anyway.

Description: Logging out is idempotent. An absent, malformed or already expired
token has nothing left to revoke and succeeds without touching the registry.
Revoking an already revoked token rewrites the same entry.

Returns:
  - error: A registry dependency error when the revocation could not be recorded
*/
func (service *Service) Logout(context context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := service.tokenProvider.Verify(token)
	if err != nil {
		return nil
	}

	ttl := service.tokenProvider.RemainingValidity(claims)
	if ttl <= 0 {
		return nil
	}

	if err := service.registry.Revoke(context, token, ttl); err != nil {
		return apperr.Unavailable(apperr.DependencyRegistry, err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "session_revoked",
		slog.String("user_id", claims.UserID),
		slog.Duration("ttl", ttl),
	)

	return nil
}

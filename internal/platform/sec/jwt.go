// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. The [TokenService] is shared by both services: the auth
// service issues tokens and the task service only verifies them, so both must be
// constructed with the same secret.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/tasktrack/pkg/uuid"
)

// ErrInvalidToken is the only error returned by [TokenService.Verify].
//
// Malformed, forged, expired and not-yet-valid tokens all collapse into it so that
// callers cannot be used as an oracle for which check failed.
var ErrInvalidToken = errors.New("sec: invalid or expired token")

// AuthClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// Embedding the UserID and Email lets the task service reconstruct the caller
// WITHOUT querying the credential store on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: Shared HMAC key, at least 32 bytes.
//   - issuer: Value of the 'iss' claim, checked on verification.
//   - lifetime: Validity window of issued tokens.
//   - leeway: Tolerated clock skew between the issuing and verifying hosts.
func NewTokenService(secret, issuer string, lifetime, leeway time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: token secret must be at least 32 bytes")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("sec: token lifetime must be positive")
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
		leeway:   leeway,
		now:      time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now. Used by tests.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// Leeway returns the tolerated clock skew.
func (service *TokenService) Leeway() time.Duration {
	return service.leeway
}

// Issue creates a signed token for a user.
//
// # Returns
//   - The signed token string.
//   - The instant at which the token expires.
func (service *TokenService) Issue(userID, email string) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.lifetime)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// Verify checks the signature, issuer and expiry of a token string.
//
// It never consults external state.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(service.leeway),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RemainingValidity reports how long claims stay admissible, leeway included.
//
// It returns zero once the token can no longer pass [TokenService.Verify].
func (service *TokenService) RemainingValidity(claims *AuthClaims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Add(service.leeway).Sub(service.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the auth service: the credential store, the account use
cases (register, login, me, logout) and their HTTP surface.

# Architecture

Sessions are stateless signed tokens. This package issues them and, on logout,
writes them to the shared revocation registry. It never stores session rows.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// # Domain Entities

// User is a registered account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUsername = "username"
	FieldUser     = "user"
)

// # Constraints

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 6

	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72

	// MaxUsernameLength bounds display names.
	MaxUsernameLength = 50
)

// emailFolder folds case with Unicode rules, not just ASCII lowering.
var emailFolder = cases.Fold()

// NormalizeEmail trims and case-folds an address so that uniqueness and lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

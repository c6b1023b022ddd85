// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository is the Credential Store.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound, or a store dependency error
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound, or a store dependency error
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account and fills its timestamps.

		Returns:
		  - error: dberr.ErrDuplicate when the email is taken
	*/
	Create(context context.Context, user *User) error

	// DeleteAll removes every account. Used by the development seeder only.
	DeleteAll(context context.Context) (int64, error)
}

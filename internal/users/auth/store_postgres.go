// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/tasktrack/internal/platform/database/schema"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	"github.com/taibuivan/tasktrack/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on the auth database.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var userColumns = schema.Users.SelectList()

/*
Create inserts a user row. Timestamps are assigned by the database.

Returns:
  - error: dberr.ErrDuplicate on the unique email index, otherwise a store error
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (id, email, username, passwordhash)
		VALUES ($1, $2, $3, $4)
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "postgres_user_repo_create_failed")
}

// FindByEmail looks a user up by normalized email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return repository.findOne(context, query, email, "postgres_user_repo_find_by_email_failed")
}

// FindByID looks a user up by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return repository.findOne(context, query, id, "postgres_user_repo_find_by_id_failed")
}

// DeleteAll truncates the users table and reports how many rows were removed.
func (repository *PostgresUserRepository) DeleteAll(context context.Context) (int64, error) {
	tag, err := repository.db.Exec(context, `DELETE FROM users`)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_user_repo_delete_all_failed")
	}
	return tag.RowsAffected(), nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, query, argument, action string) (*User, error) {
	user := &User{}
	err := repository.db.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

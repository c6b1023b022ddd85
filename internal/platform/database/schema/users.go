// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the repositories query.
//
// Column lists are built from these descriptors so a renamed column only
// changes here and in the migrations.
package schema

import "strings"

// UsersTable represents the 'users' table of the auth database.
type UsersTable struct {
	Table        string
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    string
	UpdatedAt    string
}

// Users is the schema definition for the auth service's users table.
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Email:        "email",
	Username:     "username",
	PasswordHash: "passwordhash",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns lists every column in scan order.
func (t UsersTable) Columns() []string {
	return []string{t.ID, t.Email, t.Username, t.PasswordHash, t.CreatedAt, t.UpdatedAt}
}

// SelectList joins [UsersTable.Columns] for a SELECT or RETURNING clause.
func (t UsersTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}

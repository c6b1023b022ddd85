// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to generate Version 7 values, which keep
B-tree indexes on the users and tasks tables append-mostly.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// # Parsing

// IsValid reports whether value is a canonical UUID string of any version.
func IsValid(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil && len(value) == 36
}

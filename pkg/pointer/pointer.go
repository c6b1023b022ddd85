// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values.

Partial updates model "field absent" as a nil pointer, so these helpers appear
wherever a request payload is turned into an update patch.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Map applies fn to the pointed-to value, keeping nil as nil.
func Map[T, U any](p *T, fn func(T) U) *U {
	if p == nil {
		return nil
	}
	mapped := fn(*p)
	return &mapped
}

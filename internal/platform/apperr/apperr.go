// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by both services.

Taxonomy:

  - 400 VALIDATION_ERROR: malformed, missing or out-of-range input.
  - 401 UNAUTHORIZED: no token, a rejected token, or bad credentials.
  - 404 NOT_FOUND: absent, or owned by someone else. The two are never distinguished.
  - 409 CONFLICT: a unique field is already taken.
  - 500 INTERNAL_ERROR: anything else, including store, cache and registry outages.

Services return [*AppError]; handlers hand it to respond.Error untouched.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Dependency Kinds

// Dependency names the external collaborator behind a 5xx failure.
//
// It is never sent to clients. Cache failures are degraded-but-recoverable and
// normally absorbed before they reach a handler; store failures abort the request.
type Dependency string

const (
	DependencyStore    Dependency = "store"
	DependencyCache    Dependency = "cache"
	DependencyRegistry Dependency = "registry"
)

// AppError is a failure that already knows its HTTP shape.
//
// Only Code, Message and Details are serialized. Cause and Dependency stay on
// the server for logs and metrics.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Dependency Dependency   `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-facing message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # 4xx

// NotFound reports a missing resource as "<resource> not found".
//
//	apperr.NotFound("Task") // "Task not found"
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

// Unauthorized rejects the caller's identity.
func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Conflict reports a unique-field collision.
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, "CONFLICT", message)
}

// ValidationError rejects input. Details lists every failed field.
func ValidationError(message string, details ...FieldError) *AppError {
	appError := newError(http.StatusBadRequest, "VALIDATION_ERROR", message)
	appError.Details = details
	return appError
}

// # 5xx

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appError := newError(http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// Unavailable is [Internal] tagged with the dependency that failed.
func Unavailable(dependency Dependency, cause error) *AppError {
	appError := Internal(cause)
	appError.Dependency = dependency
	return appError
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// DependencyOf returns the dependency kind carried by err, or "" if none.
func DependencyOf(err error) Dependency {
	if appError := As(err); appError != nil {
		return appError.Dependency
	}
	return ""
}

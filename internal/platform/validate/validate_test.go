// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/validate"
)

func failure(t *testing.T, v *validate.Validator) *apperr.AppError {
	t.Helper()
	appError := apperr.As(v.Err())
	require.NotNil(t, appError, "expected a validation failure")
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	return appError
}

func TestRequired_RejectsBlankTitles(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		v := (&validate.Validator{}).Required("title", title, "Title is required")

		appError := failure(t, v)
		assert.Equal(t, "Title is required", appError.Message)
		assert.Equal(t, []apperr.FieldError{{Field: "title", Message: "Title is required"}}, appError.Details)
	}

	assert.NoError(t, (&validate.Validator{}).Required("title", "Buy milk", "Title is required").Err())
}

func TestEmail(t *testing.T) {
	accepted := []string{"a@x.com", "first.last+tag@example.co.uk"}
	rejected := []string{"", "a@", "@x.com", "plainaddress"}

	for _, email := range accepted {
		assert.False(t, (&validate.Validator{}).Email("email", email).HasErrors(), email)
	}
	for _, email := range rejected {
		assert.True(t, (&validate.Validator{}).Email("email", email).HasErrors(), email)
	}
}

func TestLengthsCountRunes(t *testing.T) {
	title := strings.Repeat("ñ", 200)
	assert.NoError(t, (&validate.Validator{}).MaxLen("title", title, 200).Err())

	appError := failure(t, (&validate.Validator{}).MaxLen("title", title+"ñ", 200))
	assert.Equal(t, "Title must be at most 200 characters", appError.Message)

	appError = failure(t, (&validate.Validator{}).MinLen("password", "abc", 6))
	assert.Equal(t, "Password must be at least 6 characters", appError.Message)
}

func TestUUID(t *testing.T) {
	assert.False(t, (&validate.Validator{}).UUID("id", "0190f0a2-7b7c-7d2e-9a4b-3c2d1e0f9a8b").HasErrors())
	assert.True(t, (&validate.Validator{}).UUID("id", "42").HasErrors())
}

func TestErr_LeadsWithFirstFailureAndKeepsAll(t *testing.T) {
	v := &validate.Validator{}
	v.Required("email", "", "Email, password, and username are required").
		MinLen("password", "a", 6).
		Custom("title", true, "Title cannot be empty").
		Custom("description", false, "never added")

	appError := failure(t, v)
	assert.Equal(t, "Email, password, and username are required", appError.Message)
	require.Len(t, appError.Details, 3)
	assert.Equal(t, "title", appError.Details[2].Field)
}

func TestErrInvalidJSON(t *testing.T) {
	appError := apperr.As(validate.ErrInvalidJSON)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}

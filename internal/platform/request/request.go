// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/ctxutil"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies. Task descriptions are the largest field.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size cap)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredClaims ensures the request passed the Session Gate and returns its claims.

Returns:
  - *sec.AuthClaims: The admitted session claims
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// Handlers mounted behind RequireAuth never see nil here
	if claims == nil {
		return nil, apperr.Unauthorized("No token provided")
	}

	return claims, nil
}

/*
RequiredUserID returns the ID of the admitted caller.
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/ctxutil"
	"github.com/taibuivan/tasktrack/internal/platform/respond"
	"github.com/taibuivan/tasktrack/internal/session"
)

// Admitter runs a token through the Session Gate.
//
// # Why an interface?
//
// It decouples the middleware from [session.Gate] so handlers can be tested
// with a stub gate.
type Admitter interface {
	Admit(ctx context.Context, token string) session.Decision
}

// TokenFromRequest returns the presented session token.
//
// The HTTP-only cookie is authoritative; an 'Authorization: Bearer' header is
// accepted for non-browser clients.
func TokenFromRequest(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate runs the Session Gate for every request.
//
// # Flow
//  1. Read the token with [TokenFromRequest].
//  2. Ask the gate for a [session.Decision].
//  3. On admission, inject [*sec.AuthClaims] into the request context.
//  4. Otherwise record the reason and continue anonymously; [RequireAuth] rejects.
func Authenticate(gate Admitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			decision := gate.Admit(ctx, TokenFromRequest(request))

			ctx = ctxutil.WithSessionReason(ctx, string(decision.Reason))
			if decision.Admitted() {
				ctx = ctxutil.WithAuthUser(ctx, decision.Claims)
			} else if decision.Reason != session.ReasonNoToken {
				ctxutil.GetLogger(ctx).InfoContext(ctx, "session_rejected", slog.String("reason", string(decision.Reason)))
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that the gate did not admit.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. The 401 message is
// "No token provided" when nothing was presented and "Invalid or expired token"
// for every other rejection.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			reason := session.Reason(ctxutil.GetSessionReason(request.Context()))
			if reason == "" {
				reason = session.ReasonNoToken
			}
			respond.Error(writer, request, apperr.Unauthorized(reason.Message()))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session decides, once per request, whether a presented token is a live session.

It owns the two halves of cross-service session validity:

  - [Registry]: the shared denylist written on logout.
  - [Gate]: the per-request check that consults the registry, then verifies the token.

The Gate keeps no session state. Every request is judged on the token it carries,
the registry and the signing secret alone, so any number of service replicas can
admit the same session.
*/
package session

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
)

// # Decisions

// Reason explains a gate decision. Rejection reasons are distinct for logs and
// metrics only; clients see the same 401 for every one of them.
type Reason string

const (
	ReasonAdmitted            Reason = "admitted"
	ReasonNoToken             Reason = "no_token"
	ReasonRevoked             Reason = "revoked"
	ReasonInvalid             Reason = "invalid"
	ReasonRegistryUnavailable Reason = "registry_unavailable"
	ReasonAbandoned           Reason = "abandoned"
)

// Message is the client-facing explanation of a rejection.
func (reason Reason) Message() string {
	if reason == ReasonNoToken {
		return "No token provided"
	}
	return "Invalid or expired token"
}

// Decision is the terminal state of one pass through the gate.
type Decision struct {
	// Claims is set only when the session is admitted.
	Claims *sec.AuthClaims
	Reason Reason
}

// Admitted reports whether the request may proceed as Claims.
func (decision Decision) Admitted() bool {
	return decision.Reason == ReasonAdmitted && decision.Claims != nil
}

// # Failure Policy

// FailurePolicy is what the gate does when the registry cannot answer.
type FailurePolicy int

const (
	// FailOpen treats an unreachable registry as "not revoked" and logs a warning.
	// A revoked but unexpired token is admitted while the registry is down.
	FailOpen FailurePolicy = iota

	// FailClosed rejects every token while the registry is down, turning a registry
	// outage into a full authentication outage.
	FailClosed
)

func (policy FailurePolicy) String() string {
	if policy == FailClosed {
		return "fail_closed"
	}
	return "fail_open"
}

// # Gate

// Verifier checks a token's signature and expiry without external state.
type Verifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// Recorder receives gate outcomes. Satisfied by metrics.Collector.
type Recorder interface {
	RecordGateDecision(outcome string)
	RecordDependencyError(dependency string)
}

// Gate is the Session Gate shared by every protected route of both services.
type Gate struct {
	registry Registry
	verifier Verifier
	policy   FailurePolicy
	recorder Recorder
	logger   *slog.Logger
}

// NewGate creates a new Gate. recorder may be nil.
func NewGate(registry Registry, verifier Verifier, policy FailurePolicy, recorder Recorder, logger *slog.Logger) *Gate {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Gate{
		registry: registry,
		verifier: verifier,
		policy:   policy,
		recorder: recorder,
		logger:   logger,
	}
}

/*
Admit runs one request's token through the gate.

States, in order:
 1. NoToken: empty token, rejected.
 2. CheckRevocation: the registry is consulted. Revoked tokens are rejected. If the
    registry is unreachable the [FailurePolicy] decides. A request whose context
    ended first is rejected without consulting the policy.
 3. Verify: signature, issuer and expiry. Failures are rejected.
 4. Admitted: claims are returned for the request context.
*/
func (gate *Gate) Admit(ctx context.Context, token string) Decision {
	decision := gate.admit(ctx, token)
	gate.recorder.RecordGateDecision(string(decision.Reason))
	return decision
}

func (gate *Gate) admit(ctx context.Context, token string) Decision {

	// 1. NoToken
	if token == "" {
		return Decision{Reason: ReasonNoToken}
	}

	// 2. CheckRevocation
	revoked, err := gate.registry.IsRevoked(ctx, token)
	switch {
	case err != nil && ctx.Err() != nil:
		// The caller left before the registry answered.
		return Decision{Reason: ReasonAbandoned}
	case err != nil:
		gate.recorder.RecordDependencyError(string(apperr.DependencyRegistry))
		if gate.policy == FailClosed {
			gate.logger.ErrorContext(ctx, "session_registry_unavailable",
				slog.String("policy", gate.policy.String()),
				slog.Any("error", err),
			)
			return Decision{Reason: ReasonRegistryUnavailable}
		}
		gate.logger.WarnContext(ctx, "session_registry_unavailable",
			slog.String("policy", gate.policy.String()),
			slog.Any("error", err),
		)
	case revoked:
		return Decision{Reason: ReasonRevoked}
	}

	// 3. Verify
	claims, err := gate.verifier.Verify(token)
	if err != nil {
		return Decision{Reason: ReasonInvalid}
	}

	// 4. Admitted
	return Decision{Claims: claims, Reason: ReasonAdmitted}
}

type nopRecorder struct{}

func (nopRecorder) RecordGateDecision(string)    {}
func (nopRecorder) RecordDependencyError(string) {}

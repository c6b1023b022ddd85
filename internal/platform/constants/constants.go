// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values shared by the auth and
task services.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie layout and token lifetimes.
  - Redis: Key prefixes for the revocation registry and the task cache.

Both services must agree on the session and Redis values, otherwise a token
revoked by one service would still be admitted by the other.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tasktrack"
	AppVersion = "0.1.0-dev"

	// ServiceAuth and ServiceTasks identify the two deployable services.
	ServiceAuth  = "auth-service"
	ServiceTasks = "todos-service"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "tasktrack.auth"

	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "token"

	// SessionCookiePath scopes the cookie to every route on both services.
	SessionCookiePath = "/"

	// DefaultTokenLifetime is the validity window of a freshly issued token.
	DefaultTokenLifetime = 24 * time.Hour

	// DefaultRevocationTTL is used when the remaining lifetime of a token cannot be derived.
	DefaultRevocationTTL = 24 * time.Hour

	// MinSecretLength is the minimum byte length of the shared HMAC secret.
	MinSecretLength = 32
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldService = "service"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixRevoked namespaces revoked session tokens.
	RedisPrefixRevoked = "blacklist:"

	// RedisPrefixTaskList namespaces the cached task list of one owner.
	RedisPrefixTaskList = "todos:"
)

// # Task Cache

const (
	// DefaultTaskCacheTTL is the safety-net expiry of a cached task list.
	DefaultTaskCacheTTL = 300 * time.Second

	// DefaultRedisOpTimeout bounds every individual registry or cache call.
	DefaultRedisOpTimeout = 500 * time.Millisecond
)

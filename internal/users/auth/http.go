// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/middleware"
	requestutil "github.com/taibuivan/tasktrack/internal/platform/request"
	"github.com/taibuivan/tasktrack/internal/platform/respond"
)

// # Definitions & Constructors

// CookieSettings controls the session cookie written on register and login.
type CookieSettings struct {
	// Secure restricts the cookie to HTTPS. Enabled in production.
	Secure bool
	// MaxAge matches the token lifetime.
	MaxAge time.Duration
}

// Handler implements the auth HTTP surface.
type Handler struct {
	authService *Service
	cookies     CookieSettings
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, cookies CookieSettings) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

// Routes returns a [chi.Router] with the auth endpoints.
//
// # Endpoints
//   - POST /register : Creates an account and signs it in.
//   - POST /login    : Signs in with email and password.
//   - GET  /me       : Returns the caller's account (session required).
//   - POST /logout   : Revokes the presented session and clears the cookie.
func (handler *Handler) Routes(gate middleware.Admitter) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(gate))
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the {"user": ...} body shared by register, login and me.
type userResponse struct {
	User *User `json:"user"`
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Response:
  - 201: {user} and the session cookie
  - 400: Missing fields or short password
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.authService.Register(request.Context(), RegisterInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, issued.Token)
	respond.Created(writer, userResponse{User: issued.User})
}

/*
Login authenticates a user and establishes a session.

POST /api/auth/login

Response:
  - 200: {user} and the session cookie
  - 400: Missing fields
  - 401: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.authService.Login(request.Context(), LoginInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, issued.Token)
	respond.OK(writer, userResponse{User: issued.User})
}

/*
Me returns the account of the admitted caller.

GET /api/auth/me

Response:
  - 200: {user}
  - 401: No admitted session
  - 404: Account no longer exists
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, userResponse{User: user})
}

/*
Logout terminates the current session.

POST /api/auth/logout

The cookie is cleared even when the revocation could not be recorded, so the
browser stops presenting the token either way.

Response:
  - 200: {message}
  - 500: The revocation registry was unavailable
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	err := handler.authService.Logout(request.Context(), middleware.TokenFromRequest(request))

	handler.clearSessionCookie(writer)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Logged out successfully")
}

// # Cookie Helpers

func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(handler.cookies.MaxAge / time.Second),
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command auth is the entry point of the authentication service.
//
// It owns the Credential Store, issues session tokens and records revocations
// on logout. Everything else is shared startup wiring from package app.
package main

import (
	"log/slog"
	"os"

	"github.com/taibuivan/tasktrack/internal/api"
	"github.com/taibuivan/tasktrack/internal/app"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/users/auth"
)

func main() {
	bootLog := app.NewLogger(constants.ServiceAuth, false)
	bootLog.Info("service_initializing", slog.String("version", constants.AppVersion))

	runtime, err := app.Open(constants.ServiceAuth)
	app.Must(bootLog, err, "open runtime")
	defer runtime.Close()

	// # Domain Wiring
	userRepository := auth.NewUserRepository(runtime.Pool)
	authService := auth.NewService(
		userRepository,
		runtime.Tokens,
		sec.NewPasswordHasher(runtime.Config.BcryptCost),
		runtime.Registry,
	)
	authHandler := auth.NewHandler(authService, auth.CookieSettings{
		Secure: runtime.Config.IsProduction(),
		MaxAge: runtime.Config.TokenLifetime,
	})

	handlers := runtime.Handlers(api.Mount{
		Prefix:  "/api/auth",
		Handler: authHandler.Routes(runtime.Gate),
	})

	if err := runtime.Serve(handlers); err != nil {
		runtime.Log.Error("server_error", slog.Any("error", err))
		runtime.Close()
		os.Exit(1)
	}
}

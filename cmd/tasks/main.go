// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tasks is the entry point of the task service.
//
// It never issues tokens. Sessions are verified with the shared secret and
// checked against the shared revocation registry on every request.
package main

import (
	"log/slog"
	"os"

	"github.com/taibuivan/tasktrack/internal/api"
	"github.com/taibuivan/tasktrack/internal/app"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/tasks/task"
)

func main() {
	bootLog := app.NewLogger(constants.ServiceTasks, false)
	bootLog.Info("service_initializing", slog.String("version", constants.AppVersion))

	runtime, err := app.Open(constants.ServiceTasks)
	app.Must(bootLog, err, "open runtime")
	defer runtime.Close()

	// # Domain Wiring
	taskRepository := task.NewRepository(runtime.Pool)
	taskCache := task.NewRedisCache(runtime.Redis, runtime.Guard("task_cache"))
	taskService := task.NewService(taskRepository, taskCache, runtime.Config.TaskCacheTTL, runtime.Collector)
	taskHandler := task.NewHandler(taskService)

	handlers := runtime.Handlers(api.Mount{
		Prefix:  "/api/tasks",
		Handler: taskHandler.Routes(runtime.Gate),
	})

	if err := runtime.Serve(handlers); err != nil {
		runtime.Log.Error("server_error", slog.Any("error", err))
		runtime.Close()
		os.Exit(1)
	}
}

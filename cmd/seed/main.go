// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed fills or empties a development database.
//
// # Usage
//
//	seed --service auth                     # three test accounts
//	seed --service tasks --owner <userId>   # five tasks for one account
//	seed --service tasks --clear            # delete every task and cached list
//
// It reads the same environment as the service it targets. Never run it
// against production.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/taibuivan/tasktrack/internal/app"
	"github.com/taibuivan/tasktrack/internal/platform/config"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	pgstore "github.com/taibuivan/tasktrack/internal/platform/postgres"
	redisstore "github.com/taibuivan/tasktrack/internal/platform/redis"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/tasks/task"
	"github.com/taibuivan/tasktrack/internal/users/auth"
	"github.com/taibuivan/tasktrack/pkg/uuid"
)

const seedTimeout = time.Minute

func main() {
	log := app.NewLogger("seed", false)
	if err := run(os.Args[1:], log); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Error("seed_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(args []string, log *slog.Logger) error {
	var (
		service   string
		ownerID   string
		clearRows bool
	)

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&service, "service", "", "target service: auth or tasks")
	flagSet.StringVar(&ownerID, "owner", "", "user id owning the seeded tasks (tasks only)")
	flagSet.BoolVar(&clearRows, "clear", false, "delete all rows instead of seeding")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	switch service {
	case "auth":
		return runAuth(ctx, log, clearRows)
	case "tasks":
		if !clearRows && !uuid.IsValid(ownerID) {
			return fmt.Errorf("seed: --owner must be a user id when seeding tasks")
		}
		return runTasks(ctx, log, ownerID, clearRows)
	default:
		return fmt.Errorf("seed: --service must be auth or tasks, got %q", service)
	}
}

// # Auth

type seedUser struct {
	Email    string
	Password string
	Username string
}

var testUsers = []seedUser{
	{Email: "test@example.com", Password: "password123", Username: "Test User"},
	{Email: "admin@example.com", Password: "admin123", Username: "Admin User"},
	{Email: "john@example.com", Password: "john123", Username: "John Doe"},
}

func runAuth(ctx context.Context, log *slog.Logger, clearRows bool) error {
	cfg, err := config.Load(constants.ServiceAuth)
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := auth.NewUserRepository(pool)
	if clearRows {
		removed, err := users.DeleteAll(ctx)
		if err != nil {
			return err
		}
		log.Info("users_cleared", slog.Int64("removed", removed))
		return nil
	}

	return seedUsers(ctx, log, users, sec.NewPasswordHasher(cfg.BcryptCost))
}

// seedUsers creates every missing test account. Existing emails are skipped.
func seedUsers(ctx context.Context, log *slog.Logger, users auth.UserRepository, hasher auth.PasswordHasher) error {
	for _, candidate := range testUsers {
		email := auth.NormalizeEmail(candidate.Email)

		_, err := users.FindByEmail(ctx, email)
		if err == nil {
			log.Info("user_exists_skipped", slog.String("email", email))
			continue
		}
		if !errors.Is(err, dberr.ErrNotFound) {
			return err
		}

		hash, err := hasher.Hash(candidate.Password)
		if err != nil {
			return err
		}

		user := &auth.User{ID: uuid.New(), Email: email, Username: candidate.Username, PasswordHash: hash}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		log.Info("user_seeded", slog.String("email", email), slog.String("user_id", user.ID))
	}
	return nil
}

// # Tasks

var testTasks = []task.CreateInput{
	{Title: "Buy milk", Description: "From the corner shop"},
	{Title: "Write the report", Description: "Quarterly project report"},
	{Title: "Call mom", Description: ""},
	{Title: "Go to the gym", Description: "Leg day"},
	{Title: "Read a book", Description: "At least 30 pages"},
}

func runTasks(ctx context.Context, log *slog.Logger, ownerID string, clearRows bool) error {
	cfg, err := config.Load(constants.ServiceTasks)
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return err
	}
	defer client.Close()

	guard := redisstore.NewGuard(redisstore.DefaultGuardConfig("task_cache", cfg.RedisOpTimeout), log)
	cache := task.NewRedisCache(client, guard)
	repository := task.NewRepository(pool)

	if clearRows {
		return clearTasks(ctx, log, repository, cache)
	}

	service := task.NewService(repository, cache, cfg.TaskCacheTTL, nil)
	return seedTasks(ctx, log, service, ownerID)
}

// seedTasks goes through the service so the owner's cached list is re-primed.
func seedTasks(ctx context.Context, log *slog.Logger, service *task.Service, ownerID string) error {
	for _, input := range testTasks {
		created, err := service.Create(ctx, ownerID, input)
		if err != nil {
			return err
		}
		log.Info("task_seeded", slog.String("task_id", created.ID), slog.String("title", created.Title))
	}
	return nil
}

type cacheClearer interface {
	InvalidateAll(ctx context.Context) (int64, error)
}

// clearTasks empties the store first, then drops every cached list.
func clearTasks(ctx context.Context, log *slog.Logger, repository task.Repository, cache cacheClearer) error {
	removed, err := repository.DeleteAll(ctx)
	if err != nil {
		return err
	}

	dropped, err := cache.InvalidateAll(ctx)
	if err != nil {
		log.Warn("task_cache_clear_failed", slog.Any("error", err))
	}

	log.Info("tasks_cleared", slog.Int64("removed", removed), slog.Int64("cache_entries_dropped", dropped))
	return nil
}

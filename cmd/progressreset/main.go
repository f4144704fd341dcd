package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"lifeboard/internal/adapter/repo"
	"lifeboard/internal/domain"
	"lifeboard/internal/infra"
	"lifeboard/internal/progress"
)

func main() {
	var (
		idFlag     string
		emailFlag  string
		moduleFlag string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to reset (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to reset")
	flag.StringVar(&moduleFlag, "module", "", "module to reset to its default value (tasks, habits, diary, ...)")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	module, err := progress.ParseModule(moduleFlag)
	if err != nil {
		exitWithError(fmt.Errorf("-module: %w", err))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "progressreset").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	users := repo.NewUserRepository(runner)
	svc := progress.NewService(repo.NewProgressStore(runner, logger), nil)

	var user *domain.User
	if userID != "" {
		user, err = users.GetByID(ctx, userID)
	} else {
		user, err = users.GetByEmail(ctx, email)
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", err))
	}

	if err := svc.Reset(ctx, user.ID, module); err != nil {
		exitWithError(fmt.Errorf("failed to reset %s: %w", module, err))
	}
	value, err := svc.Get(ctx, user.ID, module)
	if err != nil {
		exitWithError(fmt.Errorf("failed to read %s: %w", module, err))
	}
	fmt.Printf("User %s (%s) module %s reset\n", user.ID, user.Email, module)
	fmt.Printf("%s=%s\n", module, value)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

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

	"lifeboard/internal/infra"
)

func main() {
	var commandFlag string
	flag.StringVar(&commandFlag, "command", infra.MigrateUp, "migration command (up, down, status, reset)")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "migrate").Logger()
	command := strings.ToLower(strings.TrimSpace(commandFlag))
	if err := infra.MigratePool(ctx, pool, command); err != nil {
		pool.Close()
		exitWithError(fmt.Errorf("migrate %s: %w", command, err))
	}
	logger.Info().Str("command", command).Msg("migrations applied")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

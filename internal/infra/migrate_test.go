package infra

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"

	"lifeboard/internal/db/migrations"
)

func newMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateDispatch(t *testing.T) {
	origUp, origDown := gooseUp, gooseDown
	t.Cleanup(func() { gooseUp, gooseDown = origUp, origDown })

	var calls []string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		calls = append(calls, "up")
		return nil
	}
	gooseDown = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	db := newMockDB(t)
	if err := Migrate(context.Background(), db, MigrateUp); err != nil {
		t.Fatalf("Migrate up: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("calls = %v", calls)
	}
	if err := Migrate(context.Background(), db, MigrateDown); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Migrate down err = %v", err)
	}
	if err := Migrate(context.Background(), db, "sideways"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no embedded migrations")
	}
	for _, name := range files {
		body, err := fs.ReadFile(migrations.Migrations, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
			t.Fatalf("%s lacks goose annotations", name)
		}
	}
}

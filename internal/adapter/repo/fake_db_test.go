package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lifeboard/internal/infra"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type execCall struct {
	query string
	args  []any
}

// fakeDB serves QueryRow from rows keyed by query text and records every Exec.
type fakeDB struct {
	rows    map[string]func(args []any) pgx.Row
	execs   []execCall
	execErr error
	txs     int
	commits int
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if h, ok := f.rows[query]; ok {
		return h(args)
	}
	return simpleRow{}
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("query not supported")
}

func (f *fakeDB) WithTx(_ context.Context, fn func(infra.SQLExecutor) error) error {
	f.txs++
	if err := fn(f); err != nil {
		return err
	}
	f.commits++
	return nil
}

func docRow(doc string) func([]any) pgx.Row {
	return func([]any) pgx.Row {
		return simpleRow{scan: func(dest ...any) error {
			*dest[0].(*[]byte) = []byte(doc)
			return nil
		}}
	}
}

func userRow(id, name, email, hash, googleID, avatar string) func([]any) pgx.Row {
	return func([]any) pgx.Row {
		return simpleRow{scan: func(dest ...any) error {
			*dest[0].(*string) = id
			*dest[1].(*string) = name
			*dest[2].(*string) = email
			*dest[3].(*string) = hash
			*dest[4].(*string) = googleID
			*dest[5].(*string) = avatar
			*dest[6].(*time.Time) = time.Unix(0, 0)
			*dest[7].(*time.Time) = time.Unix(0, 0)
			return nil
		}}
	}
}

func errRow(err error) func([]any) pgx.Row {
	return func([]any) pgx.Row {
		return simpleRow{scan: func(...any) error { return err }}
	}
}

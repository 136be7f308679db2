// Package repository provides the PostgreSQL persistence layer.
//
// All methods hang off Store, which wraps either the shared pgxpool or an
// open transaction. Services receive a *Store and use WithTx to run
// multi-statement mutations atomically; inside the callback every method
// runs on the transaction.
package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a row does not exist. Callers translate it
// into a domain AppError at the boundary.
var ErrNotFound = errors.New("record not found")

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the repository facade.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

// NewStore creates a Store backed by the shared connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// WithTx runs fn inside a transaction. The Store passed to fn executes
// every statement on that transaction; it commits when fn returns nil and
// rolls back otherwise. Nested calls are not supported.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, isTx := s.db.(pgx.Tx); isTx {
		return fmt.Errorf("repository: nested transaction")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{pool: s.pool, db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ApplySchema executes schema.sql statement by statement. Idempotent; used
// by development auto-migration and the test helper.
func (s *Store) ApplySchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// notFound maps pgx.ErrNoRows onto ErrNotFound, passing other errors through.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

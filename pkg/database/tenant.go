package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by pooled connections and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HouseholdScope wraps a connection with household context and ensures cleanup.
// The connection has app.current_household_id set for RLS policy evaluation.
type HouseholdScope struct {
	HouseholdID uuid.UUID
	Conn        *pgxpool.Conn
	tx          pgx.Tx
}

// DB returns the open transaction if there is one, otherwise the connection.
func (s *HouseholdScope) DB() Querier {
	if s.tx != nil {
		return s.tx
	}
	return s.Conn
}

// Close resets household context and releases the connection to the pool.
// This MUST be called to prevent household context from leaking to the next request.
func (s *HouseholdScope) Close() {
	if s.Conn == nil {
		return
	}
	_, _ = s.Conn.Exec(context.Background(), "RESET app.current_household_id")
	s.Conn.Release()
}

// WithHousehold acquires a connection and sets the household context for RLS.
// The returned HouseholdScope MUST be closed with defer scope.Close().
func (db *DB) WithHousehold(ctx context.Context, householdID uuid.UUID) (*HouseholdScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_household_id', $1, false)", householdID.String())
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &HouseholdScope{HouseholdID: householdID, Conn: conn}, nil
}

// InTx runs fn inside a transaction on the household connection in ctx.
// Repositories called with the context passed to fn share the transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
func InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	scope, ok := GetHouseholdScope(ctx)
	if !ok {
		return fmt.Errorf("no household scope in context")
	}
	if scope.tx != nil {
		return fn(ctx)
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txScope := &HouseholdScope{HouseholdID: scope.HouseholdID, Conn: scope.Conn, tx: tx}

	if err := fn(SetHouseholdScope(ctx, txScope)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

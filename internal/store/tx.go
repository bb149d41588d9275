package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTxOpen is returned by Begin while a transaction is already open.
	// The store does not support nested transactions; the facade layers
	// re-entrant lock scopes on top by reusing the open transaction.
	ErrTxOpen = errors.New("store: transaction already open")

	// ErrNoTx is returned by Commit and Rollback when no transaction is
	// open.
	ErrNoTx = errors.New("store: no open transaction")
)

// Begin opens a write transaction on the shared connection.
//
// BEGIN IMMEDIATE takes the database write lock up front, so no other
// writer can interleave between the operations of the scope. Because the
// pool is capped at one connection, every statement until Commit or
// Rollback runs inside this transaction.
func (s *Store) Begin(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if s.inTx {
		return ErrTxOpen
	}
	if _, err := db.ExecContext(ctx, "BEGIN IMMEDIATE TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.inTx = true
	return nil
}

// Commit makes all operations since Begin durable as one atomic unit.
//
// When COMMIT fails (canceled context, busy database, I/O error), the
// transaction is still open on the shared connection; leaving it open
// with inTx cleared would route every later write into the orphaned
// transaction, to be discarded on close. So a failed COMMIT is followed
// by a ROLLBACK, and inTx is cleared only once the transaction is
// actually resolved.
func (s *Store) Commit(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if !s.inTx {
		return ErrNoTx
	}
	if _, err := db.ExecContext(ctx, "COMMIT"); err != nil {
		// Plain Exec: the recovery rollback must not be lost to the
		// caller's canceled context.
		if _, rbErr := db.Exec("ROLLBACK"); rbErr != nil {
			return fmt.Errorf("commit transaction: %w (rollback also failed: %v)", err, rbErr)
		}
		s.inTx = false
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.inTx = false
	return nil
}

// Rollback discards all operations since Begin.
func (s *Store) Rollback(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if !s.inTx {
		return ErrNoTx
	}
	if _, err := db.ExecContext(ctx, "ROLLBACK"); err != nil {
		// Retry without the caller's context; see Commit.
		if _, rbErr := db.Exec("ROLLBACK"); rbErr != nil {
			return fmt.Errorf("rollback transaction: %w", err)
		}
	}
	s.inTx = false
	return nil
}

// InTx reports whether a transaction is currently open.
func (s *Store) InTx() bool {
	return s.inTx
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/roel-sundiam/tennis-tournament-management/repositories"
)

// TxRunner runs a unit of work atomically. The executor handed to fn is
// what the repositories write through, so every write inside fn commits or
// rolls back together.
type TxRunner interface {
	InTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) InTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LockTable serializes mutating operations per tournament. Slot
// regeneration and scheduling are multi-record write sequences with no
// atomic multi-record guarantee from the store, so concurrent mutation of
// the same tournament must be excluded up front. One table is shared by
// every service so bracket, match and schedule mutations of one
// tournament never interleave.
type LockTable struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[int]*sync.Mutex)}
}

// Acquire locks the given tournament and returns the release func.
func (lt *LockTable) Acquire(tournamentID int) func() {
	lt.mu.Lock()
	lock, ok := lt.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		lt.locks[tournamentID] = lock
	}
	lt.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

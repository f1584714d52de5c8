// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/payshare/backend/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
	// ErrStale is returned when a write was computed from expenses that have
	// since changed.
	ErrStale = errors.New("expenses changed")
)

// Store defines the interface for group and expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. ID and CreatedAt are filled in when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// CreateExpense persists an expense and its splits atomically.
	// Returns ErrNotFound if the group does not exist.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns every expense of a group with its splits,
	// oldest first, read as one consistent snapshot.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ExpenseVersion returns the Seq of the group's newest expense, or 0 when
	// it has none. It grows with every expense added to the group.
	ExpenseVersion(ctx context.Context, groupID string) (int64, error)

	// ListRecentActivity returns the latest expenses across all groups, newest first.
	ListRecentActivity(ctx context.Context, limit int) ([]*models.Activity, error)

	// ReplaceSettlements swaps the group's settlement snapshot for one computed
	// at the given expense version. Returns ErrStale, leaving the old snapshot
	// in place, if the group's expenses have moved past that version.
	ReplaceSettlements(ctx context.Context, groupID string, version int64, settlements []*models.Settlement) error

	// ListSettlementsByGroup returns the current snapshot in plan order.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}

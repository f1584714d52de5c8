package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/payshare/backend/internal/models"
	"github.com/payshare/backend/internal/storage"
)

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", expense.GroupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", expense.GroupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, title, total_amount, paid_by, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Title, expense.TotalAmount.String(),
		expense.PaidBy, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", mapConstraint(err))
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense seq: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, position, name, amount) VALUES (?, ?, ?, ?)",
			expense.ID, i, split.Name, split.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	expense.Seq = seq
	return nil
}

// ListExpensesByGroup retrieves a group's expenses with splits, oldest first.
// A single SELECT reads one consistent snapshot, so concurrent inserts never
// show up half-written.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.seq, e.id, e.group_id, e.title, e.total_amount, e.paid_by, e.created_by, e.created_at,
		        sp.name, sp.amount
		 FROM expenses e
		 LEFT JOIN expense_splits sp ON sp.expense_id = e.id
		 WHERE e.group_id = ?
		 ORDER BY e.seq, sp.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	var current *models.Expense
	for rows.Next() {
		var (
			e           models.Expense
			total       string
			splitName   sql.NullString
			splitAmount sql.NullString
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.GroupID, &e.Title, &total, &e.PaidBy, &e.CreatedBy, &e.CreatedAt,
			&splitName, &splitAmount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		if current == nil || current.ID != e.ID {
			if e.TotalAmount, err = decimal.NewFromString(total); err != nil {
				return nil, fmt.Errorf("invalid total for expense %s: %w", e.ID, err)
			}
			current = &e
			expenses = append(expenses, current)
		}

		if splitName.Valid {
			amount, err := decimal.NewFromString(splitAmount.String)
			if err != nil {
				return nil, fmt.Errorf("invalid split amount for expense %s: %w", e.ID, err)
			}
			current.Splits = append(current.Splits, models.Split{Name: splitName.String, Amount: amount})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ExpenseVersion returns the highest expense seq in the group, 0 if none.
func (s *SQLiteStore) ExpenseVersion(ctx context.Context, groupID string) (int64, error) {
	return expenseVersion(ctx, s.db, groupID)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func expenseVersion(ctx context.Context, q queryer, groupID string) (int64, error) {
	var version int64
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM expenses WHERE group_id = ?", groupID,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read expense version: %w", err)
	}
	return version, nil
}

// ListRecentActivity retrieves the latest expenses across groups, newest first.
func (s *SQLiteStore) ListRecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.group_id, g.name, e.title, e.total_amount, e.paid_by, e.created_at
		 FROM expenses e
		 JOIN groups g ON g.id = e.group_id
		 ORDER BY e.seq DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var items []*models.Activity
	for rows.Next() {
		item := &models.Activity{}
		var amount string
		if err := rows.Scan(&item.ExpenseID, &item.GroupID, &item.GroupName, &item.Title,
			&amount, &item.PaidBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount for expense %s: %w", item.ExpenseID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}

	return items, nil
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/payshare/backend/internal/models"
	"github.com/payshare/backend/internal/storage"
)

// ReplaceSettlements deletes the group's previous snapshot and inserts the new
// one in a single transaction. Readers see either the old plan or the new one.
// The version check runs inside the write transaction, so no expense insert
// can commit between check and commit.
func (s *SQLiteStore) ReplaceSettlements(ctx context.Context, groupID string, version int64, settlements []*models.Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM settlements WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete settlements: %w", err)
	}

	current, err := expenseVersion(ctx, tx, groupID)
	if err != nil {
		return err
	}
	if current != version {
		return fmt.Errorf("group %s at version %d, snapshot computed at %d: %w", groupID, current, version, storage.ErrStale)
	}

	now := time.Now().Unix()
	for i, settlement := range settlements {
		if settlement.ID == "" {
			settlement.ID = uuid.New().String()
		}
		if settlement.CreatedAt == 0 {
			settlement.CreatedAt = now
		}
		settlement.GroupID = groupID

		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (id, group_id, position, from_name, to_name, amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			settlement.ID, groupID, i, settlement.From, settlement.To, int64(settlement.Amount), settlement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListSettlementsByGroup retrieves the group's settlement snapshot in plan order.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_name, to_name, amount, created_at
		 FROM settlements WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.From, &settlement.To,
			&settlement.Amount, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payshare/backend/internal/cache"
	"github.com/payshare/backend/internal/calculator"
	"github.com/payshare/backend/internal/metrics"
	"github.com/payshare/backend/internal/models"
	"github.com/payshare/backend/internal/storage"
)

// Ledger turns a group's stored expenses into balances, a fairness score and
// a settlement plan, and keeps the cached summary and the persisted
// settlement snapshot in step with the expenses.
type Ledger struct {
	store   storage.Store
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLedger creates a ledger. c may be cache.Noop{} and m may be nil.
func NewLedger(store storage.Store, c cache.Cache, m *metrics.Metrics, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, cache: c, metrics: m, logger: logger}
}

// cachedSummary is the cache payload. Version is the group's expense version
// the summary was computed at; entries for any other version are ignored.
type cachedSummary struct {
	Version int64              `json:"version"`
	Summary calculator.Summary `json:"summary"`
}

// Summary returns the group's current summary. Returns storage.ErrNotFound
// for unknown groups.
//
// A computed summary is cached and its settlements persisted only if no
// expense was added while it was being computed; otherwise it is returned
// as is and the next call recomputes.
func (l *Ledger) Summary(ctx context.Context, groupID string) (*calculator.Summary, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	version, err := l.store.ExpenseVersion(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if summary, ok := l.cached(ctx, groupID, version); ok {
		l.metrics.ObserveSummary(metrics.SourceCache, len(summary.Settlements), float64(summary.Score))
		return summary, nil
	}

	expenses, version, err := l.expenses(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := calculator.Summarize(ExpenseRecords(expenses))

	snapshot := make([]*models.Settlement, len(summary.Settlements))
	for i, s := range summary.Settlements {
		snapshot[i] = &models.Settlement{GroupID: groupID, From: s.From, To: s.To, Amount: s.Amount}
	}
	switch err := l.store.ReplaceSettlements(ctx, groupID, version, snapshot); {
	case errors.Is(err, storage.ErrStale):
		l.logger.DebugContext(ctx, "Expenses changed during summary, not caching", "group_id", groupID, "version", version)
	case err != nil:
		return nil, fmt.Errorf("failed to store settlements: %w", err)
	default:
		l.remember(ctx, groupID, version, &summary)
	}

	l.metrics.ObserveSummary(metrics.SourceComputed, len(summary.Settlements), float64(summary.Score))
	l.logger.DebugContext(ctx, "Summary computed",
		"group_id", groupID,
		"version", version,
		"expenses", len(expenses),
		"participants", summary.Balances.Len(),
		"settlements", len(summary.Settlements),
		"score", summary.Score,
	)

	return &summary, nil
}

// Score returns the group's fairness score. It reads a current cached
// summary when there is one and otherwise computes the score in memory,
// writing neither the cache nor the settlement snapshot.
func (l *Ledger) Score(ctx context.Context, groupID string) (int, error) {
	version, err := l.store.ExpenseVersion(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if summary, ok := l.cached(ctx, groupID, version); ok {
		return summary.Score, nil
	}

	expenses, _, err := l.expenses(ctx, groupID)
	if err != nil {
		return 0, err
	}
	return calculator.FairnessScore(calculator.CalculateBalances(ExpenseRecords(expenses))), nil
}

// expenses loads the group's expenses and the version they were read at.
func (l *Ledger) expenses(ctx context.Context, groupID string) ([]*models.Expense, int64, error) {
	expenses, err := l.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load expenses: %w", err)
	}
	var version int64
	if n := len(expenses); n > 0 {
		version = expenses[n-1].Seq
	}
	return expenses, version, nil
}

// Settlements refreshes the group's summary and returns the persisted
// settlement snapshot.
func (l *Ledger) Settlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	if _, err := l.Summary(ctx, groupID); err != nil {
		return nil, err
	}
	settlements, err := l.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	return settlements, nil
}

// Invalidate drops the cached summary after the group's expenses change.
// Entries left behind by a failed delete are still rejected by version.
func (l *Ledger) Invalidate(ctx context.Context, groupID string) {
	if err := l.cache.Delete(ctx, groupID); err != nil {
		l.logger.WarnContext(ctx, "Summary cache delete failed", "group_id", groupID, "error", err)
	}
}

func (l *Ledger) cached(ctx context.Context, groupID string, version int64) (*calculator.Summary, bool) {
	data, err := l.cache.Get(ctx, groupID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, false
	}
	if err != nil {
		l.logger.WarnContext(ctx, "Summary cache read failed", "group_id", groupID, "error", err)
		return nil, false
	}

	var entry cachedSummary
	if err := json.Unmarshal(data, &entry); err != nil {
		l.logger.WarnContext(ctx, "Discarding unreadable cached summary", "group_id", groupID, "error", err)
		return nil, false
	}
	if entry.Version != version {
		l.logger.DebugContext(ctx, "Discarding outdated cached summary",
			"group_id", groupID, "cached_version", entry.Version, "version", version)
		return nil, false
	}

	summary := entry.Summary
	if summary.Balances == nil {
		summary.Balances = calculator.NewBalances()
	}
	if summary.Settlements == nil {
		summary.Settlements = []calculator.Settlement{}
	}
	return &summary, true
}

func (l *Ledger) remember(ctx context.Context, groupID string, version int64, summary *calculator.Summary) {
	data, err := json.Marshal(cachedSummary{Version: version, Summary: *summary})
	if err != nil {
		l.logger.WarnContext(ctx, "Summary encode failed", "group_id", groupID, "error", err)
		return
	}
	if err := l.cache.Set(ctx, groupID, data); err != nil {
		l.logger.WarnContext(ctx, "Summary cache write failed", "group_id", groupID, "error", err)
	}
}

// ExpenseRecords converts stored expenses into engine input, keeping order.
func ExpenseRecords(expenses []*models.Expense) []calculator.ExpenseRecord {
	records := make([]calculator.ExpenseRecord, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, split := range e.Splits {
			shares[j] = calculator.Share{Name: split.Name, Amount: split.Amount}
		}
		records[i] = calculator.ExpenseRecord{PaidBy: e.PaidBy, TotalAmount: e.TotalAmount, Splits: shares}
	}
	return records
}

package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/payshare/backend/internal/calculator"
	"github.com/payshare/backend/internal/middleware"
	"github.com/payshare/backend/internal/models"
	"github.com/payshare/backend/internal/rpc"
	"github.com/payshare/backend/internal/storage"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ExpenseService implements rpc.ExpenseServiceHandler.
type ExpenseService struct {
	store  storage.Store
	ledger *Ledger
	logger *slog.Logger
}

var _ rpc.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, ledger *Ledger, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, ledger: ledger, logger: logger}
}

func toRPCExpense(e *models.Expense) *rpc.Expense {
	splits := make([]rpc.Split, len(e.Splits))
	for i, split := range e.Splits {
		splits[i] = rpc.Split{Name: split.Name, Amount: rpc.NewAmount(split.Amount)}
	}
	return &rpc.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Title:       e.Title,
		PaidBy:      e.PaidBy,
		TotalAmount: rpc.NewAmount(e.TotalAmount),
		Splits:      splits,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// CreateExpense records an expense and drops the group's cached summary.
// Anonymous callers may record expenses; CreatedBy is set when a token is present.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	msg := req.Msg
	s.logger.InfoContext(ctx, "CreateExpense request received",
		"group_id", msg.GroupID,
		"paid_by", msg.PaidBy,
		"splits_count", len(msg.Splits),
	)

	if err := validateExpense(msg); err != nil {
		s.logger.WarnContext(ctx, "CreateExpense validation failed", "group_id", msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	splits := make([]models.Split, len(msg.Splits))
	for i, split := range msg.Splits {
		splits[i] = models.Split{Name: split.Name, Amount: split.Amount.Decimal}
	}
	expense := &models.Expense{
		GroupID:     msg.GroupID,
		Title:       msg.Title,
		TotalAmount: msg.TotalAmount.Decimal,
		PaidBy:      msg.PaidBy,
		Splits:      splits,
		CreatedBy:   middleware.GetUserID(ctx),
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.ErrorContext(ctx, "CreateExpense failed", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, expense.GroupID)

	s.logger.InfoContext(ctx, "Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&rpc.CreateExpenseResponse{Expense: toRPCExpense(expense)}), nil
}

// SplitEqually divides a total into equal whole-cent shares.
func (s *ExpenseService) SplitEqually(ctx context.Context, req *connect.Request[rpc.SplitEquallyRequest]) (*connect.Response[rpc.SplitEquallyResponse], error) {
	shares, err := calculator.SplitEqually(req.Msg.TotalAmount.Decimal, req.Msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	splits := make([]rpc.Split, len(shares))
	for i, share := range shares {
		splits[i] = rpc.Split{Name: share.Name, Amount: rpc.NewAmount(share.Amount)}
	}

	return connect.NewResponse(&rpc.SplitEquallyResponse{Splits: splits}), nil
}

// ListRecentActivity returns the newest expenses across all groups.
func (s *ExpenseService) ListRecentActivity(ctx context.Context, req *connect.Request[rpc.ListRecentActivityRequest]) (*connect.Response[rpc.ListRecentActivityResponse], error) {
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	activity, err := s.store.ListRecentActivity(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListRecentActivity failed", "error", err)
		return nil, toConnectError(err)
	}

	items := make([]*rpc.ActivityItem, len(activity))
	for i, a := range activity {
		items[i] = &rpc.ActivityItem{
			ExpenseID: a.ExpenseID,
			GroupID:   a.GroupID,
			GroupName: a.GroupName,
			Title:     a.Title,
			Amount:    rpc.NewAmount(a.Amount),
			PaidBy:    a.PaidBy,
			CreatedAt: a.CreatedAt,
		}
	}

	return connect.NewResponse(&rpc.ListRecentActivityResponse{Items: items}), nil
}

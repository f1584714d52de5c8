package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/payshare/backend/internal/calculator"
	"github.com/payshare/backend/internal/models"
	"github.com/payshare/backend/internal/rpc"
	"github.com/payshare/backend/internal/storage"
)

var errMissingName = errors.New("name is required")

// GroupService implements rpc.GroupServiceHandler.
type GroupService struct {
	store  storage.Store
	ledger *Ledger
	logger *slog.Logger
}

var _ rpc.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store, ledger *Ledger, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, ledger: ledger, logger: logger}
}

func toRPCGroup(group *models.Group, score int) *rpc.Group {
	return &rpc.Group{
		ID:            group.ID,
		Name:          group.Name,
		CreatedAt:     group.CreatedAt,
		FairnessScore: score,
	}
}

// CreateGroup creates a new, empty group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	s.logger.InfoContext(ctx, "CreateGroup request received", "name", name)

	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingName)
	}

	group := &models.Group{Name: name}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.ErrorContext(ctx, "CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Group created", "group_id", group.ID)

	return connect.NewResponse(&rpc.CreateGroupResponse{
		Group: toRPCGroup(group, calculator.PerfectScore),
	}), nil
}

// ListGroups returns every group, newest first, with its fairness score.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*rpc.Group, len(groups))
	for i, group := range groups {
		score, err := s.ledger.Score(ctx, group.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "ListGroups score failed", "group_id", group.ID, "error", err)
			return nil, toConnectError(err)
		}
		out[i] = toRPCGroup(group, score)
	}

	s.logger.InfoContext(ctx, "ListGroups successful", "count", len(out))

	return connect.NewResponse(&rpc.ListGroupsResponse{Groups: out}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.WarnContext(ctx, "GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	score, err := s.ledger.Score(ctx, group.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "GetGroup score failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetGroupResponse{
		Group: toRPCGroup(group, score),
	}), nil
}

// ListGroupExpenses returns the group's expenses, newest first.
func (s *GroupService) ListGroupExpenses(ctx context.Context, req *connect.Request[rpc.ListGroupExpensesRequest]) (*connect.Response[rpc.ListGroupExpensesResponse], error) {
	groupID := req.Msg.GroupID
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		s.logger.WarnContext(ctx, "ListGroupExpenses failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListGroupExpenses failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*rpc.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toRPCExpense(e)
	}
	slices.Reverse(out)

	s.logger.InfoContext(ctx, "ListGroupExpenses successful", "group_id", groupID, "count", len(out))

	return connect.NewResponse(&rpc.ListGroupExpensesResponse{Expenses: out}), nil
}

// GetGroupFairness returns the group's fairness score and balances.
func (s *GroupService) GetGroupFairness(ctx context.Context, req *connect.Request[rpc.GetGroupFairnessRequest]) (*connect.Response[rpc.GetGroupFairnessResponse], error) {
	summary, err := s.ledger.Summary(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.WarnContext(ctx, "GetGroupFairness failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetGroupFairnessResponse{
		Score:    summary.Score,
		Balances: summary.Balances,
	}), nil
}

// GetGroupSettlements recomputes the group's plan and returns the stored snapshot.
func (s *GroupService) GetGroupSettlements(ctx context.Context, req *connect.Request[rpc.GetGroupSettlementsRequest]) (*connect.Response[rpc.GetGroupSettlementsResponse], error) {
	settlements, err := s.ledger.Settlements(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.WarnContext(ctx, "GetGroupSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*rpc.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = &rpc.Settlement{
			ID:        st.ID,
			From:      st.From,
			To:        st.To,
			Amount:    st.Amount,
			CreatedAt: st.CreatedAt,
		}
	}

	return connect.NewResponse(&rpc.GetGroupSettlementsResponse{Settlements: out}), nil
}

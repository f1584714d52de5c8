package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/payshare/backend/internal/calculator"
	"github.com/payshare/backend/internal/money"
)

// Amount is a decimal that travels as a bare JSON number. Quoted strings
// are accepted on input too.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MustAmount parses s and panics on malformed input. Meant for tests and literals.
func MustAmount(s string) Amount {
	return Amount{Decimal: decimal.RequireFromString(s)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

type Group struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CreatedAt     int64  `json:"created_at"`
	FairnessScore int    `json:"fairness_score"`
}

type Split struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	Title       string  `json:"title"`
	PaidBy      string  `json:"paid_by"`
	TotalAmount Amount  `json:"total_amount"`
	Splits      []Split `json:"splits"`
	CreatedBy   string  `json:"created_by,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

// Settlement is one persisted transfer of a group's current plan.
type Settlement struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Amount    money.Cents `json:"amount"`
	CreatedAt int64       `json:"created_at"`
}

type ActivityItem struct {
	ExpenseID string `json:"expense_id"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	Title     string `json:"title"`
	Amount    Amount `json:"amount"`
	PaidBy    string `json:"paid_by"`
	CreatedAt int64  `json:"created_at"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetGroupFairnessRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupFairnessResponse struct {
	Score    int                  `json:"score"`
	Balances *calculator.Balances `json:"balances"`
}

type GetGroupSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type CreateExpenseRequest struct {
	GroupID     string  `json:"group_id"`
	Title       string  `json:"title"`
	PaidBy      string  `json:"paid_by"`
	TotalAmount Amount  `json:"total_amount"`
	Splits      []Split `json:"splits"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type SplitEquallyRequest struct {
	TotalAmount  Amount   `json:"total_amount"`
	Participants []string `json:"participants"`
}

type SplitEquallyResponse struct {
	Splits []Split `json:"splits"`
}

// ListRecentActivityRequest asks for the newest expenses across all groups.
// A zero limit means the server default.
type ListRecentActivityRequest struct {
	Limit int `json:"limit"`
}

type ListRecentActivityResponse struct {
	Items []*ActivityItem `json:"items"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

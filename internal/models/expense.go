package models

import "github.com/shopspring/decimal"

// Expense is a payment made by one participant on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is a short description (e.g., "Dinner", "Taxi").
	Title string

	// TotalAmount is what the payer actually paid.
	TotalAmount decimal.Decimal

	// PaidBy is the participant name of the payer.
	PaidBy string

	// Splits are the shares owed by each participant, in entry order.
	Splits []Split

	// CreatedBy is the user ID that recorded the expense, if authenticated.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Seq is the store-wide insertion sequence, assigned on create.
	Seq int64
}

// Split is one participant's share of an expense.
type Split struct {
	Name   string
	Amount decimal.Decimal
}

// Activity is an expense as shown in the recent activity feed.
type Activity struct {
	ExpenseID string
	GroupID   string
	GroupName string
	Title     string
	Amount    decimal.Decimal
	PaidBy    string
	CreatedAt int64
}

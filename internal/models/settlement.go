package models

import "github.com/payshare/backend/internal/money"

// Settlement is one row of a group's settlement snapshot: the payment plan
// computed the last time the group's balances were queried. The snapshot is
// replaced as a whole on every computation.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// From is the participant who owes money.
	From string

	// To is the participant who is owed money.
	To string

	// Amount is the payment amount.
	Amount money.Cents

	// CreatedAt is the Unix timestamp of the computation that produced it.
	CreatedAt int64
}

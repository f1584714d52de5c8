package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/payshare/backend/internal/money"
)

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrEmptyName      = errors.New("participant name cannot be empty")
	ErrNegativeTotal  = errors.New("total cannot be negative")
)

// SplitEqually divides total among participants in whole cents.
// The total is first rounded to cents; leftover cents go one each to the
// first participants, so the shares always add up to the rounded total.
func SplitEqually(total decimal.Decimal, participants []string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}
	if err := money.CheckRange(total); err != nil {
		return nil, err
	}
	for _, p := range participants {
		if p == "" {
			return nil, ErrEmptyName
		}
	}

	cents := money.FromDecimal(total)
	n := money.Cents(len(participants))
	base, remainder := cents/n, cents%n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if money.Cents(i) < remainder {
			amount++
		}
		shares[i] = Share{Name: p, Amount: amount.Decimal()}
	}
	return shares, nil
}

// SharesTotal returns the exact sum of share amounts.
func SharesTotal(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}

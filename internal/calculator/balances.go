package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/payshare/backend/internal/money"
)

// Share is one participant's portion of an expense.
type Share struct {
	Name   string          `json:"name" yaml:"name"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// ExpenseRecord is the minimal view of an expense needed for balance calculations.
// Splits are expected to sum to TotalAmount, but nothing here relies on it.
type ExpenseRecord struct {
	PaidBy      string          `json:"paid_by" yaml:"paid_by"`
	TotalAmount decimal.Decimal `json:"total_amount" yaml:"total_amount"`
	Splits      []Share         `json:"splits" yaml:"splits"`
}

// CalculateBalances reduces expenses to one net balance per participant.
//
// Algorithm:
//   - For each expense: paid[payer] += total
//   - For each split: owed[name] += amount
//   - balance = round(paid - owed, 2), half to even
//
// Sums are exact; only the final balance is rounded. Participants are ordered
// by first appearance, scanning each expense's payer before its splits.
func CalculateBalances(expenses []ExpenseRecord) *Balances {
	paid := make(map[string]decimal.Decimal)
	owed := make(map[string]decimal.Decimal)

	var order []string
	seen := make(map[string]struct{})
	track := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			order = append(order, name)
		}
	}

	for _, expense := range expenses {
		track(expense.PaidBy)
		paid[expense.PaidBy] = paid[expense.PaidBy].Add(expense.TotalAmount)

		for _, split := range expense.Splits {
			track(split.Name)
			owed[split.Name] = owed[split.Name].Add(split.Amount)
		}
	}

	balances := NewBalances()
	for _, name := range order {
		balances.Set(name, money.FromDecimal(paid[name].Sub(owed[name])))
	}
	return balances
}

// Summary bundles everything a group query reports for one expense set.
type Summary struct {
	Balances    *Balances    `json:"balances"`
	Score       int          `json:"score"`
	Settlements []Settlement `json:"settlements"`
}

// Summarize runs the balance calculator, fairness scorer and settlement planner.
func Summarize(expenses []ExpenseRecord) Summary {
	balances := CalculateBalances(expenses)
	return Summary{
		Balances:    balances,
		Score:       FairnessScore(balances),
		Settlements: CalculateSettlements(balances),
	}
}

package calculator

import "github.com/payshare/backend/internal/money"

// Settlement is a single payment instruction: From pays To exactly Amount.
type Settlement struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount money.Cents `json:"amount"`
}

type position struct {
	name      string
	remaining money.Cents
}

// CalculateSettlements turns balances into a short list of payments that
// clears them, pairing debtors with creditors greedily.
//
// Creditors and debtors keep the order of balances; participants with an
// exactly zero balance are skipped. Each step settles min(debt, credit) and
// moves past whichever side reached zero (possibly both). At most
// creditors+debtors-1 payments are produced. If balances do not sum to zero
// the unmatched remainder is dropped.
func CalculateSettlements(balances *Balances) []Settlement {
	var creditors, debtors []position
	for name, amount := range balances.All() {
		switch {
		case amount > 0:
			creditors = append(creditors, position{name: name, remaining: amount})
		case amount < 0:
			debtors = append(debtors, position{name: name, remaining: -amount})
		}
	}

	settlements := make([]Settlement, 0, max(len(creditors)+len(debtors)-1, 0))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := money.Min(debtor.remaining, creditor.remaining)
		settlements = append(settlements, Settlement{
			From:   debtor.name,
			To:     creditor.name,
			Amount: amount,
		})

		debtor.remaining -= amount
		creditor.remaining -= amount

		if debtor.remaining == 0 {
			i++
		}
		if creditor.remaining == 0 {
			j++
		}
	}

	return settlements
}

// ApplySettlements replays settlements as payments against balances: the
// payer's balance rises and the receiver's falls. Replaying the output of
// CalculateSettlements on its own input yields all zeros.
func ApplySettlements(balances *Balances, settlements []Settlement) *Balances {
	out := NewBalances(balances.Entries()...)
	for _, s := range settlements {
		from, _ := out.Get(s.From)
		out.Set(s.From, from+s.Amount)
		to, _ := out.Get(s.To)
		out.Set(s.To, to-s.Amount)
	}
	return out
}

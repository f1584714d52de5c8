package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/payshare/backend/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(payer, total string, shares ...Share) ExpenseRecord {
	return ExpenseRecord{PaidBy: payer, TotalAmount: dec(total), Splits: shares}
}

func share(name, amount string) Share {
	return Share{Name: name, Amount: dec(amount)}
}

func assertBalances(t *testing.T, got *Balances, want ...Entry) {
	t.Helper()
	if got.Len() != len(want) {
		t.Fatalf("got %d balances %v, want %d %v", got.Len(), got.Entries(), len(want), want)
	}
	for i, e := range got.Entries() {
		if e != want[i] {
			t.Errorf("balance %d = %s:%s, want %s:%s", i, e.Name, e.Amount, want[i].Name, want[i].Amount)
		}
	}
}

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name     string
		expenses []ExpenseRecord
		want     []Entry
	}{
		{
			name:     "no expenses",
			expenses: nil,
			want:     nil,
		},
		{
			name: "payer covers a two-way split",
			expenses: []ExpenseRecord{
				expense("You", "100", share("You", "50"), share("Alex", "50")),
			},
			want: []Entry{{"You", 5000}, {"Alex", -5000}},
		},
		{
			name: "payer outside the split",
			expenses: []ExpenseRecord{
				expense("Sam", "30", share("Alex", "10"), share("You", "20")),
			},
			want: []Entry{{"Sam", 3000}, {"Alex", -1000}, {"You", -2000}},
		},
		{
			name: "several expenses net out",
			expenses: []ExpenseRecord{
				expense("You", "90", share("You", "30"), share("Alex", "30"), share("Sam", "30")),
				expense("Alex", "60", share("You", "20"), share("Alex", "20"), share("Sam", "20")),
			},
			want: []Entry{{"You", 4000}, {"Alex", 1000}, {"Sam", -5000}},
		},
		{
			name: "participant who paid exactly their share keeps a zero entry",
			expenses: []ExpenseRecord{
				expense("A", "20", share("A", "10"), share("B", "10")),
				expense("B", "20", share("A", "10"), share("B", "10")),
			},
			want: []Entry{{"A", 0}, {"B", 0}},
		},
		{
			name: "sub-cent shares are summed before rounding",
			expenses: []ExpenseRecord{
				expense("A", "100", share("A", "33.333"), share("B", "33.333"), share("C", "33.334")),
			},
			want: []Entry{{"A", 6667}, {"B", -3333}, {"C", -3333}},
		},
		{
			name: "ties round half to even",
			expenses: []ExpenseRecord{
				expense("A", "0.125", share("B", "0.125")),
				expense("C", "0.135", share("D", "0.135")),
			},
			want: []Entry{{"A", 12}, {"B", -12}, {"C", 14}, {"D", -14}},
		},
		{
			name: "negative amounts propagate",
			expenses: []ExpenseRecord{
				expense("A", "-20", share("A", "-10"), share("B", "-10")),
			},
			want: []Entry{{"A", -1000}, {"B", 1000}},
		},
		{
			name: "names are case and whitespace sensitive",
			expenses: []ExpenseRecord{
				expense("alex", "10", share("Alex", "5"), share("Alex ", "5")),
			},
			want: []Entry{{"alex", 1000}, {"Alex", -500}, {"Alex ", -500}},
		},
		{
			name: "splits that do not match the total are not corrected",
			expenses: []ExpenseRecord{
				expense("A", "100", share("B", "40")),
			},
			want: []Entry{{"A", 10000}, {"B", -4000}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBalances(t, CalculateBalances(tt.expenses), tt.want...)
		})
	}
}

func TestCalculateBalances_OrderFollowsFirstAppearance(t *testing.T) {
	got := CalculateBalances([]ExpenseRecord{
		expense("Sam", "30", share("Alex", "15"), share("Sam", "15")),
		expense("You", "10", share("You", "5"), share("Alex", "5")),
	})

	want := []string{"Sam", "Alex", "You"}
	names := got.Names()
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestCalculateBalances_SumsToZero(t *testing.T) {
	expenses := []ExpenseRecord{
		expense("A", "47.10", share("A", "15.70"), share("B", "15.70"), share("C", "15.70")),
		expense("B", "10", share("A", "3.333"), share("B", "3.333"), share("C", "3.334")),
		expense("C", "99.99", share("A", "33.33"), share("B", "33.33"), share("D", "33.33")),
		expense("D", "5", share("C", "5")),
	}

	sum := CalculateBalances(expenses).Sum()
	if limit := money.Cents(len(expenses)); sum > limit || sum < -limit {
		t.Errorf("balances sum to %s, want ~0", sum)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]ExpenseRecord{
		expense("You", "100", share("You", "50"), share("Alex", "50")),
	})

	assertBalances(t, got.Balances, Entry{"You", 5000}, Entry{"Alex", -5000})
	if got.Score != 0 {
		t.Errorf("score = %d, want 0", got.Score)
	}
	if len(got.Settlements) != 1 || got.Settlements[0] != (Settlement{From: "Alex", To: "You", Amount: 5000}) {
		t.Errorf("settlements = %v", got.Settlements)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)

	if got.Balances.Len() != 0 {
		t.Errorf("expected empty balances, got %v", got.Balances.Entries())
	}
	if got.Score != PerfectScore {
		t.Errorf("score = %d, want %d", got.Score, PerfectScore)
	}
	if got.Settlements == nil || len(got.Settlements) != 0 {
		t.Errorf("settlements = %#v, want empty non-nil slice", got.Settlements)
	}
}

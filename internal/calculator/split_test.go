package calculator

import (
	"errors"
	"testing"

	"github.com/payshare/backend/internal/money"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants []string
		wantErr      error
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name:         "even two-person split",
			total:        "100",
			participants: []string{"You", "Alex"},
			validateFunc: func(t *testing.T, shares []Share) {
				for _, s := range shares {
					if !s.Amount.Equal(dec("50")) {
						t.Errorf("%s share = %s, want 50", s.Name, s.Amount)
					}
				}
			},
		},
		{
			name:         "leftover cents go to the first participants",
			total:        "100",
			participants: []string{"Alice", "Bob", "Charlie"},
			validateFunc: func(t *testing.T, shares []Share) {
				// 100.00 / 3 = 33.33 remainder 0.01
				want := []string{"33.34", "33.33", "33.33"}
				for i, s := range shares {
					if !s.Amount.Equal(dec(want[i])) {
						t.Errorf("%s share = %s, want %s", s.Name, s.Amount, want[i])
					}
				}
			},
		},
		{
			name:         "total is rounded to cents first",
			total:        "10.005",
			participants: []string{"A", "B"},
			validateFunc: func(t *testing.T, shares []Share) {
				// 10.005 rounds half to even to 10.00
				if got := SharesTotal(shares); !got.Equal(dec("10")) {
					t.Errorf("shares total = %s, want 10", got)
				}
			},
		},
		{
			name:         "shares keep participant order",
			total:        "0.05",
			participants: []string{"Zed", "Amy", "Bo"},
			validateFunc: func(t *testing.T, shares []Share) {
				want := []Share{share("Zed", "0.02"), share("Amy", "0.02"), share("Bo", "0.01")}
				for i := range want {
					if shares[i].Name != want[i].Name || !shares[i].Amount.Equal(want[i].Amount) {
						t.Errorf("share %d = %v, want %v", i, shares[i], want[i])
					}
				}
			},
		},
		{
			name:         "zero total",
			total:        "0",
			participants: []string{"A"},
			validateFunc: func(t *testing.T, shares []Share) {
				if !shares[0].Amount.IsZero() {
					t.Errorf("share = %s, want 0", shares[0].Amount)
				}
			},
		},
		{
			name:         "no participants should error",
			total:        "10",
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "empty name should error",
			total:        "10",
			participants: []string{"A", ""},
			wantErr:      ErrEmptyName,
		},
		{
			name:         "negative total should error",
			total:        "-1",
			participants: []string{"A"},
			wantErr:      ErrNegativeTotal,
		},
		{
			name:         "total beyond int64 cents should error",
			total:        "100000000000000000000",
			participants: []string{"A", "B"},
			wantErr:      money.ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitEqually(dec(tt.total), tt.participants)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SplitEqually() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if len(shares) != len(tt.participants) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.participants))
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestSplitEqually_FeedsBalances(t *testing.T) {
	shares, err := SplitEqually(dec("90"), []string{"You", "Alex", "Sam"})
	if err != nil {
		t.Fatalf("SplitEqually() error = %v", err)
	}

	got := CalculateBalances([]ExpenseRecord{{PaidBy: "You", TotalAmount: dec("90"), Splits: shares}})
	assertBalances(t, got, Entry{"You", 6000}, Entry{"Alex", -3000}, Entry{"Sam", -3000})
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/payshare/backend/internal/calculator"
	"github.com/payshare/backend/internal/money"
	"github.com/payshare/backend/internal/rpc"
)

var (
	errMissingGroupID = errors.New("group_id is required")
	errMissingTitle   = errors.New("title is required")
	errMissingPayer   = errors.New("paid_by is required")
	errNoSplits       = errors.New("at least one split is required")
)

// validateExpense rejects expenses the ledger should never store. Split
// totals are compared in whole cents, so 33.333 x 3 against 100 is allowed
// only after both sides round to the same cent.
func validateExpense(req *rpc.CreateExpenseRequest) error {
	if strings.TrimSpace(req.GroupID) == "" {
		return errMissingGroupID
	}
	if strings.TrimSpace(req.Title) == "" {
		return errMissingTitle
	}
	if strings.TrimSpace(req.PaidBy) == "" {
		return errMissingPayer
	}
	if req.TotalAmount.IsNegative() {
		return fmt.Errorf("total_amount must not be negative, got %s", req.TotalAmount)
	}
	if err := money.CheckRange(req.TotalAmount.Decimal); err != nil {
		return fmt.Errorf("total_amount: %w", err)
	}
	if len(req.Splits) == 0 {
		return errNoSplits
	}

	shares := make([]calculator.Share, len(req.Splits))
	for i, split := range req.Splits {
		if strings.TrimSpace(split.Name) == "" {
			return fmt.Errorf("split %d: name is required", i)
		}
		if split.Amount.IsNegative() {
			return fmt.Errorf("split %d (%s): amount must not be negative, got %s", i, split.Name, split.Amount)
		}
		if err := money.CheckRange(split.Amount.Decimal); err != nil {
			return fmt.Errorf("split %d (%s): %w", i, split.Name, err)
		}
		shares[i] = calculator.Share{Name: split.Name, Amount: split.Amount.Decimal}
	}

	sum := calculator.SharesTotal(shares)
	if total, splits := money.FromDecimal(req.TotalAmount.Decimal), money.FromDecimal(sum); total != splits {
		return fmt.Errorf("splits add up to %s but total_amount is %s", splits, total)
	}
	return nil
}

// internal/split/split.go
package split

import (
	"fmt"

	"expense-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// Absorbs accumulation error in client-side percentage math.
	percentageTolerance = decimal.RequireFromString("0.01")
)

// Entry is one participant line of a proposed split, as sent by the client.
type Entry struct {
	UserID     int64
	Amount     *decimal.Decimal
	Percentage *decimal.Decimal
}

// Share is what one participant owes for an expense.
type Share struct {
	UserID     int64
	Amount     decimal.Decimal
	Percentage *decimal.Decimal
}

// ValidPercentages reports whether the entry percentages add up to 100
// within the tolerance. Entries without a percentage count as zero, so an
// empty list never validates.
func ValidPercentages(entries []Entry) bool {
	total := decimal.Zero
	for _, e := range entries {
		if e.Percentage != nil {
			total = total.Add(*e.Percentage)
		}
	}
	return total.Sub(hundred).Abs().LessThan(percentageTolerance)
}

// Calculate derives one Share per entry, in entry order.
//
//   - exact: the entry amount is taken verbatim; the sum is not checked
//     against the total.
//   - percentage: total * percentage / 100, percentage kept on the share.
//   - equal: total / len(entries) for everyone.
func Calculate(total decimal.Decimal, method domain.SplitMethod, entries []Entry) ([]Share, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	shares := make([]Share, 0, len(entries))

	switch method {
	case domain.SplitExact:
		for i, e := range entries {
			if e.Amount == nil {
				return nil, fmt.Errorf("%w: splits[%d].amount is required for exact split", domain.ErrInvalidInput, i)
			}
			shares = append(shares, Share{UserID: e.UserID, Amount: *e.Amount})
		}

	case domain.SplitPercentage:
		for i, e := range entries {
			if e.Percentage == nil {
				return nil, fmt.Errorf("%w: splits[%d].percentage is required for percentage split", domain.ErrInvalidInput, i)
			}
			pct := *e.Percentage
			shares = append(shares, Share{
				UserID:     e.UserID,
				Amount:     total.Mul(pct).Div(hundred),
				Percentage: &pct,
			})
		}

	case domain.SplitEqual:
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: equal split needs at least one participant", domain.ErrInvalidInput)
		}
		each := total.Div(decimal.NewFromInt(int64(len(entries))))
		for _, e := range entries {
			shares = append(shares, Share{UserID: e.UserID, Amount: each})
		}

	default:
		return nil, fmt.Errorf("%w: invalid split method %q", domain.ErrInvalidInput, method)
	}

	return shares, nil
}

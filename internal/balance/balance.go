// internal/balance/balance.go
package balance

import (
	"fmt"
	"sort"

	"expense-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// Sheet maps a user name to a net balance. Positive means others owe the
// user money, negative means the user owes.
type Sheet map[string]decimal.Decimal

type Row struct {
	User    string
	Balance decimal.Decimal
}

// Rows returns the sheet ordered by user name.
func (s Sheet) Rows() []Row {
	rows := make([]Row, 0, len(s))
	for name, bal := range s {
		rows = append(rows, Row{User: name, Balance: bal})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].User < rows[j].User })
	return rows
}

// Aggregate credits each payer with the full expense amount and debits every
// split user with their share. All users start at zero. Expenses must carry
// their splits. A payer or split user missing from users is an integrity
// violation and fails the whole call.
func Aggregate(users []domain.User, expenses []domain.Expense) (Sheet, error) {
	names := make(map[int64]string, len(users))
	sheet := make(Sheet, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
		sheet[u.Name] = decimal.Zero
	}

	for _, e := range expenses {
		payer, ok := names[e.PayerID]
		if !ok {
			return nil, fmt.Errorf("%w: expense %d references unknown payer %d", domain.ErrIntegrity, e.ID, e.PayerID)
		}
		sheet[payer] = sheet[payer].Add(e.Amount)

		for _, s := range e.Splits {
			owed, ok := names[s.UserID]
			if !ok {
				return nil, fmt.Errorf("%w: split %d of expense %d references unknown user %d", domain.ErrIntegrity, s.ID, e.ID, s.UserID)
			}
			sheet[owed] = sheet[owed].Sub(s.Amount)
		}
	}

	return sheet, nil
}

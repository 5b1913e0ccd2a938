// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SplitMethod string

const (
	SplitExact      SplitMethod = "exact"
	SplitPercentage SplitMethod = "percentage"
	SplitEqual      SplitMethod = "equal"
)

// SplitMethods lists every accepted split method.
var SplitMethods = []SplitMethod{SplitExact, SplitPercentage, SplitEqual}

func (m SplitMethod) Valid() bool {
	for _, sm := range SplitMethods {
		if m == sm {
			return true
		}
	}
	return false
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Expense is owned by its payer; Splits are destroyed together with it.
type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     int64           `json:"payer_id"`
	PayerName   string          `json:"payer,omitempty"`
	SplitMethod SplitMethod     `json:"split_method"`
	Date        time.Time       `json:"date"`
	Splits      []ExpenseSplit  `json:"splits,omitempty"`
}

// ExpenseSplit is the share of an expense owed by one user.
// Percentage is set only for percentage-method expenses.
type ExpenseSplit struct {
	ID         int64            `json:"id"`
	ExpenseID  int64            `json:"expense_id"`
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// internal/storage/storage.go
package storage

import (
	"context"

	"expense-ledger/internal/domain"
)

// UserStorage lookups return domain.ErrNotFound for missing rows.
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type ExpenseStorage interface {
	// CreateExpense writes the expense and all of its splits in one
	// transaction and fills in the generated ids and date.
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	// ListExpenses returns every expense with payer name and splits loaded.
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	ListExpensesByPayer(ctx context.Context, payerID int64) ([]domain.Expense, error)
}

type Store interface {
	UserStorage
	ExpenseStorage
	// Migrate applies pending schema versions.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

// GroupSplits attaches splits to their expenses by expense id.
func GroupSplits(expenses []domain.Expense, splits []domain.ExpenseSplit) {
	byExpense := make(map[int64][]domain.ExpenseSplit, len(expenses))
	for _, s := range splits {
		byExpense[s.ExpenseID] = append(byExpense[s.ExpenseID], s)
	}
	for i := range expenses {
		expenses[i].Splits = byExpense[expenses[i].ID]
	}
}

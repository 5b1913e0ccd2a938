// internal/service/ledger.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"expense-ledger/internal/balance"
	"expense-ledger/internal/domain"
	"expense-ledger/internal/metrics"
	"expense-ledger/internal/split"
	"expense-ledger/internal/storage"

	"github.com/shopspring/decimal"
)

type LedgerStorage interface {
	storage.UserStorage
	storage.ExpenseStorage
}

type Ledger struct {
	store LedgerStorage
}

func NewLedger(store LedgerStorage) *Ledger {
	return &Ledger{store: store}
}

// NewExpense is a validated expense creation request.
type NewExpense struct {
	Description string
	Amount      decimal.Decimal
	PayerID     int64
	SplitMethod domain.SplitMethod
	Splits      []split.Entry
}

func (l *Ledger) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	_, err := l.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	// The unique index still catches a concurrent insert of the same email.
	user := &domain.User{Name: name, Email: email}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersCreated.Inc()
	slog.InfoContext(ctx, "User created", "user_id", user.ID)
	return user, nil
}

func (l *Ledger) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := l.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}

func (l *Ledger) ListUsers(ctx context.Context) ([]domain.User, error) {
	return l.store.ListUsers(ctx)
}

// CreateExpense checks the whole request before writing anything, then
// stores the expense and its splits atomically.
func (l *Ledger) CreateExpense(ctx context.Context, in NewExpense) (*domain.Expense, error) {
	if !in.SplitMethod.Valid() {
		metrics.ExpensesRejected.WithLabelValues("split_method").Inc()
		return nil, fmt.Errorf("%w: invalid split method", domain.ErrInvalidInput)
	}

	if _, err := l.store.GetUserByID(ctx, in.PayerID); err != nil {
		metrics.ExpensesRejected.WithLabelValues("payer").Inc()
		return nil, fmt.Errorf("payer %d: %w", in.PayerID, err)
	}

	if in.SplitMethod == domain.SplitPercentage && !split.ValidPercentages(in.Splits) {
		metrics.ExpensesRejected.WithLabelValues("percentage_sum").Inc()
		return nil, fmt.Errorf("%w: percentage splits must add up to 100%%", domain.ErrInvalidInput)
	}

	shares, err := split.Calculate(in.Amount, in.SplitMethod, in.Splits)
	if err != nil {
		metrics.ExpensesRejected.WithLabelValues("calculation").Inc()
		return nil, err
	}

	if err := l.requireUsers(ctx, shares); err != nil {
		metrics.ExpensesRejected.WithLabelValues("split_user").Inc()
		return nil, err
	}

	expense := &domain.Expense{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		PayerID:     in.PayerID,
		SplitMethod: in.SplitMethod,
		Splits:      make([]domain.ExpenseSplit, len(shares)),
	}
	for i, sh := range shares {
		expense.Splits[i] = domain.ExpenseSplit{
			UserID:     sh.UserID,
			Amount:     sh.Amount,
			Percentage: sh.Percentage,
		}
	}

	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	metrics.ExpensesCreated.WithLabelValues(string(expense.SplitMethod)).Inc()
	slog.InfoContext(ctx, "Expense created",
		"expense_id", expense.ID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount.String(),
		"split_method", expense.SplitMethod,
		"splits", len(expense.Splits),
	)
	return expense, nil
}

func (l *Ledger) requireUsers(ctx context.Context, shares []split.Share) error {
	seen := make(map[int64]bool, len(shares))
	for _, sh := range shares {
		if seen[sh.UserID] {
			continue
		}
		if _, err := l.store.GetUserByID(ctx, sh.UserID); err != nil {
			return fmt.Errorf("split user %d: %w", sh.UserID, err)
		}
		seen[sh.UserID] = true
	}
	return nil
}

func (l *Ledger) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return l.store.ListExpenses(ctx)
}

// ListUserExpenses returns the expenses the user paid for.
func (l *Ledger) ListUserExpenses(ctx context.Context, userID int64) ([]domain.Expense, error) {
	if _, err := l.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return l.store.ListExpensesByPayer(ctx, userID)
}

// BalanceSheet derives every user's net balance from the stored records.
func (l *Ledger) BalanceSheet(ctx context.Context) (balance.Sheet, error) {
	users, err := l.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return balance.Aggregate(users, expenses)
}

// internal/storage/sqlite/expenses.go
package sqlite

import (
	"context"
	"fmt"
	"time"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/storage"

	"github.com/shopspring/decimal"
)

const selectExpenses = `
	SELECT e.id, e.description, e.amount, e.payer_id, u.name, e.split_method, e.date
	FROM expenses e
	JOIN users u ON u.id = e.payer_id
`

func (s *Storage) CreateExpense(ctx context.Context, e *domain.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	e.Date = time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (description, amount, payer_id, split_method, date)
		VALUES (?, ?, ?, ?, ?)
	`, e.Description, e.Amount.String(), e.PayerID, string(e.SplitMethod), e.Date.Unix())
	if err != nil {
		return fmt.Errorf("insert expense: %w", translateError(err))
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("get expense id: %w", err)
	}

	for i := range e.Splits {
		sp := &e.Splits[i]
		sp.ExpenseID = e.ID

		var pct any
		if sp.Percentage != nil {
			pct = sp.Percentage.String()
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO expense_splits (expense_id, user_id, amount, percentage)
			VALUES (?, ?, ?, ?)
		`, e.ID, sp.UserID, sp.Amount.String(), pct)
		if err != nil {
			return fmt.Errorf("insert split for user %d: %w", sp.UserID, translateError(err))
		}
		if sp.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("get split id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Storage) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	expenses, err := s.queryExpenses(ctx, selectExpenses+" ORDER BY e.id")
	if err != nil {
		return nil, err
	}
	splits, err := s.querySplits(ctx, `
		SELECT id, expense_id, user_id, amount, percentage
		FROM expense_splits
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	storage.GroupSplits(expenses, splits)
	return expenses, nil
}

func (s *Storage) ListExpensesByPayer(ctx context.Context, payerID int64) ([]domain.Expense, error) {
	expenses, err := s.queryExpenses(ctx, selectExpenses+" WHERE e.payer_id = ? ORDER BY e.id", payerID)
	if err != nil {
		return nil, err
	}
	splits, err := s.querySplits(ctx, `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.percentage
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.payer_id = ?
		ORDER BY s.id
	`, payerID)
	if err != nil {
		return nil, err
	}
	storage.GroupSplits(expenses, splits)
	return expenses, nil
}

func (s *Storage) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var (
			e      domain.Expense
			method string
			date   int64
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.PayerID, &e.PayerName, &method, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.SplitMethod = domain.SplitMethod(method)
		e.Date = time.Unix(date, 0).UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *Storage) querySplits(ctx context.Context, query string, args ...any) ([]domain.ExpenseSplit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query splits: %w", err)
	}
	defer rows.Close()

	var splits []domain.ExpenseSplit
	for rows.Next() {
		var (
			sp  domain.ExpenseSplit
			pct decimal.NullDecimal
		)
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &sp.Amount, &pct); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		if pct.Valid {
			sp.Percentage = &pct.Decimal
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate splits: %w", err)
	}
	return splits, nil
}

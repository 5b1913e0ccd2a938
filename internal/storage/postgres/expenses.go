// internal/storage/postgres/expenses.go
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Storage) CreateExpense(ctx context.Context, e *domain.Expense) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, payer_id, split_method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date
	`, e.Description, e.Amount, e.PayerID, string(e.SplitMethod)).Scan(&e.ID, &e.Date)
	if err != nil {
		return fmt.Errorf("insert expense: %w", translateError(err))
	}
	e.Date = e.Date.UTC()

	for i := range e.Splits {
		sp := &e.Splits[i]
		sp.ExpenseID = e.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO expense_splits (expense_id, user_id, amount, percentage)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, e.ID, sp.UserID, sp.Amount, nullDecimal(sp.Percentage)).Scan(&sp.ID)
		if err != nil {
			return fmt.Errorf("insert split for user %d: %w", sp.UserID, translateError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	slog.Debug("CreateExpense completed", "expense_id", e.ID, "splits", len(e.Splits))
	return nil
}

func (s *Storage) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	expenses, err := s.queryExpenses(ctx, `
		SELECT e.id, e.description, e.amount, e.payer_id, u.name, e.split_method, e.date
		FROM expenses e
		JOIN users u ON u.id = e.payer_id
		ORDER BY e.id
	`)
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
	expenses, err := s.queryExpenses(ctx, `
		SELECT e.id, e.description, e.amount, e.payer_id, u.name, e.split_method, e.date
		FROM expenses e
		JOIN users u ON u.id = e.payer_id
		WHERE e.payer_id = $1
		ORDER BY e.id
	`, payerID)
	if err != nil {
		return nil, err
	}

	splits, err := s.querySplits(ctx, `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.percentage
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.payer_id = $1
		ORDER BY s.id
	`, payerID)
	if err != nil {
		return nil, err
	}

	storage.GroupSplits(expenses, splits)
	return expenses, nil
}

func (s *Storage) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var (
			e      domain.Expense
			method string
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.PayerID, &e.PayerName, &method, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.SplitMethod = domain.SplitMethod(method)
		e.Date = e.Date.UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *Storage) querySplits(ctx context.Context, query string, args ...any) ([]domain.ExpenseSplit, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query splits: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExpenseSplit, error) {
		var (
			sp  domain.ExpenseSplit
			pct decimal.NullDecimal
		)
		if err := row.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &sp.Amount, &pct); err != nil {
			return sp, fmt.Errorf("scan split: %w", err)
		}
		if pct.Valid {
			sp.Percentage = &pct.Decimal
		}
		return sp, nil
	})
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

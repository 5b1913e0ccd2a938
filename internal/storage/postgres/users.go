// internal/storage/postgres/users.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"expense-ledger/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id
	`, user.Name, user.Email).Scan(&user.ID)
	if err != nil {
		if errors.Is(translateError(err), domain.ErrDuplicateEmail) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, "SELECT id, name, email FROM users WHERE id = $1", id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, "SELECT id, name, email FROM users WHERE email = $1", email)
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, email FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

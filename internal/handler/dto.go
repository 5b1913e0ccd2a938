// internal/handler/dto.go
package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/service"
	"expense-ledger/internal/split"
	val "expense-ledger/internal/validator"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go out as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// === Requests ===

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required,notblank"`
	Amount      decimal.Decimal `json:"amount" validate:"required,money,gt=0"`
	PayerID     int64           `json:"payer_id" validate:"required,gt=0"`
	SplitMethod string          `json:"split_method" validate:"required,oneof=exact percentage equal"`
	Splits      []SplitRequest  `json:"splits" validate:"required,dive"`
}

// SplitRequest carries amount for exact splits and percentage for
// percentage splits; equal splits need only the user.
type SplitRequest struct {
	UserID     int64            `json:"user_id" validate:"required,gt=0"`
	Amount     *decimal.Decimal `json:"amount" validate:"omitempty,money"`
	Percentage *decimal.Decimal `json:"percentage" validate:"omitempty,money"`
}

// normalize trims surrounding whitespace so " eve@x.io " passes the email
// check and is stored trimmed.
func (r *CreateUserRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r CreateExpenseRequest) toNewExpense() service.NewExpense {
	entries := make([]split.Entry, len(r.Splits))
	for i, s := range r.Splits {
		entries[i] = split.Entry{UserID: s.UserID, Amount: s.Amount, Percentage: s.Percentage}
	}
	return service.NewExpense{
		Description: r.Description,
		Amount:      r.Amount,
		PayerID:     r.PayerID,
		SplitMethod: domain.SplitMethod(r.SplitMethod),
		Splits:      entries,
	}
}

// === Responses ===

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createdExpenseResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type userExpenseResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

type expenseResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Payer       string          `json:"payer"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// === Validation ===

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		var errs []string
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

// fieldPath drops the root struct name: "splits[0].user_id".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func fieldErrorToString(e validator.FieldError) string {
	field := fieldPath(e)
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "money":
		return fmt.Sprintf("%s must have at most %d integer and %d fraction digits",
			field, val.MaxIntegerDigits, val.MaxFractionDigits)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// internal/handler/ledger.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"expense-ledger/internal/balance"
	"expense-ledger/internal/domain"
	"expense-ledger/internal/report"
	"expense-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// Ledger is the slice of the ledger service the HTTP layer needs.
type Ledger interface {
	CreateUser(ctx context.Context, name, email string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateExpense(ctx context.Context, in service.NewExpense) (*domain.Expense, error)
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	ListUserExpenses(ctx context.Context, userID int64) ([]domain.Expense, error)
	BalanceSheet(ctx context.Context) (balance.Sheet, error)
}

type LedgerHandler struct {
	ledger Ledger
}

func NewLedgerHandler(ledger Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// CreateUser godoc
// @Summary Create a user
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User"
// @Success 201 {object} userResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users [post]
func (h *LedgerHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	req.normalize()
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.ledger.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(c, "CreateUser", err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// GetUser godoc
// @Summary Get a user by id
// @Param id path int true "User ID"
// @Success 200 {object} userResponse
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *LedgerHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.ledger.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// CreateExpense godoc
// @Summary Record an expense and split it among users
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} createdExpenseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /expenses [post]
func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.ledger.CreateExpense(c.Request.Context(), req.toNewExpense())
	if err != nil {
		respondError(c, "CreateExpense", err)
		return
	}
	c.JSON(http.StatusCreated, createdExpenseResponse{
		ID:          expense.ID,
		Description: expense.Description,
		Amount:      expense.Amount,
	})
}

// ListUserExpenses godoc
// @Summary Expenses paid by a user
// @Param id path int true "User ID"
// @Success 200 {array} userExpenseResponse
// @Failure 404 {object} map[string]string
// @Router /expenses/user/{id} [get]
func (h *LedgerHandler) ListUserExpenses(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	expenses, err := h.ledger.ListUserExpenses(c.Request.Context(), id)
	if err != nil {
		respondError(c, "ListUserExpenses", err)
		return
	}

	resp := make([]userExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = userExpenseResponse{ID: e.ID, Description: e.Description, Amount: e.Amount, Date: e.Date}
	}
	c.JSON(http.StatusOK, resp)
}

// ListExpenses godoc
// @Summary All expenses with payer names
// @Success 200 {array} expenseResponse
// @Router /expenses [get]
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.ledger.ListExpenses(c.Request.Context())
	if err != nil {
		respondError(c, "ListExpenses", err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = expenseResponse{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount,
			Date:        e.Date,
			Payer:       e.PayerName,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// BalanceSheet godoc
// @Summary Download every user's net balance as CSV
// @Produce text/csv
// @Success 200 {file} file
// @Router /balance-sheet [get]
func (h *LedgerHandler) BalanceSheet(c *gin.Context) {
	sheet, err := h.ledger.BalanceSheet(c.Request.Context())
	if err != nil {
		respondError(c, "BalanceSheet", err)
		return
	}

	data, err := report.BalanceSheetCSV(sheet)
	if err != nil {
		respondError(c, "BalanceSheet", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+report.BalanceSheetFilename)
	c.Data(http.StatusOK, report.BalanceSheetContentType, data)
}

// bindJSON decodes the body into req, answering 413 when the body limit was
// hit and 400 for anything else that fails to decode.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
	return false
}

// pathID parses the :id segment. Anything that is not a positive integer
// cannot name a record, so it is answered with 404.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondNotFound(c)
		return 0, false
	}
	return id, true
}

// internal/handler/handler_test.go
package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"expense-ledger/internal/handler"
	"expense-ledger/internal/service"
	"expense-ledger/internal/storage/sqlite"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWithLimit(t, 0)
}

func newTestRouterWithLimit(t *testing.T, maxBody int64) *gin.Engine {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	return handler.NewRouter(handler.RouterConfig{
		Ledger:       service.NewLedger(store),
		Store:        store,
		MaxBodyBytes: maxBody,
	})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, r http.Handler, name, email string) int64 {
	t.Helper()
	w := do(r, http.MethodPost, "/users", `{"name":"`+name+`","email":"`+email+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestUsers(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/users", `{"name":"Alice","email":"alice@x.io"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","email":"alice@x.io"}`, w.Body.String())

	w = do(r, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","email":"alice@x.io"}`, w.Body.String())

	t.Run("duplicate email", func(t *testing.T) {
		w := do(r, http.MethodPost, "/users", `{"name":"Other","email":"alice@x.io"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("padded email is trimmed", func(t *testing.T) {
		w := do(r, http.MethodPost, "/users", `{"name":"  Bob ","email":"  bob@x.io\t"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.JSONEq(t, `{"id":2,"name":"Bob","email":"bob@x.io"}`, w.Body.String())

		w = do(r, http.MethodPost, "/users", `{"name":"Bobby","email":" bob@x.io"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("missing email", func(t *testing.T) {
		w := do(r, http.MethodPost, "/users", `{"name":"Bob"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "email is required")
	})

	t.Run("malformed json", func(t *testing.T) {
		w := do(r, http.MethodPost, "/users", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid JSON"}`, w.Body.String())
	})

	for _, path := range []string{"/users/999", "/users/abc", "/users/0", "/users/-3"} {
		t.Run("not found "+path, func(t *testing.T) {
			w := do(r, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestCreateExpense(t *testing.T) {
	r := newTestRouter(t)
	createUser(t, r, "Eve", "eve@x.io")
	createUser(t, r, "Frank", "frank@x.io")

	w := do(r, http.MethodPost, "/expenses", `{
		"description": "Dinner",
		"amount": 100,
		"payer_id": 1,
		"split_method": "equal",
		"splits": [{"user_id": 1}, {"user_id": 2}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":1,"description":"Dinner","amount":100}`, w.Body.String())

	w = do(r, http.MethodGet, "/expenses/user/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Dinner", mine[0]["description"])
	assert.Contains(t, mine[0], "date")
	assert.NotContains(t, mine[0], "payer")

	w = do(r, http.MethodGet, "/expenses/user/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "Eve", all[0]["payer"])
	assert.EqualValues(t, 100, all[0]["amount"])
}

func TestCreateExpense_Rejections(t *testing.T) {
	r := newTestRouter(t)
	createUser(t, r, "Alice", "alice@x.io")
	createUser(t, r, "Bob", "bob@x.io")

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{
			name:   "unknown split method",
			body:   `{"description":"x","amount":10,"payer_id":1,"split_method":"weird","splits":[{"user_id":1}]}`,
			status: http.StatusBadRequest,
			msg:    "split_method must be one of",
		},
		{
			name:   "non-positive amount",
			body:   `{"description":"x","amount":-5,"payer_id":1,"split_method":"equal","splits":[{"user_id":1}]}`,
			status: http.StatusBadRequest,
			msg:    "amount must be greater than 0",
		},
		{
			name:   "unknown payer",
			body:   `{"description":"x","amount":10,"payer_id":42,"split_method":"equal","splits":[{"user_id":1}]}`,
			status: http.StatusNotFound,
		},
		{
			name:   "percentages off",
			body:   `{"description":"x","amount":10,"payer_id":1,"split_method":"percentage","splits":[{"user_id":1,"percentage":50},{"user_id":2,"percentage":40}]}`,
			status: http.StatusBadRequest,
			msg:    "100%",
		},
		{
			name:   "exact without amount",
			body:   `{"description":"x","amount":10,"payer_id":1,"split_method":"exact","splits":[{"user_id":1}]}`,
			status: http.StatusBadRequest,
			msg:    "splits[0].amount is required",
		},
		{
			name:   "equal with nobody",
			body:   `{"description":"x","amount":10,"payer_id":1,"split_method":"equal","splits":[]}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown split user",
			body:   `{"description":"x","amount":10,"payer_id":1,"split_method":"equal","splits":[{"user_id":1},{"user_id":99}]}`,
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/expenses", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.msg != "" {
				assert.Contains(t, w.Body.String(), tt.msg)
			}
		})
	}

	w := do(r, http.MethodGet, "/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateExpense_OutOfRangeNumbers(t *testing.T) {
	r := newTestRouter(t)
	createUser(t, r, "Alice", "alice@x.io")
	createUser(t, r, "Bob", "bob@x.io")

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{
			name: "huge amount exponent",
			body: `{"description":"x","amount":1e1000000,"payer_id":1,"split_method":"equal","splits":[{"user_id":1},{"user_id":2}]}`,
			msg:  "amount must have at most 15 integer and 10 fraction digits",
		},
		{
			name: "huge amount exponent, larger",
			body: `{"description":"x","amount":1e50000000,"payer_id":1,"split_method":"equal","splits":[{"user_id":1}]}`,
			msg:  "amount must have at most",
		},
		{
			name: "too many fraction digits",
			body: `{"description":"x","amount":0.000000000001,"payer_id":1,"split_method":"equal","splits":[{"user_id":1}]}`,
			msg:  "amount must have at most",
		},
		{
			name: "huge exact split amount",
			body: `{"description":"x","amount":10,"payer_id":1,"split_method":"exact","splits":[{"user_id":1,"amount":1e1000000}]}`,
			msg:  "splits[0].amount must have at most",
		},
		{
			name: "huge percentage",
			body: `{"description":"x","amount":10,"payer_id":1,"split_method":"percentage","splits":[{"user_id":1,"percentage":1e-1000000}]}`,
			msg:  "splits[0].percentage must have at most",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/expenses", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.msg)
			assert.Less(t, w.Body.Len(), 512)
		})
	}

	w := do(r, http.MethodGet, "/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRequestBodyLimit(t *testing.T) {
	r := newTestRouterWithLimit(t, 128)

	w := do(r, http.MethodPost, "/users", `{"name":"`+strings.Repeat("a", 256)+`","email":"a@x.io"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Request body too large"}`, w.Body.String())

	w = do(r, http.MethodPost, "/users", `{"name":"Alice","email":"alice@x.io"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBalanceSheet(t *testing.T) {
	r := newTestRouter(t)
	createUser(t, r, "Eve", "eve@x.io")
	createUser(t, r, "Frank", "frank@x.io")
	createUser(t, r, "Grace", "grace@x.io")

	w := do(r, http.MethodPost, "/expenses", `{
		"description": "Dinner",
		"amount": 100,
		"payer_id": 1,
		"split_method": "equal",
		"splits": [{"user_id": 1}, {"user_id": 2}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/balance-sheet", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=balance_sheet.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "User,Balance\nEve,50\nFrank,-50\nGrace,0\n", w.Body.String())
}

func TestBalanceSheet_Empty(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/balance-sheet", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User,Balance\n", w.Body.String())
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	down := handler.NewRouter(handler.RouterConfig{Store: downStore{}})
	w = do(down, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

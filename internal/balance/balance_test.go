package balance

import (
	"testing"

	"expense-ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertBalance(t *testing.T, sheet Sheet, user, want string) {
	t.Helper()
	got, ok := sheet[user]
	require.True(t, ok, "user %s missing from sheet", user)
	assert.True(t, dec(want).Equal(got), "%s balance = %s, want %s", user, got, want)
}

func assertSameSheet(t *testing.T, want, got Sheet) {
	t.Helper()
	require.Len(t, got, len(want))
	for name, bal := range want {
		assertBalance(t, got, name, bal.String())
	}
}

var (
	eve   = domain.User{ID: 1, Name: "Eve", Email: "eve@example.com"}
	frank = domain.User{ID: 2, Name: "Frank", Email: "frank@example.com"}
	grace = domain.User{ID: 3, Name: "Grace", Email: "grace@example.com"}
)

func TestAggregate(t *testing.T) {
	t.Run("equal split between payer and one other", func(t *testing.T) {
		expenses := []domain.Expense{{
			ID: 1, Amount: dec("100"), PayerID: eve.ID,
			Splits: []domain.ExpenseSplit{
				{UserID: eve.ID, Amount: dec("50")},
				{UserID: frank.ID, Amount: dec("50")},
			},
		}}

		sheet, err := Aggregate([]domain.User{eve, frank}, expenses)
		require.NoError(t, err)
		assertBalance(t, sheet, "Eve", "50")
		assertBalance(t, sheet, "Frank", "-50")
	})

	t.Run("users without expenses start at zero", func(t *testing.T) {
		sheet, err := Aggregate([]domain.User{eve, frank, grace}, nil)
		require.NoError(t, err)
		assert.Len(t, sheet, 3)
		assertBalance(t, sheet, "Grace", "0")
	})

	t.Run("multiple expenses net out", func(t *testing.T) {
		expenses := []domain.Expense{
			{
				ID: 1, Amount: dec("90"), PayerID: eve.ID,
				Splits: []domain.ExpenseSplit{
					{UserID: eve.ID, Amount: dec("30")},
					{UserID: frank.ID, Amount: dec("30")},
					{UserID: grace.ID, Amount: dec("30")},
				},
			},
			{
				ID: 2, Amount: dec("60"), PayerID: frank.ID,
				Splits: []domain.ExpenseSplit{
					{UserID: eve.ID, Amount: dec("36")},
					{UserID: grace.ID, Amount: dec("24")},
				},
			},
		}

		sheet, err := Aggregate([]domain.User{eve, frank, grace}, expenses)
		require.NoError(t, err)
		assertBalance(t, sheet, "Eve", "24")
		assertBalance(t, sheet, "Frank", "30")
		assertBalance(t, sheet, "Grace", "-54")

		total := decimal.Zero
		for _, b := range sheet {
			total = total.Add(b)
		}
		assert.True(t, total.IsZero(), "balances should sum to zero, got %s", total)
	})

	t.Run("exact mismatch is carried through", func(t *testing.T) {
		expenses := []domain.Expense{{
			ID: 1, Amount: dec("100"), PayerID: eve.ID,
			Splits: []domain.ExpenseSplit{{UserID: frank.ID, Amount: dec("10")}},
		}}

		sheet, err := Aggregate([]domain.User{eve, frank}, expenses)
		require.NoError(t, err)
		assertBalance(t, sheet, "Eve", "100")
		assertBalance(t, sheet, "Frank", "-10")
	})

	t.Run("order of expenses does not matter", func(t *testing.T) {
		a := domain.Expense{ID: 1, Amount: dec("10"), PayerID: eve.ID,
			Splits: []domain.ExpenseSplit{{UserID: frank.ID, Amount: dec("10")}}}
		b := domain.Expense{ID: 2, Amount: dec("7.5"), PayerID: frank.ID,
			Splits: []domain.ExpenseSplit{{UserID: eve.ID, Amount: dec("2.5")}, {UserID: frank.ID, Amount: dec("5")}}}

		first, err := Aggregate([]domain.User{eve, frank}, []domain.Expense{a, b})
		require.NoError(t, err)
		second, err := Aggregate([]domain.User{eve, frank}, []domain.Expense{b, a})
		require.NoError(t, err)
		assertSameSheet(t, first, second)
	})

	t.Run("unknown payer is fatal", func(t *testing.T) {
		expenses := []domain.Expense{{ID: 9, Amount: dec("10"), PayerID: 42}}
		_, err := Aggregate([]domain.User{eve}, expenses)
		assert.ErrorIs(t, err, domain.ErrIntegrity)
	})

	t.Run("unknown split user is fatal", func(t *testing.T) {
		expenses := []domain.Expense{{
			ID: 9, Amount: dec("10"), PayerID: eve.ID,
			Splits: []domain.ExpenseSplit{{ID: 3, UserID: 42, Amount: dec("10")}},
		}}
		_, err := Aggregate([]domain.User{eve}, expenses)
		assert.ErrorIs(t, err, domain.ErrIntegrity)
	})
}

func TestAggregate_SameNameSharesOneEntry(t *testing.T) {
	eve2 := domain.User{ID: 4, Name: "Eve", Email: "eve.two@example.com"}
	users := []domain.User{eve, eve2, frank}
	expenses := []domain.Expense{
		{
			ID: 1, Amount: dec("30"), PayerID: eve.ID,
			Splits: []domain.ExpenseSplit{{UserID: frank.ID, Amount: dec("30")}},
		},
		{
			ID: 2, Amount: dec("20"), PayerID: eve2.ID,
			Splits: []domain.ExpenseSplit{{UserID: eve.ID, Amount: dec("5")}, {UserID: frank.ID, Amount: dec("15")}},
		},
	}

	sheet, err := Aggregate(users, expenses)
	require.NoError(t, err)
	require.Len(t, sheet, 2)
	assertBalance(t, sheet, "Eve", "45")
	assertBalance(t, sheet, "Frank", "-45")
	assert.Len(t, sheet.Rows(), 2)
}

func TestAggregate_Idempotent(t *testing.T) {
	users := []domain.User{eve, frank}
	expenses := []domain.Expense{{
		ID: 1, Amount: dec("33.33"), PayerID: frank.ID,
		Splits: []domain.ExpenseSplit{{UserID: eve.ID, Amount: dec("11.11")}, {UserID: frank.ID, Amount: dec("22.22")}},
	}}

	first, err := Aggregate(users, expenses)
	require.NoError(t, err)
	second, err := Aggregate(users, expenses)
	require.NoError(t, err)
	assertSameSheet(t, first, second)
}

func TestSheet_Rows(t *testing.T) {
	sheet := Sheet{
		"zoe":   dec("1"),
		"Alice": dec("-2"),
		"Bob":   dec("1"),
	}

	rows := sheet.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Alice", rows[0].User)
	assert.Equal(t, "Bob", rows[1].User)
	assert.Equal(t, "zoe", rows[2].User)
}

package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sale(shop uuid.UUID, seq int64, at time.Time, total, paid int64) entity.Sale {
	return entity.Sale{
		ID:          uuid.New(),
		Seq:         seq,
		InvoiceNo:   "INV-TEST",
		ShopID:      shop,
		Date:        at,
		TotalAmount: d(total),
		PaidAmount:  d(paid),
		Balance:     d(total - paid),
		Status:      enum.ClassifySale(d(total), d(paid)),
	}
}

func TestComputeScenario(t *testing.T) {
	customer := uuid.New()
	shopA, shopB := uuid.New(), uuid.New()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	s1 := sale(shopA, 1, base, 8000, 3000)
	p1 := entity.Payment{ID: uuid.New(), Seq: 2, ShopID: shopA, CustomerID: customer, Amount: d(2000), Date: base.Add(time.Hour)}
	e1 := entity.Expense{ID: uuid.New(), Seq: 3, ShopID: shopB, CustomerID: customer, Description: "delivery", Amount: d(500), Date: base.Add(2 * time.Hour)}

	st := Compute(customer, []entity.Sale{s1}, []entity.Payment{p1}, []entity.Expense{e1})

	require.Len(t, st.Items, 3)
	assert.Equal(t, []uuid.UUID{s1.ID, p1.ID, e1.ID}, []uuid.UUID{st.Items[0].RefID, st.Items[1].RefID, st.Items[2].RefID})
	assert.True(t, st.Items[0].RunningBalance.Equal(d(5000)))
	assert.True(t, st.Items[1].RunningBalance.Equal(d(3000)))
	assert.True(t, st.Items[2].RunningBalance.Equal(d(3500)))

	assert.True(t, st.ShopBalances[shopA].Equal(d(3000)))
	assert.True(t, st.ShopBalances[shopB].Equal(d(500)))
	assert.True(t, st.Balance.Equal(d(3500)))

	// billed counts the full sale, not just its unpaid part
	assert.True(t, st.TotalBilled.Equal(d(8500)), st.TotalBilled.String())
	assert.True(t, st.TotalPaid.Equal(d(2000)))
}

func TestComputeOrdersByDateNotInput(t *testing.T) {
	shop := uuid.New()
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	late := sale(shop, 1, base.Add(48*time.Hour), 100, 0)
	early := sale(shop, 2, base, 300, 0)

	st := Compute(uuid.New(), []entity.Sale{late, early}, nil, nil)

	require.Len(t, st.Items, 2)
	assert.Equal(t, early.ID, st.Items[0].RefID)
	assert.True(t, st.Items[0].RunningBalance.Equal(d(300)))
	assert.True(t, st.Items[1].RunningBalance.Equal(d(400)))
}

func TestComputeBreaksTiesBySequence(t *testing.T) {
	shop := uuid.New()
	at := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

	s := sale(shop, 10, at, 1000, 0)
	p := entity.Payment{ID: uuid.New(), Seq: 5, ShopID: shop, Amount: d(200), Date: at}
	e := entity.Expense{ID: uuid.New(), Seq: 7, ShopID: shop, Amount: d(50), Date: at}

	st := Compute(uuid.New(), []entity.Sale{s}, []entity.Payment{p}, []entity.Expense{e})

	require.Len(t, st.Items, 3)
	assert.Equal(t, enum.LedgerEntryPayment, st.Items[0].Type)
	assert.Equal(t, enum.LedgerEntryExpense, st.Items[1].Type)
	assert.Equal(t, enum.LedgerEntrySale, st.Items[2].Type)
	assert.True(t, st.Items[0].RunningBalance.Equal(d(-200)))
	assert.True(t, st.Balance.Equal(d(850)))
}

func TestComputeIsDeterministic(t *testing.T) {
	customer := uuid.New()
	shopA, shopB := uuid.New(), uuid.New()
	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	sales := []entity.Sale{sale(shopA, 1, at, 500, 100), sale(shopB, 2, at, 700, 700)}
	payments := []entity.Payment{{ID: uuid.New(), Seq: 3, ShopID: shopA, Amount: d(150), Date: at}}

	first, err := json.Marshal(Compute(customer, sales, payments, nil))
	require.NoError(t, err)
	second, err := json.Marshal(Compute(customer, sales, payments, nil))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestComputeShopBalancesSumToBalance(t *testing.T) {
	shops := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	var sales []entity.Sale
	var payments []entity.Payment
	for i := 0; i < 9; i++ {
		shop := shops[i%len(shops)]
		at := base.Add(time.Duration(i) * time.Hour)
		sales = append(sales, sale(shop, int64(2*i), at, int64(100*(i+1)), int64(10*i)))
		payments = append(payments, entity.Payment{ID: uuid.New(), Seq: int64(2*i + 1), ShopID: shop, Amount: d(int64(5 * i)), Date: at})
	}

	st := Compute(uuid.New(), sales, payments, nil)

	sum := decimal.Zero
	for _, b := range st.ShopBalances {
		sum = sum.Add(b)
	}
	assert.True(t, sum.Equal(st.Balance))
	assert.True(t, st.Items[len(st.Items)-1].RunningBalance.Equal(st.Balance))
}

func TestEmptyStatement(t *testing.T) {
	id := uuid.New()
	st := Compute(id, nil, nil, nil)

	assert.Equal(t, id, st.CustomerID)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.ShopBalances)
	assert.True(t, st.Balance.IsZero())
	assert.True(t, st.TotalBilled.IsZero())
}

func TestVerify(t *testing.T) {
	shop := uuid.New()
	at := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("consistent", func(t *testing.T) {
		st := Compute(uuid.New(), []entity.Sale{sale(shop, 1, at, 1000, 400)}, nil, nil)
		r := Verify(d(600), st)
		assert.True(t, r.Consistent)
		assert.False(t, r.FloorDivergence)
	})

	t.Run("overpayment floored", func(t *testing.T) {
		s := sale(shop, 1, at, 1000, 700)
		p := entity.Payment{ID: uuid.New(), Seq: 2, ShopID: shop, Amount: d(500), Date: at.Add(time.Minute)}
		e := entity.Expense{ID: uuid.New(), Seq: 3, ShopID: shop, Amount: d(100), Date: at.Add(2 * time.Minute)}
		st := Compute(uuid.New(), []entity.Sale{s}, []entity.Payment{p}, []entity.Expense{e})

		r := Verify(d(100), st)
		assert.True(t, r.Consistent)
		assert.True(t, r.FloorDivergence)
		assert.True(t, r.StatementBalance.Equal(d(-100)))
		assert.True(t, r.FlooredBalance.Equal(d(100)))
	})

	t.Run("overpaid sale keeps credit", func(t *testing.T) {
		s := sale(shop, 1, at, 1000, 1200)
		p := entity.Payment{ID: uuid.New(), Seq: 2, ShopID: shop, Amount: d(100), Date: at.Add(time.Minute)}
		e := entity.Expense{ID: uuid.New(), Seq: 3, ShopID: shop, Amount: d(500), Date: at.Add(2 * time.Minute)}
		st := Compute(uuid.New(), []entity.Sale{s}, []entity.Payment{p}, []entity.Expense{e})

		r := Verify(d(300), st)
		assert.True(t, r.Consistent, r.FlooredBalance.String())
		assert.True(t, r.StatementBalance.Equal(d(200)))
		assert.True(t, r.FloorDivergence)
	})

	t.Run("sale alone is never floored", func(t *testing.T) {
		st := Compute(uuid.New(), []entity.Sale{sale(shop, 1, at, 1000, 1200)}, nil, nil)
		r := Verify(d(-200), st)
		assert.True(t, r.Consistent)
		assert.False(t, r.FloorDivergence)
	})

	t.Run("drifted cache", func(t *testing.T) {
		st := Compute(uuid.New(), []entity.Sale{sale(shop, 1, at, 1000, 0)}, nil, nil)
		r := Verify(d(900), st)
		assert.False(t, r.Consistent)
	})
}

// Package ledger replays a customer's sales, payments and expenses into a
// chronological statement with running and per-shop balances.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Item is one statement line. Amount is the gross event amount while Delta is
// what the event moved the balance by; for a sale only the unpaid part moves it.
type Item struct {
	Seq            int64                `json:"-"`
	Type           enum.LedgerEntryType `json:"type"`
	RefID          uuid.UUID            `json:"ref_id"`
	ShopID         uuid.UUID            `json:"shop_id"`
	Date           time.Time            `json:"date"`
	Reference      string               `json:"reference,omitempty"`
	Amount         decimal.Decimal      `json:"amount"`
	Delta          decimal.Decimal      `json:"delta"`
	RunningBalance decimal.Decimal      `json:"running_balance"`
}

// Statement is the projection of a customer's event history
type Statement struct {
	CustomerID   uuid.UUID                     `json:"customer_id"`
	Items        []Item                        `json:"items"`
	ShopBalances map[uuid.UUID]decimal.Decimal `json:"shop_balances"`
	TotalBilled  decimal.Decimal               `json:"total_billed"`
	TotalPaid    decimal.Decimal               `json:"total_paid"`
	Balance      decimal.Decimal               `json:"balance"`
}

// Empty returns the statement of a customer with no events
func Empty(customerID uuid.UUID) *Statement {
	return &Statement{
		CustomerID:   customerID,
		Items:        []Item{},
		ShopBalances: map[uuid.UUID]decimal.Decimal{},
		TotalBilled:  decimal.Zero,
		TotalPaid:    decimal.Zero,
		Balance:      decimal.Zero,
	}
}

// Compute merges the three event streams by date, breaking ties by insertion
// sequence and then id, and walks them once. It does not modify its inputs.
func Compute(customerID uuid.UUID, sales []entity.Sale, payments []entity.Payment, expenses []entity.Expense) *Statement {
	st := Empty(customerID)
	items := make([]Item, 0, len(sales)+len(payments)+len(expenses))

	for _, s := range sales {
		items = append(items, Item{
			Seq:       s.Seq,
			Type:      enum.LedgerEntrySale,
			RefID:     s.ID,
			ShopID:    s.ShopID,
			Date:      s.Date,
			Reference: s.InvoiceNo,
			Amount:    s.TotalAmount,
			Delta:     s.Balance,
		})
		st.TotalBilled = st.TotalBilled.Add(s.TotalAmount)
	}
	for _, p := range payments {
		items = append(items, Item{
			Seq:    p.Seq,
			Type:   enum.LedgerEntryPayment,
			RefID:  p.ID,
			ShopID: p.ShopID,
			Date:   p.Date,
			Amount: p.Amount,
			Delta:  p.Amount.Neg(),
		})
		st.TotalPaid = st.TotalPaid.Add(p.Amount)
	}
	for _, e := range expenses {
		items = append(items, Item{
			Seq:       e.Seq,
			Type:      enum.LedgerEntryExpense,
			RefID:     e.ID,
			ShopID:    e.ShopID,
			Date:      e.Date,
			Reference: e.Description,
			Amount:    e.Amount,
			Delta:     e.Amount,
		})
		st.TotalBilled = st.TotalBilled.Add(e.Amount)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.RefID.String() < b.RefID.String()
	})

	running := decimal.Zero
	for i := range items {
		running = running.Add(items[i].Delta)
		items[i].RunningBalance = running
		st.ShopBalances[items[i].ShopID] = st.ShopBalances[items[i].ShopID].Add(items[i].Delta)
	}

	st.Items = items
	st.Balance = running
	return st
}

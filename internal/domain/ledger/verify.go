package ledger

import (
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Report compares a customer's cached debt with a replay of their events.
//
// StatementBalance is the plain running balance. FlooredBalance replays the
// same events but stops each payment from taking the balance below zero,
// which is how the cached debt is maintained. Sales may leave it negative. A cached debt equal to FlooredBalance is
// consistent; FloorDivergence marks customers whose overpayments were
// discarded, so the statement and the cached debt legitimately differ.
type Report struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	CachedDebt       decimal.Decimal `json:"cached_debt"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
	FlooredBalance   decimal.Decimal `json:"floored_balance"`
	Consistent       bool            `json:"consistent"`
	FloorDivergence  bool            `json:"floor_divergence"`
}

// Verify checks cachedDebt against the statement. It never changes either.
func Verify(cachedDebt decimal.Decimal, st *Statement) Report {
	floored := decimal.Zero
	for _, it := range st.Items {
		prev := floored
		floored = floored.Add(it.Delta)
		if it.Type == enum.LedgerEntryPayment && floored.IsNegative() {
			floored = decimal.Min(prev, decimal.Zero)
		}
	}
	return Report{
		CustomerID:       st.CustomerID,
		CachedDebt:       cachedDebt,
		StatementBalance: st.Balance,
		FlooredBalance:   floored,
		Consistent:       cachedDebt.Equal(floored),
		FloorDivergence:  !floored.Equal(st.Balance),
	}
}

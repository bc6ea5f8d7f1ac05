package enum

// LedgerEntryType is the kind of event a statement line came from
type LedgerEntryType string

const (
	LedgerEntrySale    LedgerEntryType = "SALE"
	LedgerEntryPayment LedgerEntryType = "PAYMENT"
	LedgerEntryExpense LedgerEntryType = "EXPENSE"
)

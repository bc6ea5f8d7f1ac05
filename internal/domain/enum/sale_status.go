package enum

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SaleStatus represents how much of a sale has been settled
type SaleStatus string

const (
	SaleStatusUnpaid  SaleStatus = "UNPAID"
	SaleStatusPartial SaleStatus = "PARTIAL"
	SaleStatusPaid    SaleStatus = "PAID"
)

// ClassifySale derives the status from the amounts at creation time.
// PAID when nothing is owed, UNPAID when nothing was paid, PARTIAL otherwise.
func ClassifySale(total, paid decimal.Decimal) SaleStatus {
	balance := total.Sub(paid)
	switch {
	case !balance.IsPositive():
		return SaleStatusPaid
	case paid.IsZero():
		return SaleStatusUnpaid
	default:
		return SaleStatusPartial
	}
}

func (s SaleStatus) String() string {
	return string(s)
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = SaleStatus(str)
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SaleStatus(v)
	case []byte:
		*s = SaleStatus(string(v))
	}
	return nil
}

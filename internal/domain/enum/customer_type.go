package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CustomerType decides which price list applies to a customer
type CustomerType string

const (
	CustomerTypeRetail    CustomerType = "RETAIL"
	CustomerTypeWholesale CustomerType = "WHOLESALE"
)

func (t CustomerType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known values
func (t CustomerType) Valid() bool {
	switch t {
	case CustomerTypeRetail, CustomerTypeWholesale:
		return true
	}
	return false
}

func (t CustomerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *CustomerType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = CustomerType(str)
	return nil
}

func (t CustomerType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *CustomerType) Scan(value interface{}) error {
	if value == nil {
		*t = CustomerTypeRetail
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = CustomerType(v)
	case []byte:
		*t = CustomerType(string(v))
	}
	return nil
}

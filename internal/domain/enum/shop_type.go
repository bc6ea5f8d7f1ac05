package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ShopType represents how a shop sells
type ShopType string

const (
	ShopTypeWholesale ShopType = "WHOLESALE"
	ShopTypeRetail    ShopType = "RETAIL"
	ShopTypeHybrid    ShopType = "HYBRID"
)

func (t ShopType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known values
func (t ShopType) Valid() bool {
	switch t {
	case ShopTypeWholesale, ShopTypeRetail, ShopTypeHybrid:
		return true
	}
	return false
}

func (t ShopType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *ShopType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = ShopType(str)
	return nil
}

func (t ShopType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *ShopType) Scan(value interface{}) error {
	if value == nil {
		*t = ShopTypeRetail
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = ShopType(v)
	case []byte:
		*t = ShopType(string(v))
	}
	return nil
}

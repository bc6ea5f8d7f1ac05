package enum

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifySale(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		paid  int64
		want  SaleStatus
	}{
		{"fully paid", 1000, 1000, SaleStatusPaid},
		{"nothing paid", 1000, 0, SaleStatusUnpaid},
		{"part paid", 1000, 400, SaleStatusPartial},
		{"free sale", 0, 0, SaleStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifySale(decimal.NewFromInt(tc.total), decimal.NewFromInt(tc.paid))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShopTypeValid(t *testing.T) {
	assert.True(t, ShopTypeHybrid.Valid())
	assert.False(t, ShopType("KIOSK").Valid())
	assert.True(t, CustomerTypeWholesale.Valid())
}

package service

import (
	"context"
	"testing"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store     *store.Store
	shops     *ShopService
	customers *CustomerService
	ledger    *LedgerService
	inventory *InventoryService
	activity  *ActivityService

	shopA entity.Shop
	shopB entity.Shop
}

func newFixture(t *testing.T, enforceSaleStock bool) *fixture {
	t.Helper()
	return newFixtureWithStore(t, store.New(store.Options{}), enforceSaleStock)
}

func newFixtureWithStore(t *testing.T, st *store.Store, enforceSaleStock bool) *fixture {
	t.Helper()
	log := zap.NewNop()
	f := &fixture{
		store:     st,
		shops:     NewShopService(st, log),
		customers: NewCustomerService(st, log),
		ledger:    NewLedgerService(st, log, enforceSaleStock),
		inventory: NewInventoryService(st, log),
		activity:  NewActivityService(st),
	}

	_, err := f.shops.EnsureShops(context.Background(), []string{"Shop A:WHOLESALE", "Shop B:RETAIL"})
	require.NoError(t, err)
	for _, sh := range f.shops.ListShops() {
		switch sh.Name {
		case "Shop A":
			f.shopA = sh
		case "Shop B":
			f.shopB = sh
		}
	}
	return f
}

func (f *fixture) addCustomer(t *testing.T, name string, kind enum.CustomerType) *entity.Customer {
	t.Helper()
	c, err := f.customers.AddCustomer(context.Background(), &AddCustomerInput{Name: name, Phone: "0700000000", Type: kind})
	require.NoError(t, err)
	return c
}

func (f *fixture) addProduct(t *testing.T, shop entity.Shop, name string, retail, wholesale int64, stock int) *entity.Product {
	t.Helper()
	w := decimal.NewFromInt(wholesale)
	p, err := f.inventory.AddProduct(context.Background(), &AddProductInput{
		ShopID:         shop.ID,
		Name:           name,
		Category:       "Groceries",
		RetailPrice:    decimal.NewFromInt(retail),
		WholesalePrice: &w,
		Stock:          stock,
	})
	require.NoError(t, err)
	return p
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

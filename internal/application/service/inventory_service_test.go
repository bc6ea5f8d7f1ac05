package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferConservesStock(t *testing.T) {
	f := newFixture(t, false)
	src := f.addProduct(t, f.shopA, "Nails 1kg", 300, 280, 50)
	dst := f.addProduct(t, f.shopB, "Nails 1kg", 320, 300, 5)

	result, err := f.inventory.TransferStock(context.Background(), &TransferStockInput{
		ProductName: "Nails 1kg",
		FromShopID:  f.shopA.ID,
		ToShopID:    f.shopB.ID,
		Quantity:    20,
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, dst.ID, result.Destination.ID)

	a, _ := f.store.GetProduct(src.ID)
	b, _ := f.store.GetProduct(dst.ID)
	assert.Equal(t, 30, a.Stock)
	assert.Equal(t, 25, b.Stock)
	assert.Equal(t, 55, a.Stock+b.Stock)

	// destination keeps its own prices
	assert.True(t, b.RetailPrice.Equal(dec(320)))
}

func TestTransferInsufficientStockIsAtomic(t *testing.T) {
	f := newFixture(t, false)
	src := f.addProduct(t, f.shopA, "Paint 4L", 2500, 2300, 3)
	dst := f.addProduct(t, f.shopB, "Paint 4L", 2500, 2300, 1)
	before := len(f.activity.ListActivity(ListActivityInput{}))

	_, err := f.inventory.TransferStock(context.Background(), &TransferStockInput{
		ProductName: "Paint 4L",
		FromShopID:  f.shopA.ID,
		ToShopID:    f.shopB.ID,
		Quantity:    4,
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	a, _ := f.store.GetProduct(src.ID)
	b, _ := f.store.GetProduct(dst.ID)
	assert.Equal(t, 3, a.Stock)
	assert.Equal(t, 1, b.Stock)
	assert.Len(t, f.activity.ListActivity(ListActivityInput{}), before)
}

func TestTransferCreatesDestinationProduct(t *testing.T) {
	f := newFixture(t, false)
	description := "Blue, 20 pieces"
	src := f.addProduct(t, f.shopA, "Pens", 20, 15, 100)
	_, err := f.inventory.UpdateProduct(context.Background(), &UpdateProductInput{ID: src.ID, Description: &description})
	require.NoError(t, err)

	result, err := f.inventory.TransferStock(context.Background(), &TransferStockInput{
		ProductName: "Pens",
		FromShopID:  f.shopA.ID,
		ToShopID:    f.shopB.ID,
		Quantity:    40,
	})
	require.NoError(t, err)
	assert.True(t, result.Created)

	created, ok := f.store.FindProductByName(f.shopB.ID, "Pens")
	require.True(t, ok)
	assert.NotEqual(t, src.ID, created.ID)
	assert.Equal(t, f.shopB.ID, created.ShopID)
	assert.Equal(t, 40, created.Stock)
	assert.Equal(t, "Groceries", created.Category)
	assert.True(t, created.RetailPrice.Equal(dec(20)))
	assert.True(t, created.WholesalePrice.Equal(dec(15)))
	require.NotNil(t, created.Description)
	assert.Equal(t, description, *created.Description)

	a, _ := f.store.GetProduct(src.ID)
	assert.Equal(t, 60, a.Stock)
	assert.Len(t, f.inventory.ListProducts(&f.shopB.ID), 1)
}

func TestTransferMatchesNameExactly(t *testing.T) {
	f := newFixture(t, false)
	f.addProduct(t, f.shopA, "Maize Flour", 150, 140, 10)

	_, err := f.inventory.TransferStock(context.Background(), &TransferStockInput{
		ProductName: "maize flour",
		FromShopID:  f.shopA.ID,
		ToShopID:    f.shopB.ID,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, apperror.ErrProductNotFound)

	_, err = f.inventory.TransferStock(context.Background(), &TransferStockInput{
		ProductName: "Maize Flour",
		FromShopID:  f.shopA.ID,
		ToShopID:    f.shopA.ID,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.inventory.TransferStock(context.Background(), &TransferStockInput{
		ProductName: "Maize Flour",
		FromShopID:  f.shopA.ID,
		ToShopID:    f.shopB.ID,
		Quantity:    0,
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestConcurrentTransfersBothDirections(t *testing.T) {
	f := newFixture(t, false)
	a := f.addProduct(t, f.shopA, "Bulbs", 100, 90, 500)
	b := f.addProduct(t, f.shopB, "Bulbs", 100, 90, 500)
	c := f.addCustomer(t, "Contractor", enum.CustomerTypeWholesale)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := f.inventory.TransferStock(ctx, &TransferStockInput{ProductName: "Bulbs", FromShopID: f.shopA.ID, ToShopID: f.shopB.ID, Quantity: 3})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.inventory.TransferStock(ctx, &TransferStockInput{ProductName: "Bulbs", FromShopID: f.shopB.ID, ToShopID: f.shopA.ID, Quantity: 2})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.ledger.CreateSale(ctx, &CreateSaleInput{ShopID: f.shopA.ID, CustomerID: c.ID, Items: []SaleItemInput{{ProductID: a.ID, Quantity: 1}}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	gotA, _ := f.store.GetProduct(a.ID)
	gotB, _ := f.store.GetProduct(b.ID)
	assert.Equal(t, 500-150+100-50, gotA.Stock)
	assert.Equal(t, 500+150-100, gotB.Stock)
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t, false)
	p := f.addProduct(t, f.shopA, "Old Name", 10, 8, 5)

	name := "New Name"
	stock := 12
	updated, err := f.inventory.UpdateProduct(context.Background(), &UpdateProductInput{
		ID:          p.ID,
		Name:        &name,
		RetailPrice: decPtr(11),
		Stock:       &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 12, updated.Stock)
	assert.True(t, updated.RetailPrice.Equal(dec(11)))
	assert.True(t, updated.WholesalePrice.Equal(dec(8)))

	_, ok := f.store.FindProductByName(f.shopA.ID, "Old Name")
	assert.False(t, ok)
	_, ok = f.store.FindProductByName(f.shopA.ID, "New Name")
	assert.True(t, ok)

	negative := -1
	_, err = f.inventory.UpdateProduct(context.Background(), &UpdateProductInput{ID: p.ID, Stock: &negative})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.inventory.UpdateProduct(context.Background(), &UpdateProductInput{ID: uuid.New(), Stock: &stock})
	assert.ErrorIs(t, err, apperror.ErrProductNotFound)
}

func TestAddProductValidation(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.inventory.AddProduct(context.Background(), &AddProductInput{ShopID: f.shopA.ID, Name: " ", RetailPrice: dec(10)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.inventory.AddProduct(context.Background(), &AddProductInput{ShopID: uuid.New(), Name: "Ghost", RetailPrice: dec(10)})
	assert.ErrorIs(t, err, apperror.ErrShopNotFound)

	p, err := f.inventory.AddProduct(context.Background(), &AddProductInput{ShopID: f.shopA.ID, Name: "Matches", RetailPrice: dec(5)})
	require.NoError(t, err)
	assert.True(t, p.WholesalePrice.Equal(dec(5)))

	tooFine := decimal.RequireFromString("4.999")
	_, err = f.inventory.AddProduct(context.Background(), &AddProductInput{ShopID: f.shopA.ID, Name: "Candles", RetailPrice: tooFine})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "retail_price", appErr.Errors[0].Field)

	_, err = f.inventory.UpdateProduct(context.Background(), &UpdateProductInput{ID: p.ID, WholesalePrice: &tooFine})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "wholesale_price", appErr.Errors[0].Field)

	_, ok := f.store.FindProductByName(f.shopA.ID, "Candles")
	assert.False(t, ok)
}

func TestTransferActivityVisibleFromBothShops(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.addProduct(t, f.shopA, "Cement 50kg", 800, 750, 10)

	_, err := f.inventory.TransferStock(ctx, &TransferStockInput{ProductName: "Cement 50kg", FromShopID: f.shopA.ID, ToShopID: f.shopB.ID, Quantity: 4})
	require.NoError(t, err)

	for _, shop := range []uuid.UUID{f.shopA.ID, f.shopB.ID} {
		entries := f.activity.ListActivity(ListActivityInput{ShopID: &shop})
		require.NotEmpty(t, entries)
		transfer := entries[0]
		assert.Equal(t, enum.ActivityTransferProduct, transfer.Action)
		assert.Contains(t, transfer.Description, "Shop A")
		assert.Contains(t, transfer.Description, "Shop B")
	}

	// the add product entry stays with its own shop
	onlyB := f.activity.ListActivity(ListActivityInput{ShopID: &f.shopB.ID})
	assert.Len(t, onlyB, 1)
}

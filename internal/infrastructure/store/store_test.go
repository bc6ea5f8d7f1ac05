package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/database"
	"github.com/sangkips/shopledger-api/internal/infrastructure/mirror"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKeyLockerSerializesSameKey(t *testing.T) {
	locker := NewKeyLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("customer:1", "product:2")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyLockerOppositeOrderDoesNotDeadlock(t *testing.T) {
	locker := NewKeyLocker()
	done := make(chan struct{})

	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 200; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				locker.Lock("product:a", "product:b")()
			}()
			go func() {
				defer wg.Done()
				locker.Lock("product:b", "product:a", "product:b")()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock acquisition deadlocked")
	}
}

func TestFindProductByNameFirstMatch(t *testing.T) {
	s := New(Options{})
	shop := uuid.New()
	other := uuid.New()

	first := entity.Product{ID: uuid.New(), ShopID: shop, Seq: 1, Name: "Maize Flour", Stock: 3}
	second := entity.Product{ID: uuid.New(), ShopID: shop, Seq: 2, Name: "Maize Flour", Stock: 9}
	s.PutProduct(first)
	s.PutProduct(second)
	s.PutProduct(entity.Product{ID: uuid.New(), ShopID: other, Seq: 3, Name: "Maize Flour"})

	got, ok := s.FindProductByName(shop, "Maize Flour")
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)

	_, ok = s.FindProductByName(shop, "maize flour")
	assert.False(t, ok)

	assert.Len(t, s.ListProducts(&shop), 2)
	assert.Len(t, s.ListProducts(nil), 3)
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New(Options{})
	customer := uuid.New()
	s.AppendPayment(entity.Payment{ID: uuid.New(), CustomerID: customer, Amount: decimal.NewFromInt(10)})

	payments := s.PaymentsFor(customer)
	payments[0].Amount = decimal.NewFromInt(999)
	_ = append(payments, entity.Payment{ID: uuid.New()})

	again := s.PaymentsFor(customer)
	require.Len(t, again, 1)
	assert.True(t, again[0].Amount.Equal(decimal.NewFromInt(10)))
}

func TestListActivityNewestFirst(t *testing.T) {
	s := New(Options{})
	shopA, shopB := uuid.New(), uuid.New()
	at := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	s.AppendActivity(entity.ActivityLog{ID: uuid.New(), Seq: 1, ShopID: &shopA, Date: at, Action: enum.ActivityAddProduct})
	s.AppendActivity(entity.ActivityLog{ID: uuid.New(), Seq: 2, ShopID: &shopB, Date: at, Action: enum.ActivityAddProduct})
	s.AppendActivity(entity.ActivityLog{ID: uuid.New(), Seq: 3, ShopID: &shopA, Date: at.Add(time.Minute), Action: enum.ActivityUpdateProduct})

	all := s.ListActivity(ActivityFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	onlyA := s.ListActivity(ActivityFilter{ShopID: &shopA})
	require.Len(t, onlyA, 2)
	assert.Equal(t, enum.ActivityUpdateProduct, onlyA[0].Action)

	s.AppendActivity(entity.ActivityLog{ID: uuid.New(), Seq: 4, ShopID: &shopA, RelatedShopID: &shopB, Date: at.Add(2 * time.Minute), Action: enum.ActivityTransferProduct})
	onlyB := s.ListActivity(ActivityFilter{ShopID: &shopB})
	require.Len(t, onlyB, 2)
	assert.Equal(t, enum.ActivityTransferProduct, onlyB[0].Action)
}

func TestOpenHydratesFromDurableStore(t *testing.T) {
	db, err := database.NewSQLiteDB("file:"+t.Name()+"?mode=memory&cache=shared", false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	t.Cleanup(func() { _ = database.Close(db) })

	uow := repository.NewUnitOfWork(db)
	opts := Options{
		UnitOfWork: uow,
		Mirror:     mirror.Config{MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond, WriteTimeout: time.Second},
	}
	ctx := context.Background()

	first := New(opts)
	require.NoError(t, first.Open(ctx))

	shop := entity.Shop{ID: uuid.New(), Name: "Main", Type: enum.ShopTypeRetail, CreatedAt: time.Now().UTC()}
	customer := entity.Customer{ID: uuid.New(), Seq: 1, Name: "Jane", Type: enum.CustomerTypeRetail, TotalDebt: decimal.NewFromInt(40)}
	payment := entity.Payment{ID: uuid.New(), Seq: 2, ShopID: shop.ID, CustomerID: customer.ID, Amount: decimal.NewFromInt(60), Date: time.Now().UTC()}

	first.PutShop(shop)
	first.PutCustomer(customer)
	first.AppendPayment(payment)
	first.Persist("seed", func(ctx context.Context, repos *domainRepo.Repositories) error {
		if err := repos.Shops.Upsert(ctx, &shop); err != nil {
			return err
		}
		if err := repos.Customers.Upsert(ctx, &customer); err != nil {
			return err
		}
		return repos.Payments.Upsert(ctx, &payment)
	})
	require.NoError(t, first.Close(ctx))

	second := New(opts)
	require.NoError(t, second.Open(ctx))
	defer second.Close(ctx)

	_, ok := second.GetShop(shop.ID)
	assert.True(t, ok)
	got, ok := second.GetCustomer(customer.ID)
	require.True(t, ok)
	assert.True(t, got.TotalDebt.Equal(decimal.NewFromInt(40)))
	assert.Len(t, second.PaymentsFor(customer.ID), 1)
}

func TestIdempotencyCache(t *testing.T) {
	cache := NewIdempotencyCache()
	ctx := context.Background()

	require.NoError(t, cache.Create(ctx, &entity.IdempotencyKey{Key: "k", Actor: "a", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, cache.Create(ctx, &entity.IdempotencyKey{Key: "old", Actor: "a", ExpiresAt: time.Now().Add(-time.Hour)}))

	got, err := cache.GetByKey(ctx, "k", "a")
	require.NoError(t, err)
	assert.NotNil(t, got)

	expired, err := cache.GetByKey(ctx, "old", "a")
	require.NoError(t, err)
	assert.Nil(t, expired)

	require.NoError(t, cache.DeleteExpired(ctx))
	got, err = cache.GetByKey(ctx, "k", "a")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

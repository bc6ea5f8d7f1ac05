// Package store holds the authoritative in-memory state of every shop,
// product, customer and ledger event.
//
// Entities are kept by value and returned as copies. Writers take the key
// locks they need, mutate the store, then hand a durable write to Persist.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/mirror"
	"go.uber.org/zap"
)

type Options struct {
	// UnitOfWork is the durable store. Nil keeps everything in memory.
	UnitOfWork repository.UnitOfWork
	Mirror     mirror.Config
	Log        *zap.Logger
}

type Store struct {
	log    *zap.Logger
	uow    repository.UnitOfWork
	mirror *mirror.Mirror
	locks  *KeyLocker

	shops          cmap.ConcurrentMap[string, entity.Shop]
	products       cmap.ConcurrentMap[string, entity.Product]
	productsByShop cmap.ConcurrentMap[string, []uuid.UUID]
	customers      cmap.ConcurrentMap[string, entity.Customer]
	sales          cmap.ConcurrentMap[string, []entity.Sale]
	payments       cmap.ConcurrentMap[string, []entity.Payment]
	expenses       cmap.ConcurrentMap[string, []entity.Expense]

	activityMu sync.RWMutex
	activity   []entity.ActivityLog
}

func New(opts Options) *Store {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		log:            log.Named("store"),
		uow:            opts.UnitOfWork,
		locks:          NewKeyLocker(),
		shops:          cmap.New[entity.Shop](),
		products:       cmap.New[entity.Product](),
		productsByShop: cmap.New[[]uuid.UUID](),
		customers:      cmap.New[entity.Customer](),
		sales:          cmap.New[[]entity.Sale](),
		payments:       cmap.New[[]entity.Payment](),
		expenses:       cmap.New[[]entity.Expense](),
	}
	if opts.UnitOfWork != nil {
		s.mirror = mirror.New(opts.UnitOfWork, opts.Mirror, log)
	}
	return s
}

// Open loads the durable store into memory and starts the mirror
func (s *Store) Open(ctx context.Context) error {
	if s.uow == nil {
		return nil
	}
	if err := s.hydrate(ctx, s.uow.Repositories()); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	s.mirror.Start()
	return nil
}

// Close drains pending durable writes within ctx
func (s *Store) Close(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}
	return s.mirror.Close(ctx)
}

// Mirror returns the durable write queue, or nil for a memory-only store
func (s *Store) Mirror() *mirror.Mirror {
	return s.mirror
}

// Lock acquires the given keys in sorted order
func (s *Store) Lock(keys ...string) (unlock func()) {
	return s.locks.Lock(keys...)
}

// Persist queues a durable write. The in-memory state is already committed,
// so a failure here is logged and retried by the mirror, never returned.
func (s *Store) Persist(name string, apply func(ctx context.Context, repos *repository.Repositories) error) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Enqueue(mirror.Job{Name: name, Apply: apply}); err != nil {
		s.log.Error("dropped durable write", zap.String("job", name), zap.Error(err))
	}
}

func (s *Store) hydrate(ctx context.Context, repos *repository.Repositories) error {
	shops, err := repos.Shops.List(ctx)
	if err != nil {
		return err
	}
	for _, sh := range shops {
		s.PutShop(sh)
	}

	products, err := repos.Products.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		s.PutProduct(p)
	}

	customers, err := repos.Customers.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range customers {
		s.PutCustomer(c)
	}

	sales, err := repos.Sales.List(ctx)
	if err != nil {
		return err
	}
	for _, sale := range sales {
		s.AppendSale(sale)
	}

	payments, err := repos.Payments.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range payments {
		s.AppendPayment(p)
	}

	expenses, err := repos.Expenses.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range expenses {
		s.AppendExpense(e)
	}

	entries, err := repos.Activity.List(ctx)
	if err != nil {
		return err
	}
	s.activityMu.Lock()
	s.activity = append(s.activity, entries...)
	s.activityMu.Unlock()

	s.log.Info("state loaded",
		zap.Int("shops", len(shops)),
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("sales", len(sales)),
		zap.Int("payments", len(payments)),
		zap.Int("expenses", len(expenses)),
		zap.Int("activity", len(entries)),
	)
	return nil
}

// Shops

func (s *Store) PutShop(shop entity.Shop) {
	s.shops.Set(shop.ID.String(), shop)
}

func (s *Store) GetShop(id uuid.UUID) (entity.Shop, bool) {
	return s.shops.Get(id.String())
}

// ListShops returns shops in creation order
func (s *Store) ListShops() []entity.Shop {
	shops := make([]entity.Shop, 0, s.shops.Count())
	for _, sh := range s.shops.Items() {
		shops = append(shops, sh)
	}
	sort.Slice(shops, func(i, j int) bool {
		if !shops[i].CreatedAt.Equal(shops[j].CreatedAt) {
			return shops[i].CreatedAt.Before(shops[j].CreatedAt)
		}
		return shops[i].Name < shops[j].Name
	})
	return shops
}

// Products

// PutProduct inserts or replaces a product. A new product is indexed under
// its shop; a product never moves between shops.
func (s *Store) PutProduct(p entity.Product) {
	key := p.ID.String()
	if _, exists := s.products.Get(key); !exists {
		s.productsByShop.Upsert(p.ShopID.String(), nil, func(exist bool, ids, _ []uuid.UUID) []uuid.UUID {
			return append(ids[:len(ids):len(ids)], p.ID)
		})
	}
	s.products.Set(key, p)
}

func (s *Store) GetProduct(id uuid.UUID) (entity.Product, bool) {
	return s.products.Get(id.String())
}

// ListProducts returns products in insertion order, optionally for one shop
func (s *Store) ListProducts(shopID *uuid.UUID) []entity.Product {
	var products []entity.Product
	if shopID != nil {
		ids, _ := s.productsByShop.Get(shopID.String())
		products = make([]entity.Product, 0, len(ids))
		for _, id := range ids {
			if p, ok := s.products.Get(id.String()); ok {
				products = append(products, p)
			}
		}
		return products
	}

	products = make([]entity.Product, 0, s.products.Count())
	for _, p := range s.products.Items() {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Seq < products[j].Seq })
	return products
}

// FindProductByName returns the first product inserted in shopID whose name
// matches exactly
func (s *Store) FindProductByName(shopID uuid.UUID, name string) (entity.Product, bool) {
	ids, _ := s.productsByShop.Get(shopID.String())
	for _, id := range ids {
		if p, ok := s.products.Get(id.String()); ok && p.Name == name {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Customers

func (s *Store) PutCustomer(c entity.Customer) {
	s.customers.Set(c.ID.String(), c)
}

func (s *Store) GetCustomer(id uuid.UUID) (entity.Customer, bool) {
	return s.customers.Get(id.String())
}

// ListCustomers returns customers in insertion order
func (s *Store) ListCustomers() []entity.Customer {
	customers := make([]entity.Customer, 0, s.customers.Count())
	for _, c := range s.customers.Items() {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Seq < customers[j].Seq })
	return customers
}

// Ledger events

func (s *Store) AppendSale(sale entity.Sale) {
	s.sales.Upsert(sale.CustomerID.String(), nil, func(_ bool, old, _ []entity.Sale) []entity.Sale {
		return append(old[:len(old):len(old)], sale)
	})
}

// SalesFor returns a customer's sales in insertion order
func (s *Store) SalesFor(customerID uuid.UUID) []entity.Sale {
	sales, _ := s.sales.Get(customerID.String())
	return append([]entity.Sale(nil), sales...)
}

func (s *Store) AppendPayment(p entity.Payment) {
	s.payments.Upsert(p.CustomerID.String(), nil, func(_ bool, old, _ []entity.Payment) []entity.Payment {
		return append(old[:len(old):len(old)], p)
	})
}

func (s *Store) PaymentsFor(customerID uuid.UUID) []entity.Payment {
	payments, _ := s.payments.Get(customerID.String())
	return append([]entity.Payment(nil), payments...)
}

func (s *Store) AppendExpense(e entity.Expense) {
	s.expenses.Upsert(e.CustomerID.String(), nil, func(_ bool, old, _ []entity.Expense) []entity.Expense {
		return append(old[:len(old):len(old)], e)
	})
}

func (s *Store) ExpensesFor(customerID uuid.UUID) []entity.Expense {
	expenses, _ := s.expenses.Get(customerID.String())
	return append([]entity.Expense(nil), expenses...)
}

// Activity

// AppendActivity adds an entry to the audit trail. Entries are never changed.
func (s *Store) AppendActivity(e entity.ActivityLog) {
	s.activityMu.Lock()
	s.activity = append(s.activity, e)
	s.activityMu.Unlock()
}

// ActivityFilter narrows ListActivity. Nil fields match everything.
type ActivityFilter struct {
	ShopID     *uuid.UUID
	CustomerID *uuid.UUID
}

func (f ActivityFilter) match(e entity.ActivityLog) bool {
	if f.ShopID != nil && !e.InvolvesShop(*f.ShopID) {
		return false
	}
	if f.CustomerID != nil && (e.CustomerID == nil || *e.CustomerID != *f.CustomerID) {
		return false
	}
	return true
}

// ListActivity returns matching entries newest first
func (s *Store) ListActivity(filter ActivityFilter) []entity.ActivityLog {
	s.activityMu.RLock()
	out := make([]entity.ActivityLog, 0, len(s.activity))
	for _, e := range s.activity {
		if filter.match(e) {
			out = append(out, e)
		}
	}
	s.activityMu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

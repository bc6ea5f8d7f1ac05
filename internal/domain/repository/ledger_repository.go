package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
)

// The durable store is a mirror of the in-memory state. Every write is an
// upsert keyed by id so a mirror job can be replayed safely, and every List
// returns rows in insertion order (seq ascending) for hydration.

// ShopRepository defines the interface for shop persistence
type ShopRepository interface {
	Upsert(ctx context.Context, shop *entity.Shop) error
	List(ctx context.Context) ([]entity.Shop, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Upsert(ctx context.Context, product *entity.Product) error
	List(ctx context.Context) ([]entity.Product, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context) ([]entity.Customer, error)
}

// SaleRepository defines the interface for sale persistence. Items are
// written and loaded together with their sale.
type SaleRepository interface {
	Upsert(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context) ([]entity.Sale, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	Upsert(ctx context.Context, payment *entity.Payment) error
	List(ctx context.Context) ([]entity.Payment, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	Upsert(ctx context.Context, expense *entity.Expense) error
	List(ctx context.Context) ([]entity.Expense, error)
}

// ActivityRepository defines the interface for the audit trail.
// Append ignores an entry whose id is already stored.
type ActivityRepository interface {
	Append(ctx context.Context, entry *entity.ActivityLog) error
	List(ctx context.Context) ([]entity.ActivityLog, error)
}

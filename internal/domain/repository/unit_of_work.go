package repository

import "context"

// Repositories groups the repositories bound to one database handle
type Repositories struct {
	Shops       ShopRepository
	Products    ProductRepository
	Customers   CustomerRepository
	Sales       SaleRepository
	Payments    PaymentRepository
	Expenses    ExpenseRepository
	Activity    ActivityRepository
	Idempotency IdempotencyRepository
}

// UnitOfWork runs a group of writes atomically
type UnitOfWork interface {
	// Do runs fn inside one transaction. Returning an error rolls it back.
	Do(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
	// Repositories returns repositories outside of any transaction
	Repositories() *Repositories
}

package repository

import (
	"context"

	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work over db
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

// NewRepositories binds every repository to db
func NewRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Shops:       NewShopRepository(db),
		Products:    NewProductRepository(db),
		Customers:   NewCustomerRepository(db),
		Sales:       NewSaleRepository(db),
		Payments:    NewPaymentRepository(db),
		Expenses:    NewExpenseRepository(db),
		Activity:    NewActivityRepository(db),
		Idempotency: NewIdempotencyRepository(db),
	}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos *domainRepo.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

func (u *unitOfWork) Repositories() *domainRepo.Repositories {
	return NewRepositories(u.db)
}

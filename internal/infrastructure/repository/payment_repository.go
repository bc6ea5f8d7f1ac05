package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Upsert(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Scopes(upsert).Create(payment).Error
}

func (r *paymentRepository) List(ctx context.Context) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).Scopes(InsertionOrder).Find(&payments).Error
	return payments, err
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Upsert(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Scopes(upsert).Create(expense).Error
}

func (r *expenseRepository) List(ctx context.Context) ([]entity.Expense, error) {
	var expenses []entity.Expense
	err := r.db.WithContext(ctx).Scopes(InsertionOrder).Find(&expenses).Error
	return expenses, err
}

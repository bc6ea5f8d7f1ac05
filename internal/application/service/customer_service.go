package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	store *store.Store
	log   *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(st *store.Store, log *zap.Logger) *CustomerService {
	return &CustomerService{store: st, log: log.Named("customers")}
}

// AddCustomerInput represents the add customer input
type AddCustomerInput struct {
	Name        string
	Phone       string
	Type        enum.CustomerType
	CreditLimit *decimal.Decimal
	Actor       string
}

// AddCustomer registers a customer with zero debt
func (s *CustomerService) AddCustomer(ctx context.Context, input *AddCustomerInput) (*entity.Customer, error) {
	var fieldErrors []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	customerType := input.Type
	if customerType == "" {
		customerType = enum.CustomerTypeRetail
	}
	if !customerType.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "type", Message: "Type must be RETAIL or WHOLESALE"})
	}
	if input.CreditLimit != nil && input.CreditLimit.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "credit_limit", Message: "Credit limit cannot be negative"})
	} else if input.CreditLimit != nil && !fitsMoneyScale(*input.CreditLimit) {
		fieldErrors = append(fieldErrors, moneyScaleError("credit_limit", "Credit limit"))
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}

	customer := entity.Customer{
		ID:          uuid.New(),
		Seq:         utils.NextSeq(),
		Name:        name,
		Phone:       strings.TrimSpace(input.Phone),
		Type:        customerType,
		CreditLimit: input.CreditLimit,
		TotalDebt:   decimal.Zero,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}

	unlock := s.store.Lock(store.CustomerKey(customer.ID))
	defer unlock()

	entry := newActivity(enum.ActivityAddCustomer, fmt.Sprintf("Added customer %s", customer.Name), input.Actor, nil, &customer.ID)
	s.store.PutCustomer(customer)
	s.store.AppendActivity(entry)
	s.store.Persist("add customer", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Customers.Upsert(ctx, &customer); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	return &customer, nil
}

// UpdateCustomerInput represents the update customer input. Nil fields are
// left unchanged. Debt cannot be edited directly.
type UpdateCustomerInput struct {
	ID               uuid.UUID
	Name             *string
	Phone            *string
	Type             *enum.CustomerType
	CreditLimit      *decimal.Decimal
	ClearCreditLimit bool
	Actor            string
}

// UpdateCustomer changes a customer's contact details, type or credit limit
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	unlock := s.store.Lock(store.CustomerKey(input.ID))
	defer unlock()

	customer, ok := s.store.GetCustomer(input.ID)
	if !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", input.ID))
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, apperror.NewFieldError("type", "Type must be RETAIL or WHOLESALE")
		}
		customer.Type = *input.Type
	}
	if input.ClearCreditLimit {
		customer.CreditLimit = nil
	} else if input.CreditLimit != nil {
		if input.CreditLimit.IsNegative() {
			return nil, apperror.NewFieldError("credit_limit", "Credit limit cannot be negative")
		}
		if !fitsMoneyScale(*input.CreditLimit) {
			return nil, apperror.NewValidationError(moneyScaleError("credit_limit", "Credit limit"))
		}
		limit := *input.CreditLimit
		customer.CreditLimit = &limit
	}
	customer.UpdatedAt = now()

	entry := newActivity(enum.ActivityUpdateCustomer, fmt.Sprintf("Updated customer %s", customer.Name), input.Actor, nil, &customer.ID)
	s.store.PutCustomer(customer)
	s.store.AppendActivity(entry)
	s.store.Persist("update customer", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Customers.Upsert(ctx, &customer); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	return &customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(id uuid.UUID) (*entity.Customer, error) {
	customer, ok := s.store.GetCustomer(id)
	if !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", id))
	}
	return &customer, nil
}

// ListCustomers returns customers in the order they were added, optionally
// filtered by a case-insensitive search on name or phone
func (s *CustomerService) ListCustomers(search string) []entity.Customer {
	customers := s.store.ListCustomers()
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return customers
	}
	filtered := customers[:0]
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), search) || strings.Contains(c.Phone, search) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

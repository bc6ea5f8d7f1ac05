package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/ledger"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService records sales, payments and expenses and keeps each
// customer's cached debt in step with them
type LedgerService struct {
	store            *store.Store
	log              *zap.Logger
	enforceSaleStock bool
}

// NewLedgerService creates a new ledger service. With enforceSaleStock set,
// a sale that would drive stock below zero fails with InsufficientStock.
func NewLedgerService(st *store.Store, log *zap.Logger, enforceSaleStock bool) *LedgerService {
	return &LedgerService{
		store:            st,
		log:              log.Named("ledger"),
		enforceSaleStock: enforceSaleStock,
	}
}

// ComputeStatement replays a customer's events. An unknown customer gets an
// empty statement.
func (s *LedgerService) ComputeStatement(customerID uuid.UUID) *ledger.Statement {
	unlock := s.store.Lock(store.CustomerKey(customerID))
	defer unlock()

	if _, ok := s.store.GetCustomer(customerID); !ok {
		return ledger.Empty(customerID)
	}
	return s.statement(customerID)
}

func (s *LedgerService) statement(customerID uuid.UUID) *ledger.Statement {
	return ledger.Compute(
		customerID,
		s.store.SalesFor(customerID),
		s.store.PaymentsFor(customerID),
		s.store.ExpensesFor(customerID),
	)
}

// Verify compares a customer's cached debt with a replay of their events
func (s *LedgerService) Verify(customerID uuid.UUID) (*ledger.Report, error) {
	unlock := s.store.Lock(store.CustomerKey(customerID))
	defer unlock()

	customer, ok := s.store.GetCustomer(customerID)
	if !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", customerID))
	}
	report := ledger.Verify(customer.TotalDebt, s.statement(customerID))
	return &report, nil
}

// VerifyAll verifies every customer and returns the reports in customer order
func (s *LedgerService) VerifyAll() []ledger.Report {
	customers := s.store.ListCustomers()
	reports := make([]ledger.Report, 0, len(customers))
	for _, c := range customers {
		report, err := s.Verify(c.ID)
		if err != nil {
			continue
		}
		if !report.Consistent {
			s.log.Warn("cached debt does not match replay",
				zap.String("customer_id", c.ID.String()),
				zap.String("cached", report.CachedDebt.String()),
				zap.String("replayed", report.FlooredBalance.String()),
			)
		}
		reports = append(reports, *report)
	}
	return reports
}

// SaleItemInput represents an item in a sale. A nil UnitPrice uses the
// product's price for the customer's type.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	Items      []SaleItemInput
	PaidAmount decimal.Decimal
	Date       *time.Time
	Actor      string
}

// CreateSale records a sale, decrements stock for each line and adds the
// unpaid balance to the customer's debt. Nothing is applied unless every
// check passes.
func (s *LedgerService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	var fieldErrors []apperror.FieldError
	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "At least one item is required"})
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be greater than zero"})
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "Unit price cannot be negative"})
		} else if item.UnitPrice != nil && !fitsMoneyScale(*item.UnitPrice) {
			fieldErrors = append(fieldErrors, moneyScaleError(fmt.Sprintf("items[%d].unit_price", i), "Unit price"))
		}
	}
	if input.PaidAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "paid_amount", Message: "Paid amount cannot be negative"})
	} else if !fitsMoneyScale(input.PaidAmount) {
		fieldErrors = append(fieldErrors, moneyScaleError("paid_amount", "Paid amount"))
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}

	shop, ok := s.store.GetShop(input.ShopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", input.ShopID))
	}

	keys := []string{store.CustomerKey(input.CustomerID)}
	for _, item := range input.Items {
		keys = append(keys, store.ProductKey(item.ProductID))
	}
	unlock := s.store.Lock(keys...)
	defer unlock()

	customer, ok := s.store.GetCustomer(input.CustomerID)
	if !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", input.CustomerID))
	}

	products := make(map[uuid.UUID]entity.Product, len(input.Items))
	sold := make(map[uuid.UUID]int, len(input.Items))
	items := make([]entity.SaleItem, 0, len(input.Items))
	total := decimal.Zero

	for i, item := range input.Items {
		product, ok := s.store.GetProduct(item.ProductID)
		if !ok || product.ShopID != shop.ID {
			return nil, apperror.NewProductNotFound(fmt.Sprintf("Product %s not found in shop %s", item.ProductID, shop.Name))
		}
		products[product.ID] = product
		sold[product.ID] += item.Quantity

		price := unitPrice(product, customer.Type)
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, entity.SaleItem{
			ID:        uuid.New(),
			Line:      i + 1,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Total:     lineTotal,
		})
	}

	if s.enforceSaleStock {
		var short []string
		for id, qty := range sold {
			if p := products[id]; p.Stock < qty {
				short = append(short, fmt.Sprintf("%s (available %d, requested %d)", p.Name, p.Stock, qty))
			}
		}
		if len(short) > 0 {
			sort.Strings(short)
			return nil, apperror.NewInsufficientStock("Insufficient stock: " + strings.Join(short, ", "))
		}
	}

	date := now()
	if input.Date != nil {
		date = input.Date.UTC()
	}
	balance := total.Sub(input.PaidAmount)
	sale := entity.Sale{
		ID:          uuid.New(),
		Seq:         utils.NextSeq(),
		InvoiceNo:   utils.GenerateInvoiceNo("INV"),
		ShopID:      shop.ID,
		CustomerID:  customer.ID,
		Date:        date,
		TotalAmount: total,
		PaidAmount:  input.PaidAmount,
		Balance:     balance,
		Status:      enum.ClassifySale(total, input.PaidAmount),
		PerformedBy: actorOrDefault(input.Actor),
		CreatedAt:   now(),
		Items:       items,
	}
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}

	updated := make([]entity.Product, 0, len(sold))
	for id, qty := range sold {
		p := products[id]
		p.Stock -= qty
		p.UpdatedAt = now()
		updated = append(updated, p)
	}
	sort.Slice(updated, func(i, j int) bool { return updated[i].Seq < updated[j].Seq })

	customer.TotalDebt = customer.TotalDebt.Add(balance)
	customer.UpdatedAt = now()

	entry := newActivity(enum.ActivityCreateSale,
		fmt.Sprintf("Sale %s to %s: total %s, paid %s", sale.InvoiceNo, customer.Name, total.StringFixed(2), input.PaidAmount.StringFixed(2)),
		input.Actor, &shop, &customer.ID)

	for _, p := range updated {
		s.store.PutProduct(p)
		if p.Stock < 0 {
			s.log.Warn("sale drove stock negative", zap.String("product", p.Name), zap.Int("stock", p.Stock))
		}
	}
	s.store.PutCustomer(customer)
	s.store.AppendSale(sale)
	s.store.AppendActivity(entry)
	s.store.Persist("create sale "+sale.InvoiceNo, func(ctx context.Context, repos *repository.Repositories) error {
		for i := range updated {
			if err := repos.Products.Upsert(ctx, &updated[i]); err != nil {
				return err
			}
		}
		if err := repos.Customers.Upsert(ctx, &customer); err != nil {
			return err
		}
		if err := repos.Sales.Upsert(ctx, &sale); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	return &sale, nil
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	CustomerID uuid.UUID
	ShopID     uuid.UUID
	Amount     decimal.Decimal
	Date       *time.Time
	Actor      string
}

// RecordPayment reduces a customer's debt. A payment never takes debt below
// zero and the overpaid part is not carried as credit. Credit already held
// from an overpaid sale is left as it is.
func (s *LedgerService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Customer, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "Amount must be greater than zero")
	}
	if !fitsMoneyScale(input.Amount) {
		return nil, apperror.NewValidationError(moneyScaleError("amount", "Amount"))
	}
	shop, ok := s.store.GetShop(input.ShopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", input.ShopID))
	}

	unlock := s.store.Lock(store.CustomerKey(input.CustomerID))
	defer unlock()

	customer, ok := s.store.GetCustomer(input.CustomerID)
	if !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", input.CustomerID))
	}

	date := now()
	if input.Date != nil {
		date = input.Date.UTC()
	}
	payment := entity.Payment{
		ID:          uuid.New(),
		Seq:         utils.NextSeq(),
		ShopID:      shop.ID,
		CustomerID:  customer.ID,
		Amount:      input.Amount,
		Date:        date,
		PerformedBy: actorOrDefault(input.Actor),
		CreatedAt:   now(),
	}

	debt := customer.TotalDebt.Sub(input.Amount)
	if debt.IsNegative() {
		s.log.Info("payment exceeds debt, flooring at zero",
			zap.String("customer_id", customer.ID.String()),
			zap.String("overpaid", debt.Neg().String()),
		)
		debt = decimal.Min(customer.TotalDebt, decimal.Zero)
	}
	customer.TotalDebt = debt
	customer.UpdatedAt = now()

	entry := newActivity(enum.ActivityRecordPayment,
		fmt.Sprintf("Payment of %s from %s", input.Amount.StringFixed(2), customer.Name),
		input.Actor, &shop, &customer.ID)

	s.store.PutCustomer(customer)
	s.store.AppendPayment(payment)
	s.store.AppendActivity(entry)
	s.store.Persist("record payment", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Customers.Upsert(ctx, &customer); err != nil {
			return err
		}
		if err := repos.Payments.Upsert(ctx, &payment); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	return &customer, nil
}

// RecordExpenseInput represents the record expense input
type RecordExpenseInput struct {
	CustomerID  uuid.UUID
	ShopID      uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        *time.Time
	Actor       string
}

// RecordExpense adds a charge unrelated to a sale to the customer's debt
func (s *LedgerService) RecordExpense(ctx context.Context, input *RecordExpenseInput) (*entity.Customer, error) {
	var fieldErrors []apperror.FieldError
	description := strings.TrimSpace(input.Description)
	if description == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "description", Message: "Description is required"})
	}
	if !input.Amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Amount must be greater than zero"})
	} else if !fitsMoneyScale(input.Amount) {
		fieldErrors = append(fieldErrors, moneyScaleError("amount", "Amount"))
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}
	shop, ok := s.store.GetShop(input.ShopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", input.ShopID))
	}

	unlock := s.store.Lock(store.CustomerKey(input.CustomerID))
	defer unlock()

	customer, ok := s.store.GetCustomer(input.CustomerID)
	if !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", input.CustomerID))
	}

	date := now()
	if input.Date != nil {
		date = input.Date.UTC()
	}
	expense := entity.Expense{
		ID:          uuid.New(),
		Seq:         utils.NextSeq(),
		ShopID:      shop.ID,
		CustomerID:  customer.ID,
		Description: description,
		Amount:      input.Amount,
		Date:        date,
		PerformedBy: actorOrDefault(input.Actor),
		CreatedAt:   now(),
	}
	customer.TotalDebt = customer.TotalDebt.Add(input.Amount)
	customer.UpdatedAt = now()

	entry := newActivity(enum.ActivityRecordExpense,
		fmt.Sprintf("Expense %q of %s for %s", description, input.Amount.StringFixed(2), customer.Name),
		input.Actor, &shop, &customer.ID)

	s.store.PutCustomer(customer)
	s.store.AppendExpense(expense)
	s.store.AppendActivity(entry)
	s.store.Persist("record expense", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Customers.Upsert(ctx, &customer); err != nil {
			return err
		}
		if err := repos.Expenses.Upsert(ctx, &expense); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	return &customer, nil
}

// ListSales returns a customer's sales newest first
func (s *LedgerService) ListSales(customerID uuid.UUID) ([]entity.Sale, error) {
	if _, ok := s.store.GetCustomer(customerID); !ok {
		return nil, apperror.NewCustomerNotFound(fmt.Sprintf("Customer %s not found", customerID))
	}
	sales := s.store.SalesFor(customerID)
	sort.SliceStable(sales, func(i, j int) bool {
		if !sales[i].Date.Equal(sales[j].Date) {
			return sales[i].Date.After(sales[j].Date)
		}
		return sales[i].Seq > sales[j].Seq
	})
	return sales, nil
}

func unitPrice(p entity.Product, customerType enum.CustomerType) decimal.Decimal {
	if customerType == enum.CustomerTypeWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

func actorOrDefault(actor string) string {
	if actor == "" {
		return DefaultActor
	}
	return actor
}

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

// InventoryService handles products and stock movements between shops
type InventoryService struct {
	store *store.Store
	log   *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(st *store.Store, log *zap.Logger) *InventoryService {
	return &InventoryService{store: st, log: log.Named("inventory")}
}

// ListProducts returns products in insertion order, optionally for one shop
func (s *InventoryService) ListProducts(shopID *uuid.UUID) []entity.Product {
	return s.store.ListProducts(shopID)
}

// AddProductInput represents the add product input. A nil WholesalePrice
// falls back to RetailPrice.
type AddProductInput struct {
	ShopID         uuid.UUID
	Name           string
	Category       string
	RetailPrice    decimal.Decimal
	WholesalePrice *decimal.Decimal
	Stock          int
	Description    *string
	Actor          string
}

func (in *AddProductInput) validate() error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if in.RetailPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "retail_price", Message: "Retail price cannot be negative"})
	} else if !fitsMoneyScale(in.RetailPrice) {
		fieldErrors = append(fieldErrors, moneyScaleError("retail_price", "Retail price"))
	}
	if in.WholesalePrice != nil && in.WholesalePrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "wholesale_price", Message: "Wholesale price cannot be negative"})
	} else if in.WholesalePrice != nil && !fitsMoneyScale(*in.WholesalePrice) {
		fieldErrors = append(fieldErrors, moneyScaleError("wholesale_price", "Wholesale price"))
	}
	if in.Stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "Stock cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors...)
	}
	return nil
}

func (in *AddProductInput) product() entity.Product {
	wholesale := in.RetailPrice
	if in.WholesalePrice != nil {
		wholesale = *in.WholesalePrice
	}
	return entity.Product{
		ID:             uuid.New(),
		ShopID:         in.ShopID,
		Seq:            utils.NextSeq(),
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		RetailPrice:    in.RetailPrice,
		WholesalePrice: wholesale,
		Stock:          in.Stock,
		Description:    in.Description,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}
}

// AddProduct creates a product in a shop
func (s *InventoryService) AddProduct(ctx context.Context, input *AddProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	shop, ok := s.store.GetShop(input.ShopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", input.ShopID))
	}

	product := input.product()
	unlock := s.store.Lock(store.StockKey(shop.ID, product.Name))
	defer unlock()

	entry := newActivity(enum.ActivityAddProduct,
		fmt.Sprintf("Added product %s (stock %d)", product.Name, product.Stock),
		input.Actor, &shop, nil)

	s.store.PutProduct(product)
	s.store.AppendActivity(entry)
	s.store.Persist("add product", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Products.Upsert(ctx, &product); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	return &product, nil
}

// UpdateProductInput represents the update product input. Nil fields are left
// unchanged.
type UpdateProductInput struct {
	ID             uuid.UUID
	Name           *string
	Category       *string
	RetailPrice    *decimal.Decimal
	WholesalePrice *decimal.Decimal
	Stock          *int
	Description    *string
	Actor          string
}

func (in *UpdateProductInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if in.RetailPrice != nil && in.RetailPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "retail_price", Message: "Retail price cannot be negative"})
	} else if in.RetailPrice != nil && !fitsMoneyScale(*in.RetailPrice) {
		fieldErrors = append(fieldErrors, moneyScaleError("retail_price", "Retail price"))
	}
	if in.WholesalePrice != nil && in.WholesalePrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "wholesale_price", Message: "Wholesale price cannot be negative"})
	} else if in.WholesalePrice != nil && !fitsMoneyScale(*in.WholesalePrice) {
		fieldErrors = append(fieldErrors, moneyScaleError("wholesale_price", "Wholesale price"))
	}
	if in.Stock != nil && *in.Stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "Stock cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors...)
	}
	return nil
}

// UpdateProduct edits a product. A rename holds the stock keys of both names
// so a concurrent transfer never sees a half-renamed product.
func (s *InventoryService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	for {
		seen, ok := s.store.GetProduct(input.ID)
		if !ok {
			return nil, apperror.NewProductNotFound(fmt.Sprintf("Product %s not found", input.ID))
		}
		newName := seen.Name
		if input.Name != nil {
			newName = strings.TrimSpace(*input.Name)
		}

		unlockNames := s.store.Lock(store.StockKey(seen.ShopID, seen.Name), store.StockKey(seen.ShopID, newName))
		unlockProduct := s.store.Lock(store.ProductKey(seen.ID))

		product, _ := s.store.GetProduct(input.ID)
		if product.Name != seen.Name {
			// renamed between the read and the lock
			unlockProduct()
			unlockNames()
			continue
		}

		updated := s.applyUpdate(product, newName, input)
		unlockProduct()
		unlockNames()
		return updated, nil
	}
}

func (s *InventoryService) applyUpdate(product entity.Product, name string, input *UpdateProductInput) *entity.Product {
	product.Name = name
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.RetailPrice != nil {
		product.RetailPrice = *input.RetailPrice
	}
	if input.WholesalePrice != nil {
		product.WholesalePrice = *input.WholesalePrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Description != nil {
		description := *input.Description
		product.Description = &description
	}
	product.UpdatedAt = now()

	var shop *entity.Shop
	if sh, ok := s.store.GetShop(product.ShopID); ok {
		shop = &sh
	}
	entry := newActivity(enum.ActivityUpdateProduct,
		fmt.Sprintf("Updated product %s (stock %d)", product.Name, product.Stock),
		input.Actor, shop, nil)

	s.store.PutProduct(product)
	s.store.AppendActivity(entry)
	s.store.Persist("update product", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Products.Upsert(ctx, &product); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})
	return &product
}

// TransferStockInput represents the transfer stock input
type TransferStockInput struct {
	ProductName string
	FromShopID  uuid.UUID
	ToShopID    uuid.UUID
	Quantity    int
	Actor       string
}

// TransferResult holds both product records after a transfer
type TransferResult struct {
	Source      entity.Product `json:"source"`
	Destination entity.Product `json:"destination"`
	Created     bool           `json:"created"`
}

// TransferStock moves quantity units of the product named ProductName from
// one shop to another. Products are matched by exact name. When the
// destination shop has no such product, a copy of the source is created
// holding the transferred units. The transfer either fully applies or leaves
// both shops untouched.
func (s *InventoryService) TransferStock(ctx context.Context, input *TransferStockInput) (*TransferResult, error) {
	var fieldErrors []apperror.FieldError
	if input.ProductName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_name", Message: "Product name is required"})
	}
	if input.Quantity <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "Quantity must be greater than zero"})
	}
	if input.FromShopID == input.ToShopID {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "to_shop_id", Message: "Source and destination shops must differ"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}

	from, ok := s.store.GetShop(input.FromShopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", input.FromShopID))
	}
	to, ok := s.store.GetShop(input.ToShopID)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", input.ToShopID))
	}

	unlockNames := s.store.Lock(
		store.StockKey(from.ID, input.ProductName),
		store.StockKey(to.ID, input.ProductName),
	)
	defer unlockNames()

	source, ok := s.store.FindProductByName(from.ID, input.ProductName)
	if !ok {
		return nil, apperror.NewProductNotFound(fmt.Sprintf("Product %q not found in shop %s", input.ProductName, from.Name))
	}
	destination, found := s.store.FindProductByName(to.ID, input.ProductName)

	keys := []string{store.ProductKey(source.ID)}
	if found {
		keys = append(keys, store.ProductKey(destination.ID))
	}
	unlockProducts := s.store.Lock(keys...)
	defer unlockProducts()

	// stock may have moved through a sale since the name lookup
	source, _ = s.store.GetProduct(source.ID)
	if found {
		destination, _ = s.store.GetProduct(destination.ID)
	}

	if input.Quantity > source.Stock {
		return nil, apperror.NewInsufficientStock(fmt.Sprintf(
			"Insufficient stock for %s in %s: available %d, requested %d",
			source.Name, from.Name, source.Stock, input.Quantity))
	}

	source.Stock -= input.Quantity
	source.UpdatedAt = now()

	if found {
		destination.Stock += input.Quantity
		destination.UpdatedAt = now()
	} else {
		destination = source
		destination.ID = uuid.New()
		destination.ShopID = to.ID
		destination.Seq = utils.NextSeq()
		destination.Stock = input.Quantity
		destination.CreatedAt = now()
		destination.UpdatedAt = now()
	}

	entry := newActivity(enum.ActivityTransferProduct,
		fmt.Sprintf("Transferred %d x %s from %s to %s", input.Quantity, source.Name, from.Name, to.Name),
		input.Actor, &from, nil)
	toID := to.ID
	entry.RelatedShopID = &toID

	s.store.PutProduct(source)
	s.store.PutProduct(destination)
	s.store.AppendActivity(entry)
	s.store.Persist("transfer stock", func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Products.Upsert(ctx, &source); err != nil {
			return err
		}
		if err := repos.Products.Upsert(ctx, &destination); err != nil {
			return err
		}
		return repos.Activity.Append(ctx, &entry)
	})

	s.log.Debug("stock transferred",
		zap.String("product", source.Name),
		zap.String("from", from.Name),
		zap.String("to", to.Name),
		zap.Int("quantity", input.Quantity),
		zap.Bool("created", !found),
	)

	return &TransferResult{Source: source, Destination: destination, Created: !found}, nil
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles sales, payments and expenses
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// CreateSale handles recording a sale
func (h *LedgerHandler) CreateSale(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	sale, err := h.ledgerService.CreateSale(c.Request.Context(), &service.CreateSaleInput{
		ShopID:     req.ShopID,
		CustomerID: req.CustomerID,
		Items:      items,
		PaidAmount: req.PaidAmount,
		Date:       req.Date,
		Actor:      GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// RecordPayment handles a payment against a customer's debt
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.ledgerService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		CustomerID: req.CustomerID,
		ShopID:     req.ShopID,
		Amount:     req.Amount,
		Date:       req.Date,
		Actor:      GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", customer)
}

// RecordExpense handles a charge added to a customer's debt
func (h *LedgerHandler) RecordExpense(c *gin.Context) {
	var req request.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.ledgerService.RecordExpense(c.Request.Context(), &service.RecordExpenseInput{
		CustomerID:  req.CustomerID,
		ShopID:      req.ShopID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		Actor:       GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense recorded successfully", customer)
}

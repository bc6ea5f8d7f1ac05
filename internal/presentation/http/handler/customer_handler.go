package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	ledgerService   *service.LedgerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, ledgerService *service.LedgerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, ledgerService: ledgerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers := h.customerService.ListCustomers(c.Query("search"))
	response.OK(c, "Customers retrieved successfully", customers)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.AddCustomer(c.Request.Context(), &service.AddCustomerInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Type:        req.Type,
		CreditLimit: req.CreditLimit,
		Actor:       GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:               id,
		Name:             req.Name,
		Phone:            req.Phone,
		Type:             req.Type,
		CreditLimit:      req.CreditLimit,
		ClearCreditLimit: req.ClearCreditLimit,
		Actor:            GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Statement handles computing a customer's chronological statement. An
// unknown customer yields an empty statement.
func (h *CustomerHandler) Statement(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	response.OK(c, "Statement computed successfully", h.ledgerService.ComputeStatement(id))
}

// Verify handles comparing the cached debt with the statement replay
func (h *CustomerHandler) Verify(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	report, err := h.ledgerService.Verify(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer ledger verified", report)
}

// Sales handles listing a customer's sales
func (h *CustomerHandler) Sales(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	sales, err := h.ledgerService.ListSales(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales retrieved successfully", sales)
}

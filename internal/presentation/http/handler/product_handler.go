package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/utils"
)

const maxImportSize = 10 << 20

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	inventoryService *service.InventoryService
}

// NewProductHandler creates a new product handler
func NewProductHandler(inventoryService *service.InventoryService) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService}
}

// List handles listing products, optionally for one shop
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	shopID, err := utils.ParseOptionalUUID(filter.ShopID)
	if err != nil {
		response.BadRequest(c, "Invalid shop ID")
		return
	}

	response.OK(c, "Products retrieved successfully", h.inventoryService.ListProducts(shopID))
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.inventoryService.AddProduct(c.Request.Context(), &service.AddProductInput{
		ShopID:         req.ShopID,
		Name:           req.Name,
		Category:       req.Category,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		Stock:          req.Stock,
		Description:    req.Description,
		Actor:          GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		ID:             id,
		Name:           req.Name,
		Category:       req.Category,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		Stock:          req.Stock,
		Description:    req.Description,
		Actor:          GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Transfer handles moving stock between shops
func (h *ProductHandler) Transfer(c *gin.Context) {
	var req request.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.inventoryService.TransferStock(c.Request.Context(), &service.TransferStockInput{
		ProductName: req.ProductName,
		FromShopID:  req.FromShopID,
		ToShopID:    req.ToShopID,
		Quantity:    req.Quantity,
		Actor:       GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock transferred successfully", result)
}

// Import handles bulk product import. The rows come from a multipart "file"
// (.csv, .txt or .xlsx) or from a plain text body.
func (h *ProductHandler) Import(c *gin.Context) {
	shopID, ok := queryUUID(c, "shop_id")
	if !ok || shopID == nil {
		response.BadRequest(c, "A valid shop_id is required")
		return
	}

	rows, err := h.readImportRows(c)
	if err != nil {
		response.BadRequest(c, "Failed to read import data: "+err.Error())
		return
	}

	result, err := h.inventoryService.ImportProducts(c.Request.Context(), *shopID, rows, GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products imported", result)
}

func (h *ProductHandler) readImportRows(c *gin.Context) ([]service.ImportProductRow, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()

		reader := io.LimitReader(file, maxImportSize)
		if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
			return service.ParseXLSX(reader)
		}
		return service.ParseDelimited(reader)
	}

	return service.ParseDelimited(io.LimitReader(c.Request.Body, maxImportSize))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/sangkips/shopledger-api/pkg/utils"
)

// ActivityHandler serves the audit trail
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List handles listing activity newest first, filtered by shop or customer
func (h *ActivityHandler) List(c *gin.Context) {
	var filter request.ActivityFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	shopID, err := utils.ParseOptionalUUID(filter.ShopID)
	if err != nil {
		response.BadRequest(c, "Invalid shop ID")
		return
	}
	customerID, err := utils.ParseOptionalUUID(filter.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	entries := h.activityService.ListActivity(service.ListActivityInput{
		ShopID:     shopID,
		CustomerID: customerID,
	})
	result := pagination.Paginate(entries, &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})

	response.SuccessWithPagination(c, http.StatusOK, "Activity retrieved successfully", result)
}

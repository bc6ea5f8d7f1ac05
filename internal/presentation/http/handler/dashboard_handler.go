package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	shopID, ok := queryUUID(c, "shop_id")
	if !ok {
		response.BadRequest(c, "Invalid shop ID")
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	lowStock, _ := strconv.Atoi(c.Query("low_stock"))

	stats := h.dashboardService.GetDashboardStats(service.DashboardInput{
		ShopID:            shopID,
		Days:              days,
		LowStockThreshold: lowStock,
	})

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

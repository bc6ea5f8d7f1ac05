package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the stock level at or below which a product is
// reported as low
const DefaultLowStockThreshold = 5

// DashboardService summarises debt, stock and sales across shops
type DashboardService struct {
	store  *store.Store
	ledger *LedgerService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(st *store.Store, ledger *LedgerService) *DashboardService {
	return &DashboardService{store: st, ledger: ledger}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers  int                `json:"total_customers"`
	TotalProducts   int                `json:"total_products"`
	TotalDebt       decimal.Decimal    `json:"total_debt"`
	OverCreditLimit int                `json:"over_credit_limit"`
	LowStockCount   int                `json:"low_stock_count"`
	SalesToday      int                `json:"sales_today"`
	RevenueToday    decimal.Decimal    `json:"revenue_today"`
	SalesByStatus   map[string]int     `json:"sales_by_status"`
	ShopBalances    []ShopBalancePoint `json:"shop_balances"`
	DailySalesData  []DailySalesPoint  `json:"daily_sales_data"`
	TopDebtors      []DebtorPoint      `json:"top_debtors"`
}

// ShopBalancePoint is the outstanding balance attributed to one shop
type ShopBalancePoint struct {
	ShopID   uuid.UUID       `json:"shop_id"`
	ShopName string          `json:"shop_name"`
	Balance  decimal.Decimal `json:"balance"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Credit  decimal.Decimal `json:"credit"`
}

// DebtorPoint is a customer with outstanding debt
type DebtorPoint struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	TotalDebt  decimal.Decimal `json:"total_debt"`
}

// DashboardInput scopes the sales figures to one shop. Days bounds the daily
// series, counting today.
type DashboardInput struct {
	ShopID            *uuid.UUID
	Days              int
	LowStockThreshold int
	TopDebtors        int
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(input DashboardInput) *DashboardStats {
	if input.Days <= 0 {
		input.Days = 7
	}
	if input.LowStockThreshold <= 0 {
		input.LowStockThreshold = DefaultLowStockThreshold
	}
	if input.TopDebtors <= 0 {
		input.TopDebtors = 5
	}

	stats := &DashboardStats{
		TotalDebt:    decimal.Zero,
		RevenueToday: decimal.Zero,
		SalesByStatus: map[string]int{
			string(enum.SaleStatusPaid):    0,
			string(enum.SaleStatusPartial): 0,
			string(enum.SaleStatusUnpaid):  0,
		},
	}

	products := s.store.ListProducts(input.ShopID)
	stats.TotalProducts = len(products)
	for _, p := range products {
		if p.Stock <= input.LowStockThreshold {
			stats.LowStockCount++
		}
	}

	today := now().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(input.Days - 1))
	daily := make([]DailySalesPoint, input.Days)
	for i := range daily {
		daily[i] = DailySalesPoint{
			Date:    from.AddDate(0, 0, i).Format("2006-01-02"),
			Revenue: decimal.Zero,
			Credit:  decimal.Zero,
		}
	}

	shopBalances := make(map[uuid.UUID]decimal.Decimal)
	customers := s.store.ListCustomers()
	stats.TotalCustomers = len(customers)

	for _, c := range customers {
		stats.TotalDebt = stats.TotalDebt.Add(c.TotalDebt)
		if c.OverCreditLimit() {
			stats.OverCreditLimit++
		}
		if c.TotalDebt.IsPositive() {
			stats.TopDebtors = insertDebtor(stats.TopDebtors, DebtorPoint{
				CustomerID: c.ID,
				Name:       c.Name,
				TotalDebt:  c.TotalDebt,
			}, input.TopDebtors)
		}

		for shopID, bal := range s.ledger.ComputeStatement(c.ID).ShopBalances {
			shopBalances[shopID] = shopBalances[shopID].Add(bal)
		}

		for _, sale := range s.store.SalesFor(c.ID) {
			if input.ShopID != nil && sale.ShopID != *input.ShopID {
				continue
			}
			stats.SalesByStatus[string(sale.Status)]++
			day := sale.Date.UTC().Truncate(24 * time.Hour)
			if day.Equal(today) {
				stats.SalesToday++
				stats.RevenueToday = stats.RevenueToday.Add(sale.TotalAmount)
			}
			if !day.Before(from) && !day.After(today) {
				idx := int(day.Sub(from).Hours() / 24)
				daily[idx].Revenue = daily[idx].Revenue.Add(sale.TotalAmount)
				daily[idx].Credit = daily[idx].Credit.Add(sale.Balance)
			}
		}
	}
	stats.DailySalesData = daily

	for _, shop := range s.store.ListShops() {
		if input.ShopID != nil && shop.ID != *input.ShopID {
			continue
		}
		bal, ok := shopBalances[shop.ID]
		if !ok {
			bal = decimal.Zero
		}
		stats.ShopBalances = append(stats.ShopBalances, ShopBalancePoint{
			ShopID:   shop.ID,
			ShopName: shop.Name,
			Balance:  bal,
		})
	}

	return stats
}

// insertDebtor keeps list sorted by debt descending and at most limit long
func insertDebtor(list []DebtorPoint, d DebtorPoint, limit int) []DebtorPoint {
	i := len(list)
	for i > 0 && list[i-1].TotalDebt.LessThan(d.TotalDebt) {
		i--
	}
	if i >= limit {
		return list
	}
	list = append(list, DebtorPoint{})
	copy(list[i+1:], list[i:])
	list[i] = d
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

package models

import "github.com/shopspring/decimal"

// LowStockThreshold is the stock level below which a product is flagged.
const LowStockThreshold = 10

// DashboardStats are the admin overview counters.
type DashboardStats struct {
	Products       int                 `json:"products"`
	ActiveProducts int                 `json:"activeProducts"`
	LowStock       int                 `json:"lowStock"`
	Categories     int                 `json:"categories"`
	Orders         map[OrderStatus]int `json:"orders"`
	// Revenue sums totalAmount over every order that was not cancelled.
	Revenue float64 `json:"revenue"`
}

// ComputeDashboard derives the counters from in-memory collections.
func ComputeDashboard(products []Product, categories []Category, orders []Order) DashboardStats {
	stats := DashboardStats{
		Products:   len(products),
		Categories: len(categories),
		Orders:     map[OrderStatus]int{},
	}
	for _, p := range products {
		if p.IsActive() {
			stats.ActiveProducts++
		}
		if p.Stock < LowStockThreshold {
			stats.LowStock++
		}
	}
	revenue := decimal.Zero
	for _, o := range orders {
		stats.Orders[o.Status]++
		if o.Status != StatusCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}
	stats.Revenue = revenue.Round(2).InexactFloat64()
	return stats
}

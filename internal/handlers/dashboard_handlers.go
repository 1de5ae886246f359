package handlers

import (
	"net/http"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Admin Dashboard Stats ---
//

// GetDashboard returns the admin overview counters.
// GET /api/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	stats := models.DashboardStats{Orders: map[models.OrderStatus]int{}}

	// 1. Catalog Counts
	err := h.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&stats.Products)
	if err != nil {
		h.internalError(c, "Failed to count products", err)
		return
	}
	err = h.DB.QueryRow("SELECT COUNT(*) FROM products WHERE active IS NULL OR active = ?", true).Scan(&stats.ActiveProducts)
	if err != nil {
		h.internalError(c, "Failed to count active products", err)
		return
	}
	err = h.DB.QueryRow("SELECT COUNT(*) FROM categories").Scan(&stats.Categories)
	if err != nil {
		h.internalError(c, "Failed to count categories", err)
		return
	}

	// 2. Low Stock Count
	err = h.DB.QueryRow("SELECT COUNT(*) FROM products WHERE stock < ?", models.LowStockThreshold).Scan(&stats.LowStock)
	if err != nil {
		h.internalError(c, "Failed to count low stock", err)
		return
	}

	// 3. Orders per Status
	rows, err := h.DB.Query("SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		h.internalError(c, "Failed to count orders", err)
		return
	}
	for rows.Next() {
		var (
			status models.OrderStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			h.internalError(c, "Failed to count orders", err)
			return
		}
		stats.Orders[status] = n
	}
	rows.Close()

	// 4. Revenue (everything not cancelled)
	// COALESCE keeps an empty table at 0 instead of NULL
	var revenue decimal.Decimal
	err = h.DB.QueryRow("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> ?", models.StatusCancelled).Scan(&revenue)
	if err != nil {
		h.internalError(c, "Failed to sum revenue", err)
		return
	}
	stats.Revenue = revenue.Round(2).InexactFloat64()

	c.JSON(http.StatusOK, stats)
}

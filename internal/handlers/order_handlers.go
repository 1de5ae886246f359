package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRow is the GET /orders shape: flat snake_case with the localized
// fields split per language.
type OrderRow struct {
	ID            string             `json:"id"`
	ProductID     string             `json:"product_id"`
	ProductNameAR string             `json:"product_name_ar"`
	ProductNameEN string             `json:"product_name_en"`
	ProductSKU    string             `json:"product_sku"`
	ProductPrice  decimal.Decimal    `json:"product_price"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CountryAR     string             `json:"country_ar"`
	CountryEN     string             `json:"country_en"`
	City          string             `json:"city"`
	Address       string             `json:"address"`
	Quantity      int                `json:"quantity"`
	Notes         string             `json:"notes"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Status        models.OrderStatus `json:"status"`
	OrderDate     string             `json:"order_date"`
	OrderTime     string             `json:"order_time"`
	CreatedAt     int64              `json:"created_at"`
	UpdatedAt     int64              `json:"updated_at"`
}

// GetOrders answers {"orders": [...]}, newest first.
func (h *Handlers) GetOrders(c *gin.Context) {
	rows, err := h.DB.Query(`SELECT id, product_id, product_name_ar, product_name_en, product_sku,
		product_price, customer_name, customer_phone, country_ar, country_en, city, address,
		quantity, notes, total_amount, status, order_date, order_time, created_at, updated_at
		FROM orders ORDER BY created_at DESC`)
	if err != nil {
		h.internalError(c, "Failed to fetch orders", err)
		return
	}
	defer rows.Close()

	orders := []OrderRow{}
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.ID, &o.ProductID, &o.ProductNameAR, &o.ProductNameEN, &o.ProductSKU,
			&o.ProductPrice, &o.CustomerName, &o.CustomerPhone, &o.CountryAR, &o.CountryEN, &o.City, &o.Address,
			&o.Quantity, &o.Notes, &o.TotalAmount, &o.Status, &o.OrderDate, &o.OrderTime, &o.CreatedAt, &o.UpdatedAt); err != nil {
			h.internalError(c, "Failed to fetch orders", err)
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		h.internalError(c, "Failed to fetch orders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// CreateOrder inserts an order. Orders are immutable, so a known id is a
// conflict rather than an update.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var o models.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. --- Validation ---
	if o.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}
	if o.ProductPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productPrice must not be negative"})
		return
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if !o.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	// 2. --- Server-side defaults ---
	now := h.now()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt == 0 {
		o.CreatedAt = now.UnixMilli()
	}
	if o.OrderDate == "" {
		o.OrderDate = now.Format(models.OrderDateLayout)
	}
	o.OrderTime = models.NormalizeOrderTime(o.OrderTime, now)
	if o.TotalAmount <= 0 {
		o.TotalAmount = models.OrderTotal(o.ProductPrice, o.Quantity)
	}

	// 3. --- Insert ---
	exists, err := rowExists(h.DB, "orders", o.ID)
	if err != nil {
		h.internalError(c, "Failed to create order", err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already exists"})
		return
	}
	_, err = h.DB.Exec(`INSERT INTO orders (
		id, product_id, product_name_ar, product_name_en, product_sku,
		product_price, customer_name, customer_phone, country_ar, country_en,
		city, address, quantity, notes, total_amount, status, order_date, order_time,
		created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ProductID, o.ProductName.AR, o.ProductName.EN, o.ProductSKU,
		decimal.NewFromFloat(o.ProductPrice).Round(2), o.CustomerName, o.CustomerPhone, o.Country.AR, o.Country.EN,
		o.City, o.Address, o.Quantity, o.Notes, decimal.NewFromFloat(o.TotalAmount).Round(2), o.Status,
		o.OrderDate, o.OrderTime, o.CreatedAt, now.UnixMilli())
	if err != nil {
		h.internalError(c, "Failed to create order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": o.ID})
}

// StatusInput is the PATCH /orders/:id body.
type StatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order along the status machine and bumps
// updated_at. Re-sending the current status is accepted as a no-op. The
// update only applies if the status is still the one that was checked.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	id := c.Param("id")
	var current models.OrderStatus
	err := h.DB.QueryRow("SELECT status FROM orders WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		h.internalError(c, "Failed to update order", err)
		return
	}
	if current == input.Status {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	if err := models.CheckTransition(current, input.Status); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// The status read above is the guard, so a concurrent change loses here.
	res, err := h.DB.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		input.Status, h.now().UnixMilli(), id, current)
	if err != nil {
		h.internalError(c, "Failed to update order", err)
		return
	}
	n, err := res.RowsAffected()
	if err != nil {
		h.internalError(c, "Failed to update order", err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order status changed by another request, reload and retry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteOrder hard-deletes an order.
func (h *Handlers) DeleteOrder(c *gin.Context) {
	if _, err := h.DB.Exec("DELETE FROM orders WHERE id = ?", c.Param("id")); err != nil {
		h.internalError(c, "Failed to delete order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

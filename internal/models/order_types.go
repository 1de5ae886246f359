package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid order status transition")

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition wrapped with context when
// from -> to is not allowed.
func CheckTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Order is a placed order. The product fields are a snapshot taken when the
// order was created and are never re-joined against the live product.
type Order struct {
	ID            string      `json:"id"`
	ProductID     string      `json:"productId"`
	ProductName   Localized   `json:"productName"`
	ProductSKU    string      `json:"productSku"`
	ProductPrice  float64     `json:"productPrice"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Country       Localized   `json:"country"`
	City          string      `json:"city"`
	Address       string      `json:"address"`
	Quantity      int         `json:"quantity"`
	Notes         string      `json:"notes"`
	TotalAmount   float64     `json:"totalAmount"`
	Status        OrderStatus `json:"status"`
	CreatedAt     int64       `json:"createdAt"`
	OrderDate     string      `json:"orderDate"`
	OrderTime     string      `json:"orderTime"`
}

// Customer is the buyer part of an order.
type Customer struct {
	Name    string
	Phone   string
	Country Localized
	City    string
	Address string
	Notes   string
}

const (
	OrderDateLayout = "2006-01-02"
	OrderTimeLayout = "15:04:05"
)

// OrderTotal multiplies in decimal so 19.99 x 3 is 59.97, not 59.969999.
func OrderTotal(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(qty))).
		Round(2).
		InexactFloat64()
}

// NewOrder snapshots p into a pending order for qty units.
func NewOrder(p Product, c Customer, qty int, now time.Time) Order {
	return Order{
		ProductID:     p.ID,
		ProductName:   p.Name,
		ProductSKU:    p.SKU,
		ProductPrice:  p.Price,
		CustomerName:  c.Name,
		CustomerPhone: c.Phone,
		Country:       c.Country,
		City:          c.City,
		Address:       c.Address,
		Quantity:      qty,
		Notes:         c.Notes,
		TotalAmount:   OrderTotal(p.Price, qty),
		Status:        StatusPending,
		CreatedAt:     now.UnixMilli(),
		OrderDate:     now.Format(OrderDateLayout),
		OrderTime:     now.Format(OrderTimeLayout),
	}
}

var twelveHourLayouts = []string{"3:04:05 PM", "3:04 PM", "03:04:05 PM", "03:04 PM"}

// NormalizeOrderTime forces a 24-hour HH:MM:SS clock. Arabic locale
// formatting produces "3:04:05 م"; those markers are mapped to AM/PM and
// re-parsed. Anything unparseable is replaced by now.
func NormalizeOrderTime(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format(OrderTimeLayout)
	}
	if t, err := time.Parse(OrderTimeLayout, s); err == nil {
		return t.Format(OrderTimeLayout)
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format(OrderTimeLayout)
	}
	r := strings.NewReplacer("ص", "AM", "م", "PM", "am", "AM", "pm", "PM")
	s = strings.Join(strings.Fields(r.Replace(s)), " ")
	for _, layout := range twelveHourLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(OrderTimeLayout)
		}
	}
	return now.Format(OrderTimeLayout)
}

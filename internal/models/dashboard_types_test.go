package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDashboard(t *testing.T) {
	off := false
	products := []Product{
		{ID: "a", Stock: 25},
		{ID: "b", Stock: 3, Active: &off},
		{ID: "c", Stock: 9},
	}
	orders := []Order{
		{Status: StatusPending, TotalAmount: 19.99},
		{Status: StatusDelivered, TotalAmount: 40.02},
		{Status: StatusCancelled, TotalAmount: 500},
		{Status: StatusPending, TotalAmount: 0.1},
	}

	stats := ComputeDashboard(products, DemoCategories(), orders)
	assert.Equal(t, 3, stats.Products)
	assert.Equal(t, 2, stats.ActiveProducts)
	assert.Equal(t, 2, stats.LowStock)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, map[OrderStatus]int{StatusPending: 2, StatusDelivered: 1, StatusCancelled: 1}, stats.Orders)
	assert.Equal(t, 60.11, stats.Revenue)
}

func TestComputeDashboardEmpty(t *testing.T) {
	stats := ComputeDashboard(nil, nil, nil)
	assert.Zero(t, stats.Products)
	assert.Empty(t, stats.Orders)
	assert.Zero(t, stats.Revenue)
}

package mirror

import (
	"fmt"

	"github.com/01moynul/souq-catalog/internal/models"
)

// Cart returns the current cart lines.
func (s *Store) Cart() ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load(s, KeyCart, []models.CartItem{})
}

// AddToCart adds qty units of p, merging with an existing line.
func (s *Store) AddToCart(p models.Product, qty int, lang models.Lang) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := load(s, KeyCart, []models.CartItem{})
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ProductID == p.ID {
			items[i].Qty += qty
			return s.put(KeyCart, items)
		}
	}
	items = append(items, models.CartItem{
		ProductID: p.ID,
		Qty:       qty,
		Price:     p.Price,
		Name:      p.Name.Resolve(lang),
	})
	return s.put(KeyCart, items)
}

// CartCount is the total number of units in the cart.
func (s *Store) CartCount() (int, error) {
	items, err := s.Cart()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n, nil
}

// ClearCart empties the cart.
func (s *Store) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(KeyCart, []models.CartItem{})
}

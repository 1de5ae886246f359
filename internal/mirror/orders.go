package mirror

import (
	"fmt"
	"sort"

	"github.com/01moynul/souq-catalog/internal/models"
)

func (s *Store) loadOrders() ([]models.Order, error) {
	items, err := load(s, KeyOrders, []models.Order{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}

func orderIndex(items []models.Order, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Orders returns all orders, newest first.
func (s *Store) Orders() ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrders()
}

// Order looks an order up by id.
func (s *Store) Order(id string) (models.Order, error) {
	items, err := s.Orders()
	if err != nil {
		return models.Order{}, err
	}
	if i := orderIndex(items, id); i >= 0 {
		return items[i], nil
	}
	return models.Order{}, fmt.Errorf("order %q: %w", id, ErrNotFound)
}

// PlaceOrder stores a new order. Orders are immutable once placed, so an
// id that already exists is rejected. The total is recomputed from the
// snapshot price and quantity, and the time is forced to a 24-hour clock.
func (s *Store) PlaceOrder(o models.Order) (models.Order, error) {
	if o.Quantity <= 0 {
		return models.Order{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}
	if o.ProductPrice < 0 {
		return models.Order{}, fmt.Errorf("%w: negative price", ErrInvalidOrder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadOrders()
	if err != nil {
		return models.Order{}, err
	}
	if o.ID == "" {
		o.ID = s.newID()
	} else if orderIndex(items, o.ID) >= 0 {
		return models.Order{}, fmt.Errorf("%w: %s", ErrOrderExists, o.ID)
	}

	now := s.now()
	if o.CreatedAt == 0 {
		o.CreatedAt = now.UnixMilli()
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if !o.Status.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, o.Status)
	}
	if o.OrderDate == "" {
		o.OrderDate = now.Format(models.OrderDateLayout)
	}
	o.OrderTime = models.NormalizeOrderTime(o.OrderTime, now)
	o.TotalAmount = models.OrderTotal(o.ProductPrice, o.Quantity)

	items = append([]models.Order{o}, items...)
	if err := s.put(KeyOrders, items); err != nil {
		return models.Order{}, err
	}
	s.prop.OrderPlaced(o)
	return o, nil
}

// UpdateOrderStatus moves an order along its status machine. Setting the
// current status again is a no-op.
func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadOrders()
	if err != nil {
		return err
	}
	i := orderIndex(items, id)
	if i < 0 {
		return fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	if items[i].Status == status {
		return nil
	}
	if err := models.CheckTransition(items[i].Status, status); err != nil {
		return err
	}
	items[i].Status = status
	if err := s.put(KeyOrders, items); err != nil {
		return err
	}
	s.prop.OrderStatusChanged(id, status)
	return nil
}

// DeleteOrder removes an order.
func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadOrders()
	if err != nil {
		return err
	}
	i := orderIndex(items, id)
	if i < 0 {
		return fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	items = append(items[:i:i], items[i+1:]...)
	if err := s.put(KeyOrders, items); err != nil {
		return err
	}
	s.prop.OrderDeleted(id)
	return nil
}

// MergeOrders folds server orders in by id without propagating. The
// server copy wins for orders both sides know.
func (s *Store) MergeOrders(remote []models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadOrders()
	if err != nil {
		return err
	}
	for _, o := range remote {
		if o.ID == "" {
			continue
		}
		if i := orderIndex(items, o.ID); i >= 0 {
			items[i] = o
		} else {
			items = append(items, o)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return s.put(KeyOrders, items)
}

package mirror

import (
	"fmt"
	"strconv"

	"github.com/01moynul/souq-catalog/internal/models"
)

func (s *Store) loadProducts() ([]models.Product, error) {
	items, err := load(s, KeyProducts, []models.Product{})
	if err != nil {
		return nil, err
	}
	sortByRank(items)
	return items, nil
}

// Products returns every product by display rank. This is the admin view.
func (s *Store) Products() ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProducts()
}

// PublicProducts returns only active products, by display rank. The filter
// is applied on every call, so toggling Active shows up on the next read.
func (s *Store) PublicProducts() ([]models.Product, error) {
	all, err := s.Products()
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Product looks a product up by id, then by slug.
func (s *Store) Product(key string) (models.Product, error) {
	items, err := s.Products()
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range items {
		if p.ID == key {
			return p, nil
		}
	}
	for _, p := range items {
		if p.Slug == key {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %q: %w", key, ErrNotFound)
}

// uniqueSlug returns base, or base-2, base-3... whichever no other product uses.
func uniqueSlug(items []models.Product, base, ownID string) string {
	taken := make(map[string]bool, len(items))
	for _, p := range items {
		if p.ID != ownID {
			taken[p.Slug] = true
		}
	}
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func slugOwner(items []models.Product, slug string) (string, bool) {
	for _, p := range items {
		if p.Slug == slug {
			return p.ID, true
		}
	}
	return "", false
}

// SaveProduct upserts p by id. A product without id gets a fresh one and
// is appended last; an existing one is replaced where its Order puts it
// and keeps its creation time when p carries none. A blank slug is
// derived from the name.
func (s *Store) SaveProduct(p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadProducts()
	if err != nil {
		return models.Product{}, err
	}

	if p.ID == "" {
		p.ID = s.newID()
	}
	if p.CreatedAt == 0 {
		if i := indexOf(items, p.ID); i >= 0 {
			p.CreatedAt = items[i].CreatedAt
		} else {
			p.CreatedAt = s.now().UnixMilli()
		}
	}
	if p.Slug == "" {
		p.Slug = uniqueSlug(items, models.DeriveSlug(p.Name), p.ID)
	} else if owner, ok := slugOwner(items, p.Slug); ok && owner != p.ID {
		return models.Product{}, fmt.Errorf("%w: %s", ErrDuplicateSlug, p.Slug)
	}
	for i := range p.Images {
		if p.Images[i].ID == "" {
			p.Images[i].ID = s.newID()
		}
	}
	p.NormalizeImages()

	items, _ = upsertRanked(items, p)
	if err := s.put(KeyProducts, items); err != nil {
		return models.Product{}, err
	}
	saved := items[indexOf(items, p.ID)]
	s.prop.ProductSaved(saved)
	return saved, nil
}

// DeleteProduct removes a product and closes the rank gap.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadProducts()
	if err != nil {
		return err
	}
	items, ok := removeRanked(items, id)
	if !ok {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	if err := s.put(KeyProducts, items); err != nil {
		return err
	}
	s.prop.ProductDeleted(id)
	return nil
}

// ReorderProducts sets each product's rank to its index in ids, which must
// list every product exactly once.
func (s *Store) ReorderProducts(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadProducts()
	if err != nil {
		return err
	}
	items, err = reorderRanked(items, ids)
	if err != nil {
		return err
	}
	if err := s.put(KeyProducts, items); err != nil {
		return err
	}
	s.prop.ProductsReordered(append([]string(nil), ids...))
	return nil
}

// MoveProduct swaps a product with its neighbour.
func (s *Store) MoveProduct(id string, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadProducts()
	if err != nil {
		return err
	}
	changed, err := moveRanked(items, id, dir)
	if err != nil || !changed {
		return err
	}
	if err := s.put(KeyProducts, items); err != nil {
		return err
	}
	s.prop.ProductsReordered(keys(items))
	return nil
}

// MergeProducts folds server products into the mirror by id without
// propagating them back. Local products the server did not send stay.
func (s *Store) MergeProducts(remote []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadProducts()
	if err != nil {
		return err
	}
	for _, p := range remote {
		if p.ID == "" {
			continue
		}
		if p.Slug == "" {
			p.Slug = models.DeriveSlug(p.Name)
		}
		p.Slug = uniqueSlug(items, p.Slug, p.ID)
		p.NormalizeImages()
		if i := indexOf(items, p.ID); i >= 0 {
			items[i] = p
		} else {
			items = append(items, p)
		}
	}
	sortByRank(items)
	renumber(items)
	return s.put(KeyProducts, items)
}

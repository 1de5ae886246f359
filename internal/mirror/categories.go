package mirror

import (
	"fmt"

	"github.com/01moynul/souq-catalog/internal/models"
)

func (s *Store) loadCategories() ([]models.Category, error) {
	items, err := load(s, KeyCategories, []models.Category{})
	if err != nil {
		return nil, err
	}
	sortByRank(items)
	return items, nil
}

// Categories returns all categories by rank.
func (s *Store) Categories() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCategories()
}

// Category looks a category up by id.
func (s *Store) Category(id string) (models.Category, error) {
	items, err := s.Categories()
	if err != nil {
		return models.Category{}, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return models.Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
}

// SaveCategory upserts c by id and renumbers the whole collection.
func (s *Store) SaveCategory(c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadCategories()
	if err != nil {
		return models.Category{}, err
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	items, _ = upsertRanked(items, c)
	if err := s.put(KeyCategories, items); err != nil {
		return models.Category{}, err
	}
	saved := items[indexOf(items, c.ID)]
	s.prop.CategorySaved(saved)
	return saved, nil
}

// DeleteCategory removes a category. Products pointing at it keep the
// dangling id; the storefront treats an unknown category as none.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadCategories()
	if err != nil {
		return err
	}
	items, ok := removeRanked(items, id)
	if !ok {
		return fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	if err := s.put(KeyCategories, items); err != nil {
		return err
	}
	s.prop.CategoryDeleted(id)
	return nil
}

// ReorderCategories sets rank = index in ids; ids must be the full set.
func (s *Store) ReorderCategories(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadCategories()
	if err != nil {
		return err
	}
	items, err = reorderRanked(items, ids)
	if err != nil {
		return err
	}
	if err := s.put(KeyCategories, items); err != nil {
		return err
	}
	s.prop.CategoriesReordered(append([]string(nil), ids...))
	return nil
}

// MoveCategory swaps a category with its neighbour and propagates the
// resulting full order.
func (s *Store) MoveCategory(id string, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadCategories()
	if err != nil {
		return err
	}
	changed, err := moveRanked(items, id, dir)
	if err != nil || !changed {
		return err
	}
	if err := s.put(KeyCategories, items); err != nil {
		return err
	}
	s.prop.CategoriesReordered(keys(items))
	return nil
}

// MergeCategories folds server categories in by id without propagating.
func (s *Store) MergeCategories(remote []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadCategories()
	if err != nil {
		return err
	}
	for _, c := range remote {
		if c.ID == "" {
			continue
		}
		if i := indexOf(items, c.ID); i >= 0 {
			items[i] = c
		} else {
			items = append(items, c)
		}
	}
	sortByRank(items)
	renumber(items)
	return s.put(KeyCategories, items)
}

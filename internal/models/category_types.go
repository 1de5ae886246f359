package models

// Category groups products. Order is dense 0..n-1 across the whole collection.
type Category struct {
	ID    string    `json:"id"`
	Name  Localized `json:"name" validate:"required"`
	Order int       `json:"order"`
}

func (c Category) Key() string   { return c.ID }
func (c Category) Rank() int     { return c.Order }
func (c *Category) SetRank(i int) { c.Order = i }

package mirror

import "github.com/01moynul/souq-catalog/internal/models"

// Propagator receives every successful local write. Implementations must
// not block and must not report failure back to the mirror.
type Propagator interface {
	ProductSaved(p models.Product)
	ProductDeleted(id string)
	ProductsReordered(ids []string)
	CategorySaved(c models.Category)
	CategoryDeleted(id string)
	CategoriesReordered(ids []string)
	OrderPlaced(o models.Order)
	OrderStatusChanged(id string, status models.OrderStatus)
	OrderDeleted(id string)
	SettingsSaved(s models.Settings)
}

// NopPropagator drops everything. It is the default for an offline mirror.
type NopPropagator struct{}

func (NopPropagator) ProductSaved(models.Product)                   {}
func (NopPropagator) ProductDeleted(string)                         {}
func (NopPropagator) ProductsReordered([]string)                    {}
func (NopPropagator) CategorySaved(models.Category)                 {}
func (NopPropagator) CategoryDeleted(string)                        {}
func (NopPropagator) CategoriesReordered([]string)                  {}
func (NopPropagator) OrderPlaced(models.Order)                      {}
func (NopPropagator) OrderStatusChanged(string, models.OrderStatus) {}
func (NopPropagator) OrderDeleted(string)                           {}
func (NopPropagator) SettingsSaved(models.Settings)                 {}

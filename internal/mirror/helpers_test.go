package mirror

import (
	"fmt"
	"testing"
	"time"

	"github.com/01moynul/souq-catalog/internal/kvstore"
	"github.com/01moynul/souq-catalog/internal/models"
)

// recorder captures propagation calls in order.
type recorder struct {
	calls []string
	ids   [][]string
}

func (r *recorder) add(format string, args ...any) { r.calls = append(r.calls, fmt.Sprintf(format, args...)) }

func (r *recorder) ProductSaved(p models.Product) { r.add("product.save %s", p.ID) }
func (r *recorder) ProductDeleted(id string)      { r.add("product.delete %s", id) }
func (r *recorder) ProductsReordered(ids []string) {
	r.add("product.reorder")
	r.ids = append(r.ids, ids)
}
func (r *recorder) CategorySaved(c models.Category) { r.add("category.save %s", c.ID) }
func (r *recorder) CategoryDeleted(id string)       { r.add("category.delete %s", id) }
func (r *recorder) CategoriesReordered(ids []string) {
	r.add("category.reorder")
	r.ids = append(r.ids, ids)
}
func (r *recorder) OrderPlaced(o models.Order) { r.add("order.create %s", o.ID) }
func (r *recorder) OrderStatusChanged(id string, st models.OrderStatus) {
	r.add("order.status %s %s", id, st)
}
func (r *recorder) OrderDeleted(id string)          { r.add("order.delete %s", id) }
func (r *recorder) SettingsSaved(s models.Settings) { r.add("settings.put") }

var fixedNow = time.Date(2025, 5, 6, 14, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(kvstore.NewMemory(), rec, nil)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	s.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { s.Close() })
	return s, rec
}

func product(id, en string) models.Product {
	return models.Product{
		ID:     id,
		SKU:    "SKU-" + en,
		Name:   models.L("", en),
		Images: []models.ProductImage{{ID: "img-" + id, Src: "/" + id + ".png"}},
		Price:  10,
	}
}

func ranksOf[T any, P ranked[T]](items []T) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = P(&items[i]).Rank()
	}
	return out
}

func dense(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

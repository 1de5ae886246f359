package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/01moynul/souq-catalog/internal/dispatch"
	"github.com/01moynul/souq-catalog/internal/kvstore"
	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
)

var errUnreachable = errors.New("dial tcp: connection refused")

type fakeSource struct {
	mu    sync.Mutex
	calls int

	settings    *models.SettingsPatch
	settingsErr error
	categories  []models.Category
	catErr      error
	products    []models.Product
	prodErr     error
	orders      []models.Order
	ordersErr   error
}

func unreachable() *fakeSource {
	return &fakeSource{settingsErr: errUnreachable, catErr: errUnreachable, prodErr: errUnreachable, ordersErr: errUnreachable}
}

func (f *fakeSource) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeSource) Settings(context.Context) (*models.SettingsPatch, error) {
	f.hit()
	return f.settings, f.settingsErr
}

func (f *fakeSource) Categories(context.Context) ([]models.Category, error) {
	f.hit()
	return f.categories, f.catErr
}

func (f *fakeSource) Products(context.Context) ([]models.Product, error) {
	f.hit()
	return f.products, f.prodErr
}

func (f *fakeSource) Orders(context.Context) ([]models.Order, error) {
	f.hit()
	return f.orders, f.ordersErr
}

// fakeSink records every call as "op arg".
type fakeSink struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeSink) rec(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeSink) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSink) SaveProduct(_ context.Context, p models.Product) error {
	return f.rec("product.save %s", p.SKU)
}
func (f *fakeSink) DeleteProduct(_ context.Context, id string) error {
	return f.rec("product.delete %s", id)
}
func (f *fakeSink) ReorderProducts(_ context.Context, ids []string) error {
	return f.rec("product.reorder %v", ids)
}
func (f *fakeSink) SaveCategory(_ context.Context, c models.Category) error {
	return f.rec("category.save %s", c.ID)
}
func (f *fakeSink) DeleteCategory(_ context.Context, id string) error {
	return f.rec("category.delete %s", id)
}
func (f *fakeSink) ReorderCategories(_ context.Context, ids []string) error {
	return f.rec("category.reorder %v", ids)
}
func (f *fakeSink) CreateOrder(_ context.Context, o models.Order) (string, error) {
	return o.ID, f.rec("order.create %s", o.ID)
}
func (f *fakeSink) UpdateOrderStatus(_ context.Context, id string, st models.OrderStatus) error {
	return f.rec("order.status %s %s", id, st)
}
func (f *fakeSink) DeleteOrder(_ context.Context, id string) error {
	return f.rec("order.delete %s", id)
}
func (f *fakeSink) SaveSettings(_ context.Context, s models.Settings) error {
	return f.rec("settings.put %s", s.Header.SiteName.EN)
}

type harness struct {
	store *mirror.Store
	sink  *fakeSink
	run   *dispatch.Inline
	boot  *Bootstrapper
}

func newHarness(t *testing.T, src Source) *harness {
	t.Helper()
	sink := &fakeSink{}
	run := dispatch.NewInline(dispatch.FireAndForget, nil)
	store := mirror.New(kvstore.NewMemory(), nil, nil)
	store.SetPropagator(NewPropagator(context.Background(), sink, run))
	t.Cleanup(func() { store.Close() })

	boot := NewBootstrapper(store, src, nil)
	n := 0
	boot.newID = func() string {
		n++
		return fmt.Sprintf("demo-%d", n)
	}
	boot.now = func() time.Time { return time.Date(2025, 5, 6, 12, 0, 0, 0, time.UTC) }
	return &harness{store: store, sink: sink, run: run, boot: boot}
}

// Package reconcile keeps the local mirror and the server in step: every
// mirror write is pushed in the background, and a fresh client pulls the
// server's data once before it starts serving.
package reconcile

import (
	"context"

	"github.com/01moynul/souq-catalog/internal/dispatch"
	"github.com/01moynul/souq-catalog/internal/models"
)

// Sink is the write side of the server API.
type Sink interface {
	SaveProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ReorderProducts(ctx context.Context, ids []string) error
	SaveCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ReorderCategories(ctx context.Context, ids []string) error
	CreateOrder(ctx context.Context, o models.Order) (string, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error
	SaveSettings(ctx context.Context, s models.Settings) error
}

// Runner starts a background task. *dispatch.Dispatcher and
// *dispatch.Inline both satisfy it.
type Runner interface {
	Go(ctx context.Context, name string, task dispatch.Task)
}

// Propagator turns mirror writes into one server request each. It never
// reports failure back to the mirror; the runner logs and drops it.
type Propagator struct {
	ctx  context.Context
	sink Sink
	run  Runner
}

// NewPropagator binds sink and run. ctx carries values only; tasks are
// detached from its cancellation by the runner.
func NewPropagator(ctx context.Context, sink Sink, run Runner) *Propagator {
	return &Propagator{ctx: ctx, sink: sink, run: run}
}

func (p *Propagator) ProductSaved(prod models.Product) {
	p.run.Go(p.ctx, "product.save", func(ctx context.Context) error {
		return p.sink.SaveProduct(ctx, prod)
	})
}

func (p *Propagator) ProductDeleted(id string) {
	p.run.Go(p.ctx, "product.delete", func(ctx context.Context) error {
		return p.sink.DeleteProduct(ctx, id)
	})
}

func (p *Propagator) ProductsReordered(ids []string) {
	p.run.Go(p.ctx, "product.reorder", func(ctx context.Context) error {
		return p.sink.ReorderProducts(ctx, ids)
	})
}

func (p *Propagator) CategorySaved(c models.Category) {
	p.run.Go(p.ctx, "category.save", func(ctx context.Context) error {
		return p.sink.SaveCategory(ctx, c)
	})
}

func (p *Propagator) CategoryDeleted(id string) {
	p.run.Go(p.ctx, "category.delete", func(ctx context.Context) error {
		return p.sink.DeleteCategory(ctx, id)
	})
}

func (p *Propagator) CategoriesReordered(ids []string) {
	p.run.Go(p.ctx, "category.reorder", func(ctx context.Context) error {
		return p.sink.ReorderCategories(ctx, ids)
	})
}

func (p *Propagator) OrderPlaced(o models.Order) {
	p.run.Go(p.ctx, "order.create", func(ctx context.Context) error {
		_, err := p.sink.CreateOrder(ctx, o)
		return err
	})
}

func (p *Propagator) OrderStatusChanged(id string, status models.OrderStatus) {
	p.run.Go(p.ctx, "order.status", func(ctx context.Context) error {
		return p.sink.UpdateOrderStatus(ctx, id, status)
	})
}

func (p *Propagator) OrderDeleted(id string) {
	p.run.Go(p.ctx, "order.delete", func(ctx context.Context) error {
		return p.sink.DeleteOrder(ctx, id)
	})
}

func (p *Propagator) SettingsSaved(s models.Settings) {
	p.run.Go(p.ctx, "settings.put", func(ctx context.Context) error {
		return p.sink.SaveSettings(ctx, s)
	})
}

package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the read side of the server API used at startup.
type Source interface {
	Settings(ctx context.Context) (*models.SettingsPatch, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Products(ctx context.Context) ([]models.Product, error)
}

// OrderSource lists server orders.
type OrderSource interface {
	Orders(ctx context.Context) ([]models.Order, error)
}

// Report says what a bootstrap run did.
type Report struct {
	Skipped bool `json:"skipped" yaml:"skipped"`

	RemoteSettings   bool `json:"remoteSettings" yaml:"remoteSettings"`
	RemoteCategories int  `json:"remoteCategories" yaml:"remoteCategories"`
	RemoteProducts   int  `json:"remoteProducts" yaml:"remoteProducts"`

	DemoSettings   bool `json:"demoSettings" yaml:"demoSettings"`
	DemoCategories bool `json:"demoCategories" yaml:"demoCategories"`
	DemoProducts   bool `json:"demoProducts" yaml:"demoProducts"`
}

// Bootstrapper runs the once-per-client pull from the server.
type Bootstrapper struct {
	store *mirror.Store
	src   Source
	log   *zap.Logger

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewBootstrapper(store *mirror.Store, src Source, log *zap.Logger) *Bootstrapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bootstrapper{
		store: store,
		src:   src,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type remoteData struct {
	settings   *models.SettingsPatch
	categories []models.Category
	products   []models.Product
}

// fetch runs the three reads concurrently. A failed read is logged and
// counts as "server has nothing"; it never fails the others.
func (b *Bootstrapper) fetch(ctx context.Context) remoteData {
	var (
		d remoteData
		g errgroup.Group
	)
	g.Go(func() error {
		s, err := b.src.Settings(ctx)
		if err != nil {
			b.log.Warn("remote settings unavailable", zap.Error(err))
			return nil
		}
		d.settings = s
		return nil
	})
	g.Go(func() error {
		c, err := b.src.Categories(ctx)
		if err != nil {
			b.log.Warn("remote categories unavailable", zap.Error(err))
			return nil
		}
		d.categories = c
		return nil
	})
	g.Go(func() error {
		p, err := b.src.Products(ctx)
		if err != nil {
			b.log.Warn("remote products unavailable", zap.Error(err))
			return nil
		}
		d.products = p
		return nil
	})
	_ = g.Wait()
	return d
}

// Bootstrap pulls server data into the mirror unless this client is
// already seeded. Server data is folded in without being sent back; any
// piece the server had nothing for is filled from the demo set if the
// mirror is also empty there, and that fill is propagated so an empty
// server gets seeded too. Only local storage failures are returned.
func (b *Bootstrapper) Bootstrap(ctx context.Context) (Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seeded, err := b.store.Seeded()
	if err != nil {
		return Report{}, err
	}
	if seeded {
		return Report{Skipped: true}, nil
	}

	var rep Report
	d := b.fetch(ctx)

	if d.settings != nil {
		if _, err := b.store.ApplyRemoteSettings(*d.settings); err != nil {
			return rep, fmt.Errorf("apply remote settings: %w", err)
		}
		rep.RemoteSettings = true
	}
	if len(d.categories) > 0 {
		if err := b.store.MergeCategories(d.categories); err != nil {
			return rep, fmt.Errorf("merge remote categories: %w", err)
		}
		rep.RemoteCategories = len(d.categories)
	}
	if len(d.products) > 0 {
		if err := b.store.MergeProducts(d.products); err != nil {
			return rep, fmt.Errorf("merge remote products: %w", err)
		}
		rep.RemoteProducts = len(d.products)
	}

	if !rep.RemoteSettings {
		if rep.DemoSettings, err = b.demoSettings(); err != nil {
			return rep, err
		}
	}
	if rep.RemoteCategories == 0 {
		if rep.DemoCategories, err = b.demoCategories(); err != nil {
			return rep, err
		}
	}
	if rep.RemoteProducts == 0 {
		if rep.DemoProducts, err = b.demoProducts(); err != nil {
			return rep, err
		}
	}

	if err := b.store.MarkSeeded(); err != nil {
		return rep, err
	}
	b.log.Info("bootstrap complete",
		zap.Bool("remote_settings", rep.RemoteSettings),
		zap.Int("remote_categories", rep.RemoteCategories),
		zap.Int("remote_products", rep.RemoteProducts),
		zap.Bool("demo_settings", rep.DemoSettings),
		zap.Bool("demo_categories", rep.DemoCategories),
		zap.Bool("demo_products", rep.DemoProducts),
	)
	return rep, nil
}

func (b *Bootstrapper) demoSettings() (bool, error) {
	cur, err := b.store.Settings()
	if err != nil {
		return false, err
	}
	if !cur.Header.SiteName.IsEmpty() {
		return false, nil
	}
	cur.Header.SiteName = models.DemoSiteName()
	cur.Header.LogoAlt = models.DemoLogoAlt()
	cur.Slider = models.SliderSettings{Enabled: true, Images: models.DemoSlides()}
	if err := b.store.SaveSettings(cur); err != nil {
		return false, fmt.Errorf("demo settings: %w", err)
	}
	return true, nil
}

func (b *Bootstrapper) demoCategories() (bool, error) {
	cur, err := b.store.Categories()
	if err != nil || len(cur) > 0 {
		return false, err
	}
	for _, c := range models.DemoCategories() {
		if _, err := b.store.SaveCategory(c); err != nil {
			return false, fmt.Errorf("demo category %s: %w", c.ID, err)
		}
	}
	return true, nil
}

func (b *Bootstrapper) demoProducts() (bool, error) {
	cur, err := b.store.Products()
	if err != nil || len(cur) > 0 {
		return false, err
	}
	for _, p := range models.DemoProducts(b.newID, b.now().UnixMilli()) {
		if _, err := b.store.SaveProduct(p); err != nil {
			return false, fmt.Errorf("demo product %s: %w", p.SKU, err)
		}
	}
	return true, nil
}

// Reset clears the seeded flag so the next Bootstrap pulls again.
func (b *Bootstrapper) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.ClearSeeded()
}

// PullOrders merges the server's orders into the mirror. Unlike Bootstrap
// it reports a failed fetch, since the caller asked for it explicitly.
func PullOrders(ctx context.Context, store *mirror.Store, src OrderSource) (int, error) {
	orders, err := src.Orders(ctx)
	if err != nil {
		return 0, fmt.Errorf("pull orders: %w", err)
	}
	if err := store.MergeOrders(orders); err != nil {
		return 0, err
	}
	return len(orders), nil
}

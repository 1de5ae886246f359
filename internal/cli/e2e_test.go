package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/01moynul/souq-catalog/internal/checkout"
	"github.com/01moynul/souq-catalog/internal/config"
	"github.com/01moynul/souq-catalog/internal/database"
	"github.com/01moynul/souq-catalog/internal/handlers"
	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/01moynul/souq-catalog/internal/remote"
	"github.com/01moynul/souq-catalog/internal/routes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// server is the real API over a throwaway SQLite database.
type server struct {
	URL    string
	client *remote.Client
}

func startServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "server.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &handlers.Handlers{DB: db, UploadDir: t.TempDir()}
	srv := httptest.NewServer(routes.SetupRouter(h, nil))
	t.Cleanup(srv.Close)
	return &server{URL: srv.URL + "/api", client: remote.New(srv.URL+"/api", 5*time.Second, nil)}
}

// session is one client device: its own local store, shared across runs.
type session struct {
	t     *testing.T
	flags []string
}

func newSession(t *testing.T, remoteURL string) *session {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv(config.FileEnv, "")
	return &session{t: t, flags: []string{
		"--remote", remoteURL,
		"--store", "sqlite",
		"--store-path", filepath.Join(t.TempDir(), "client.db"),
		"--log-level", "error",
	}}
}

func (s *session) run(args ...string) (string, error) {
	s.t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), append(args, s.flags...), &out, &errOut)
	return out.String(), err
}

func (s *session) mustRun(args ...string) string {
	s.t.Helper()
	out, err := s.run(args...)
	require.NoError(s.t, err, out)
	return out
}

func TestSeedFillsEmptyServerWithDemoData(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)

	out := s.mustRun("seed")
	assert.Contains(t, out, "settings")
	assert.Contains(t, out, "demo")

	// The demo fill was propagated and drained before Execute returned.
	ctx := context.Background()
	products, err := srv.client.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	cats, err := srv.client.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
	settings, err := srv.client.Settings(ctx)
	require.NoError(t, err)
	require.NotNil(t, settings)

	// Seeding twice is a no-op.
	out = s.mustRun("seed")
	assert.Contains(t, out, "already seeded")
}

func TestFreshClientPullsFromServer(t *testing.T) {
	srv := startServer(t)
	first := newSession(t, srv.URL)
	first.mustRun("seed")
	first.mustRun("lang", "en")
	first.mustRun("products", "delete", mustProduct(t, first, "leather-bag").ID)

	second := newSession(t, srv.URL)
	var rep struct {
		RemoteProducts   int  `json:"remoteProducts"`
		RemoteCategories int  `json:"remoteCategories"`
		RemoteSettings   bool `json:"remoteSettings"`
		DemoProducts     bool `json:"demoProducts"`
	}
	require.NoError(t, json.Unmarshal([]byte(second.mustRun("seed", "--format", "json")), &rep))
	assert.Equal(t, 1, rep.RemoteProducts)
	assert.Equal(t, 2, rep.RemoteCategories)
	assert.True(t, rep.RemoteSettings)
	assert.False(t, rep.DemoProducts)

	var products []models.Product
	require.NoError(t, json.Unmarshal([]byte(second.mustRun("products", "list", "--format", "json")), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "classic-shoe", products[0].Slug)
	require.Len(t, products[0].Images, 2)
	assert.Equal(t, "/single-athletic-shoe.png", products[0].Images[0].Src)

	// Language is per device.
	assert.Equal(t, "ar\n", second.mustRun("lang"))
	assert.Equal(t, "en\n", first.mustRun("lang"))
}

func mustProduct(t *testing.T, s *session, key string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("products", "get", key, "--format", "json")), &p))
	return p
}

func TestCartCheckoutReachesServer(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)
	s.mustRun("seed")

	out := s.mustRun("cart", "add", "classic-shoe", "--qty", "2")
	assert.Contains(t, out, "cart: 2 items")

	_, err := s.run("checkout", "--name", "Sara", "--phone", "12")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "city")
	assert.Contains(t, verr.Fields, "phone")

	var placed []models.Order
	out = s.mustRun("checkout",
		"--name", "Sara", "--phone", "500 000-000", "--city", "Riyadh",
		"--address", "King Fahd Rd", "--format", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &placed))
	require.Len(t, placed, 1)
	o := placed[0]
	assert.Equal(t, 398.0, o.TotalAmount)
	assert.Equal(t, "+966500000000", o.CustomerPhone)
	assert.Equal(t, "SH-001", o.ProductSKU)
	assert.Equal(t, models.StatusPending, o.Status)

	var cart []models.CartItem
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("cart", "list", "--format", "json")), &cart))
	assert.Empty(t, cart)

	ctx := context.Background()
	remoteOrders, err := srv.client.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, remoteOrders, 1)
	assert.Equal(t, o.ID, remoteOrders[0].ID)
	assert.Equal(t, 398.0, remoteOrders[0].TotalAmount)

	s.mustRun("orders", "status", o.ID, "confirmed")
	remoteOrders, err = srv.client.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, remoteOrders[0].Status)

	_, err = s.run("orders", "status", o.ID, "pending")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestOrdersPull(t *testing.T) {
	srv := startServer(t)
	shop := newSession(t, srv.URL)
	shop.mustRun("seed")
	shop.mustRun("checkout", "--product", "leather-bag", "--qty", "1",
		"--name", "Omar", "--phone", "555555", "--country", "ae", "--city", "Dubai", "--address", "Marina")

	admin := newSession(t, srv.URL)
	assert.Contains(t, admin.mustRun("orders", "pull"), "pulled 1 orders")
	var orders []models.Order
	require.NoError(t, json.Unmarshal([]byte(admin.mustRun("orders", "list", "--format", "json")), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "+971555555", orders[0].CustomerPhone)
	assert.Equal(t, "UAE", orders[0].Country.EN)
}

func TestProductAdminFlow(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)
	s.mustRun("seed")

	path := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sku: NEW-1
name: {ar: جديد, en: New Item}
price: 12.5
stock: 3
images:
  - src: /new.png
`), 0o644))
	out := s.mustRun("products", "save", "-f", path)
	assert.Contains(t, out, "(new-item)")

	resp, err := http.Get(srv.URL + "/products/new-item")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	newItem := mustProduct(t, s, "new-item")
	assert.Equal(t, 2, newItem.Order)
	s.mustRun("products", "move", newItem.ID, "up")
	assert.Equal(t, 1, mustProduct(t, s, "new-item").Order)

	remoteProducts, err := srv.client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, remoteProducts, 3)
	assert.Equal(t, newItem.ID, remoteProducts[1].ID)

	_, err = s.run("products", "reorder", newItem.ID)
	assert.ErrorIs(t, err, mirror.ErrPartialReorder)

	_, err = s.run("products", "save", "-f", writeJSON(t, `{"sku":"X"}`))
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestProductEditKeepsRankAndCreationTime(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)
	s.mustRun("seed")

	bag := mustProduct(t, s, "leather-bag")
	require.Equal(t, 1, bag.Order)

	s.mustRun("products", "save", "-f", writeJSON(t, `{"id":"`+bag.ID+`","price":77}`))
	edited := mustProduct(t, s, "leather-bag")
	assert.Equal(t, 1, edited.Order)
	assert.Equal(t, bag.CreatedAt, edited.CreatedAt)
	assert.Equal(t, 77.0, edited.Price)
	assert.Equal(t, bag.Images, edited.Images)
	assert.Equal(t, bag.SKU, edited.SKU)

	remoteProducts, err := srv.client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, remoteProducts, 2)
	assert.Equal(t, bag.ID, remoteProducts[1].ID)
	assert.Equal(t, 77.0, remoteProducts[1].Price)

	// An explicit order still moves it, and a new image list replaces the old one.
	s.mustRun("products", "save", "-f", writeJSON(t, `{"id":"`+bag.ID+`","order":0,"images":[{"src":"/bag2.png"}]}`))
	moved := mustProduct(t, s, "leather-bag")
	assert.Equal(t, 0, moved.Order)
	require.Len(t, moved.Images, 1)
	assert.Equal(t, "/bag2.png", moved.Images[0].Src)
	assert.NotEqual(t, bag.Images[0].ID, moved.Images[0].ID)
	assert.Empty(t, moved.Images[0].Caption.EN)
}

func TestStorefrontBrowsing(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)
	s.mustRun("seed")

	list := func(args ...string) []string {
		t.Helper()
		var products []models.Product
		out := s.mustRun(append([]string{"products", "list", "--public", "--format", "json"}, args...)...)
		require.NoError(t, json.Unmarshal([]byte(out), &products))
		slugs := make([]string, len(products))
		for i, p := range products {
			slugs[i] = p.Slug
		}
		return slugs
	}
	assert.Equal(t, []string{"classic-shoe", "leather-bag"}, list())
	assert.Equal(t, []string{"leather-bag"}, list("--query", "LEATHER"))
	assert.Equal(t, []string{"leather-bag"}, list("--query", "bg-010"))
	assert.Equal(t, []string{"classic-shoe"}, list("--category", "c1"))
	assert.Equal(t, []string{"leather-bag", "classic-shoe"}, list("--sort", "price-high"))
	assert.Equal(t, []string{"classic-shoe", "leather-bag"}, list("--featured"))

	_, err := s.run("products", "list", "--query", "shoe")
	assert.ErrorContains(t, err, "need --public")
	_, err = s.run("products", "list", "--public", "--sort", "cheapest")
	assert.ErrorContains(t, err, "invalid sort")

	out := s.mustRun("products", "list", "--public")
	assert.Contains(t, out, "STOCK")
	s.mustRun("settings", "set", "-f", writeJSON(t, `{"showStock": false}`))
	out = s.mustRun("products", "list", "--public")
	assert.NotContains(t, out, "STOCK")

	s.mustRun("lang", "en")
	link := strings.TrimSpace(s.mustRun("whatsapp-link", "leather-bag"))
	assert.True(t, strings.HasPrefix(link, "https://wa.me/966500000000?text="), link)
	assert.Contains(t, link, "Leather%20Bag%20%28BG-010%29")

	s.mustRun("settings", "set", "-f", writeJSON(t, `{"showCartButton": false, "showDirectOrderButton": false, "whatsapp": {"enabled": false}}`))
	_, err = s.run("cart", "add", "classic-shoe")
	assert.ErrorIs(t, err, checkout.ErrCartDisabled)
	_, err = s.run("checkout", "--product", "classic-shoe",
		"--name", "Sara", "--phone", "500000000", "--city", "Riyadh", "--address", "King Fahd Rd")
	assert.ErrorIs(t, err, checkout.ErrDirectOrderDisabled)
	_, err = s.run("whatsapp-link", "leather-bag")
	assert.ErrorIs(t, err, checkout.ErrWhatsAppDisabled)
}

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCategoriesAndSettings(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)
	s.mustRun("seed")

	out := s.mustRun("categories", "save", "--id", "c3", "--en", "Hats", "--order", "0")
	assert.Contains(t, out, "saved category c3 at 2")
	s.mustRun("categories", "reorder", "c3", "c1", "c2")
	cats, err := srv.client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, []string{"c3", "c1", "c2"}, []string{cats[0].ID, cats[1].ID, cats[2].ID})

	s.mustRun("categories", "save", "--id", "c3", "--ar", "قبعات")
	var local []models.Category
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("categories", "list", "--format", "json")), &local))
	require.Len(t, local, 3)
	assert.Equal(t, models.L("قبعات", "Hats"), local[0].Name)

	_, err = s.run("categories", "save", "--id", "c9")
	assert.ErrorContains(t, err, "needs a name")

	s.mustRun("settings", "set", "-f", writeJSON(t, `{"showStock": false, "header": {"siteName": {"ar": "متجري", "en": "My Shop"}}}`))
	var got models.Settings
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("settings", "show", "--format", "json")), &got))
	assert.False(t, got.ShowStock)
	assert.Equal(t, "My Shop", got.Header.SiteName.EN)
	assert.True(t, got.Slider.Enabled)

	patch, err := srv.client.Settings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, patch)
	merged := models.DefaultSettings().Merge(*patch)
	assert.Equal(t, "My Shop", merged.Header.SiteName.EN)
	assert.False(t, merged.ShowStock)
}

func TestUnreachableServerStillServesDemo(t *testing.T) {
	s := newSession(t, "http://127.0.0.1:1/api")
	var products []models.Product
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("products", "list", "--public", "--format", "json")), &products))
	assert.Len(t, products, 2)

	_, err := s.run("ping")
	assert.ErrorContains(t, err, "/ping")
}

func TestOfflineAndFormats(t *testing.T) {
	s := newSession(t, "http://127.0.0.1:1/api")
	s.flags = append(s.flags, "--offline", "--store", "memory")

	out := s.mustRun("products", "list", "--format", "yaml")
	assert.Equal(t, "[]", strings.TrimSpace(out))

	_, err := s.run("orders", "pull")
	assert.ErrorContains(t, err, "--offline")

	_, err = s.run("products", "list", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestDashboardAndUpload(t *testing.T) {
	srv := startServer(t)
	s := newSession(t, srv.URL)
	s.mustRun("seed")
	s.mustRun("checkout", "--product", "classic-shoe", "--qty", "3",
		"--name", "Sara", "--phone", "500000000", "--city", "Riyadh", "--address", "King Fahd Rd")

	var local, served models.DashboardStats
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("dashboard", "--format", "json")), &local))
	require.NoError(t, json.Unmarshal([]byte(s.mustRun("dashboard", "--server", "--format", "json")), &served))
	assert.Equal(t, 2, local.Products)
	assert.Equal(t, 1, local.Orders[models.StatusPending])
	assert.Equal(t, 597.0, local.Revenue)
	assert.Equal(t, local, served)

	img := filepath.Join(t.TempDir(), "shoe.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG fake"), 0o644))
	src := strings.TrimSpace(s.mustRun("upload", img))
	assert.True(t, strings.HasPrefix(src, "/uploads/"), src)
	assert.True(t, strings.HasSuffix(src, ".png"), src)

	resp, err := http.Get(strings.TrimSuffix(srv.URL, "/api") + src)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = s.run("upload", writeJSON(t, "{}"))
	assert.ErrorContains(t, err, "Unsupported image type")
}

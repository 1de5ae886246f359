package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	body   string
}

func newServer(t *testing.T, routes map[string]string) (*Client, func() []captured) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, captured{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		key := r.Method + " " + r.URL.Path
		resp, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	snapshot := func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), calls...)
	}
	return New(srv.URL+"/api/", time.Second, nil), snapshot
}

func TestClientReads(t *testing.T) {
	c, _ := newServer(t, map[string]string{
		"GET /api/settings":   `{"showStock": false}`,
		"GET /api/categories": `[{"id":"c1","name":{"ar":"أ","en":"A"},"order":0}]`,
		"GET /api/products":   `[{"id":"p1","name":{"en":"Shoe"},"images":[{"id":"i","src":"/s.png"}],"price":5}]`,
		"GET /api/orders":     `{"orders":[{"id":"o1","product_price":2,"quantity":2,"status":"pending"}]}`,
	})
	ctx := context.Background()

	s, err := c.Settings(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.False(t, *s.ShowStock)

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	prods, err := c.Products(ctx)
	require.NoError(t, err)
	require.Len(t, prods, 1)
	assert.Equal(t, "Shoe", prods[0].Name.EN)

	orders, err := c.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 4.0, orders[0].TotalAmount)
}

func TestClientEmptySettings(t *testing.T) {
	c, _ := newServer(t, map[string]string{"GET /api/settings": `{}`})
	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestClientNonSuccessStatus(t *testing.T) {
	c, _ := newServer(t, nil)
	_, err := c.Products(context.Background())
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, 200*time.Millisecond, nil)
	_, err := c.Categories(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStatus)
}

func TestClientWrites(t *testing.T) {
	ok := `{"ok":true}`
	c, calls := newServer(t, map[string]string{
		"POST /api/products":           ok,
		"DELETE /api/products/p 1":     ok,
		"POST /api/products/reorder":   ok,
		"POST /api/categories":         ok,
		"PUT /api/categories/c1":       ok,
		"DELETE /api/categories/c1":    ok,
		"POST /api/categories/reorder": ok,
		"POST /api/orders":             `{"ok":true,"id":"server-id"}`,
		"PATCH /api/orders/o1":         ok,
		"DELETE /api/orders/o1":        ok,
		"PUT /api/settings":            ok,
		"GET /api/ping":                `{"message":"pong"}`,
	})
	ctx := context.Background()
	cat := models.Category{ID: "c1", Name: models.L("أ", "A"), Order: 2}

	require.NoError(t, c.SaveProduct(ctx, models.Product{ID: "p1", SKU: "X"}))
	require.NoError(t, c.DeleteProduct(ctx, "p 1"))
	require.NoError(t, c.ReorderProducts(ctx, []string{"b", "a"}))
	require.NoError(t, c.SaveCategory(ctx, cat))
	require.NoError(t, c.UpdateCategory(ctx, cat))
	require.NoError(t, c.DeleteCategory(ctx, "c1"))
	require.NoError(t, c.ReorderCategories(ctx, []string{"c1"}))
	id, err := c.CreateOrder(ctx, models.Order{ID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "server-id", id)
	require.NoError(t, c.UpdateOrderStatus(ctx, "o1", models.StatusConfirmed))
	require.NoError(t, c.DeleteOrder(ctx, "o1"))
	require.NoError(t, c.SaveSettings(ctx, models.DefaultSettings()))
	require.NoError(t, c.Ping(ctx))

	got := calls()
	require.Len(t, got, 12)
	byKey := map[string]string{}
	for _, call := range got {
		byKey[call.method+" "+call.path] = call.body
	}
	assert.JSONEq(t, `{"ids":["b","a"]}`, byKey["POST /api/products/reorder"])
	assert.JSONEq(t, `{"id":"c1","name":{"ar":"أ","en":"A"},"order":2}`, byKey["POST /api/categories"])
	assert.JSONEq(t, `{"name":{"ar":"أ","en":"A"},"order":2}`, byKey["PUT /api/categories/c1"])
	assert.JSONEq(t, `{"status":"confirmed"}`, byKey["PATCH /api/orders/o1"])

	var sent models.Product
	require.NoError(t, json.Unmarshal([]byte(byKey["POST /api/products"]), &sent))
	assert.Equal(t, "p1", sent.ID)
}

func TestClientDashboardAndUpload(t *testing.T) {
	c, calls := newServer(t, map[string]string{
		"GET /api/dashboard": `{"products":3,"activeProducts":2,"orders":{"pending":1},"revenue":19.99}`,
		"POST /api/uploads":  `{"src":"/uploads/x.png"}`,
	})
	ctx := context.Background()

	stats, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Products)
	assert.Equal(t, 1, stats.Orders[models.StatusPending])
	assert.Equal(t, 19.99, stats.Revenue)

	src, err := c.UploadImage(ctx, "/tmp/photos/a.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/x.png", src)

	got := calls()
	require.Len(t, got, 2)
	assert.Contains(t, got[1].body, `filename="a.png"`)
	assert.Contains(t, got[1].body, "PNGDATA")
}

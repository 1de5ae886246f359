// Package remote is the HTTP client for the catalog API. Reads are mapped
// through tolerant decoders so a partly malformed payload still yields
// whatever records it can.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/01moynul/souq-catalog/internal/models"
	"go.uber.org/zap"
)

// ErrStatus wraps every non-2xx answer.
var ErrStatus = errors.New("remote: unexpected status")

const maxBody = 16 << 20

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

// New returns a client rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		now:     time.Now,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	if in == nil {
		return c.send(ctx, method, path, nil, "")
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return c.send(ctx, method, path, bytes.NewReader(raw), "application/json")
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s -> %d %s", ErrStatus, method, path, resp.StatusCode, snippet(out))
	}
	c.log.Debug("remote call", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
	return out, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func escape(id string) string { return url.PathEscape(id) }

// Settings returns the server's settings blob as a patch, or nil when the
// server has none.
func (c *Client) Settings(ctx context.Context) (*models.SettingsPatch, error) {
	body, err := c.do(ctx, http.MethodGet, "/settings", nil)
	if err != nil {
		return nil, err
	}
	return decodeSettings(body)
}

// Categories returns the server's categories in server order.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}
	return decodeCategories(body), nil
}

// Products returns the server's products, images ordered by position.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	return decodeProducts(body, c.now()), nil
}

// Orders returns the server's orders.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	return decodeOrders(body, c.now()), nil
}

func (c *Client) SaveProduct(ctx context.Context, p models.Product) error {
	_, err := c.do(ctx, http.MethodPost, "/products", p)
	return err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+escape(id), nil)
	return err
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (c *Client) ReorderProducts(ctx context.Context, ids []string) error {
	_, err := c.do(ctx, http.MethodPost, "/products/reorder", reorderRequest{IDs: ids})
	return err
}

type categoryRequest struct {
	ID    string           `json:"id,omitempty"`
	Name  models.Localized `json:"name"`
	Order int              `json:"order"`
}

func (c *Client) SaveCategory(ctx context.Context, cat models.Category) error {
	_, err := c.do(ctx, http.MethodPost, "/categories", categoryRequest{ID: cat.ID, Name: cat.Name, Order: cat.Order})
	return err
}

// UpdateCategory uses the PUT form, which never creates.
func (c *Client) UpdateCategory(ctx context.Context, cat models.Category) error {
	_, err := c.do(ctx, http.MethodPut, "/categories/"+escape(cat.ID), categoryRequest{Name: cat.Name, Order: cat.Order})
	return err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/categories/"+escape(id), nil)
	return err
}

func (c *Client) ReorderCategories(ctx context.Context, ids []string) error {
	_, err := c.do(ctx, http.MethodPost, "/categories/reorder", reorderRequest{IDs: ids})
	return err
}

type createdResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// CreateOrder posts o and returns the id the server stored it under.
func (c *Client) CreateOrder(ctx context.Context, o models.Order) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders", o)
	if err != nil {
		return "", err
	}
	var res createdResponse
	if err := json.Unmarshal(body, &res); err != nil || res.ID == "" {
		return o.ID, nil
	}
	return res.ID, nil
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	_, err := c.do(ctx, http.MethodPatch, "/orders/"+escape(id), statusRequest{Status: status})
	return err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/orders/"+escape(id), nil)
	return err
}

func (c *Client) SaveSettings(ctx context.Context, s models.Settings) error {
	_, err := c.do(ctx, http.MethodPut, "/settings", s)
	return err
}

// Ping checks the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/ping", nil)
	return err
}

// Dashboard returns the server's admin counters.
func (c *Client) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	body, err := c.do(ctx, http.MethodGet, "/dashboard", nil)
	if err != nil {
		return stats, err
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		return stats, fmt.Errorf("decode dashboard: %w", err)
	}
	return stats, nil
}

// UploadImage sends one image as multipart field "file" and returns the
// src the server will serve it under.
func (c *Client) UploadImage(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	body, err := c.send(ctx, http.MethodPost, "/uploads", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	var res struct {
		Src string `json:"src"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.Src == "" {
		return "", fmt.Errorf("upload %s: no src in response", name)
	}
	return res.Src, nil
}

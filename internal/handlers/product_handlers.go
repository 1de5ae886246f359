package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var errSlugTaken = errors.New("slug already used by another product")

const productColumns = `id, slug, sku, name_ar, name_en,
	short_description_ar, short_description_en, description_ar, description_en,
	video_url, price, stock, dozen_qty, size, featured, active, category_id,
	sort_order, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (models.Product, error) {
	var (
		p      models.Product
		price  decimal.Decimal
		dozen  sql.NullInt64
		active sql.NullBool
		cat    sql.NullString
	)
	err := s.Scan(
		&p.ID, &p.Slug, &p.SKU, &p.Name.AR, &p.Name.EN,
		&p.ShortDescription.AR, &p.ShortDescription.EN, &p.Description.AR, &p.Description.EN,
		&p.VideoURL, &price, &p.Stock, &dozen, &p.Size, &p.Featured, &active, &cat,
		&p.Order, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}
	p.Price = price.InexactFloat64()
	if dozen.Valid {
		n := int(dozen.Int64)
		p.DozenQty = &n
	}
	if active.Valid {
		b := active.Bool
		p.Active = &b
	}
	if cat.Valid && cat.String != "" {
		id := cat.String
		p.CategoryID = &id
	}
	p.Images = []models.ProductImage{}
	return p, nil
}

// loadProducts returns products ordered by rank then newest first, each
// with its images ordered by position. where may be empty.
func (h *Handlers) loadProducts(where string, args ...any) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY sort_order ASC, created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	index := map[string]int{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}

	imgRows, err := h.DB.Query(`SELECT product_id, id, src, caption_ar, caption_en, position
		FROM product_images ORDER BY product_id, position`)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var (
			productID string
			img       models.ProductImage
		)
		if err := imgRows.Scan(&productID, &img.ID, &img.Src, &img.Caption.AR, &img.Caption.EN, &img.Position); err != nil {
			return nil, err
		}
		if i, ok := index[productID]; ok {
			products[i].Images = append(products[i].Images, img)
		}
	}
	return products, imgRows.Err()
}

// GetProducts answers the full list. The storefront filters inactive
// products itself; the admin panel needs them all.
func (h *Handlers) GetProducts(c *gin.Context) {
	products, err := h.loadProducts("")
	if err != nil {
		h.internalError(c, "Failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct looks a product up by id, then by slug.
func (h *Handlers) GetProduct(c *gin.Context) {
	key := c.Param("id")
	products, err := h.loadProducts("id = ? OR slug = ?", key, key)
	if err != nil {
		h.internalError(c, "Failed to fetch product", err)
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	for _, p := range products {
		if p.ID == key {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusOK, products[0])
}

// prepareProduct fills server-side defaults and resolves the slug inside tx.
func (h *Handlers) prepareProduct(tx *sql.Tx, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = h.now().UnixMilli()
	}

	if p.Slug != "" {
		var owner string
		err := tx.QueryRow("SELECT id FROM products WHERE slug = ?", p.Slug).Scan(&owner)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return err
		case owner != p.ID:
			return errSlugTaken
		}
		return nil
	}

	base := slug.Make(p.Name.Resolve(models.LangEN))
	if base == "" {
		base = "product"
	}
	candidate := base
	for n := 2; ; n++ {
		var owner string
		err := tx.QueryRow("SELECT id FROM products WHERE slug = ?", candidate).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner == p.ID) {
			p.Slug = candidate
			return nil
		}
		if err != nil {
			return err
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableString(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

// writeProduct upserts p and replaces its image set. Image positions follow
// array order.
func writeProduct(tx *sql.Tx, p models.Product, exists bool) error {
	price := decimal.NewFromFloat(p.Price).Round(2)
	args := []any{
		p.Slug, p.SKU, p.Name.AR, p.Name.EN,
		p.ShortDescription.AR, p.ShortDescription.EN, p.Description.AR, p.Description.EN,
		p.VideoURL, price, p.Stock, nullableInt(p.DozenQty), p.Size, p.Featured,
		nullableBool(p.Active), nullableString(p.CategoryID), p.Order, p.CreatedAt, p.ID,
	}
	var err error
	if exists {
		_, err = tx.Exec(`UPDATE products SET
			slug = ?, sku = ?, name_ar = ?, name_en = ?,
			short_description_ar = ?, short_description_en = ?, description_ar = ?, description_en = ?,
			video_url = ?, price = ?, stock = ?, dozen_qty = ?, size = ?, featured = ?,
			active = ?, category_id = ?, sort_order = ?, created_at = ?
			WHERE id = ?`, args...)
	} else {
		_, err = tx.Exec(`INSERT INTO products (
			slug, sku, name_ar, name_en,
			short_description_ar, short_description_en, description_ar, description_en,
			video_url, price, stock, dozen_qty, size, featured,
			active, category_id, sort_order, created_at, id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM product_images WHERE product_id = ?", p.ID); err != nil {
		return err
	}
	seen := map[string]bool{}
	for i, img := range p.Images {
		if img.ID == "" || seen[img.ID] {
			img.ID = uuid.NewString()
		}
		seen[img.ID] = true
		if _, err := tx.Exec(`INSERT INTO product_images (product_id, id, src, caption_ar, caption_en, position)
			VALUES (?, ?, ?, ?, ?, ?)`, p.ID, img.ID, img.Src, img.Caption.AR, img.Caption.EN, i); err != nil {
			return err
		}
	}
	return nil
}

// SaveProduct (POST /products) creates or updates a product by id and
// replaces its images.
func (h *Handlers) SaveProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.storeProduct(c, p, false)
}

// UpdateProduct (PUT /products/:id) replaces an existing product.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = c.Param("id")
	h.storeProduct(c, p, true)
}

func (h *Handlers) storeProduct(c *gin.Context, p models.Product, mustExist bool) {
	// 1. --- Validation ---
	p.SKU = strings.TrimSpace(p.SKU)
	p.Slug = strings.TrimSpace(p.Slug)
	if err := models.ValidateProduct(p); err != nil {
		validationFailed(c, err)
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.internalError(c, "DB Transaction failed", err)
		return
	}
	defer tx.Rollback()

	// 2. --- Existence ---
	exists := false
	if p.ID != "" {
		if exists, err = rowExists(tx, "products", p.ID); err != nil {
			h.internalError(c, "Failed to save product", err)
			return
		}
	}
	if mustExist && !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// 3. --- Defaults and slug ---
	if err := h.prepareProduct(tx, &p); err != nil {
		if errors.Is(err, errSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Slug is already used by another product"})
			return
		}
		h.internalError(c, "Failed to save product", err)
		return
	}

	// 4. --- Write ---
	if err := writeProduct(tx, p, exists); err != nil {
		h.internalError(c, "Failed to save product", err)
		return
	}
	if err := tx.Commit(); err != nil {
		h.internalError(c, "Failed to save product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": p.ID, "slug": p.Slug})
}

// DeleteProduct hard-deletes a product and its images. Unknown ids succeed.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	tx, err := h.DB.Begin()
	if err != nil {
		h.internalError(c, "DB Transaction failed", err)
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM product_images WHERE product_id = ?", id); err != nil {
		h.internalError(c, "Failed to delete product", err)
		return
	}
	if _, err := tx.Exec("DELETE FROM products WHERE id = ?", id); err != nil {
		h.internalError(c, "Failed to delete product", err)
		return
	}
	if err := tx.Commit(); err != nil {
		h.internalError(c, "Failed to delete product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReorderProducts (POST /products/reorder) sets sort_order from {ids}.
func (h *Handlers) ReorderProducts(c *gin.Context) {
	h.reorder(c, "products")
}

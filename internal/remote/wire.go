package remote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/01moynul/souq-catalog/internal/models"
)

// Inbound shapes. Each accepts both the camelCase keys the current API
// writes and the snake_case keys older servers and raw SQL rows use.

type wireImage struct {
	ID       flexString    `json:"id"`
	Src      flexString    `json:"src"`
	Caption  flexLocalized `json:"caption"`
	Position *flexInt      `json:"position"`
}

type wireProduct struct {
	ID                    flexString          `json:"id"`
	Slug                  flexString          `json:"slug"`
	SKU                   flexString          `json:"sku"`
	Name                  flexLocalized       `json:"name"`
	ShortDescription      flexLocalized       `json:"shortDescription"`
	ShortDescriptionSnake flexLocalized       `json:"short_description"`
	Description           flexLocalized       `json:"description"`
	Images                flexList[wireImage] `json:"images"`
	VideoURL              flexString          `json:"videoUrl"`
	VideoURLSnake         flexString          `json:"video_url"`
	Price                 flexFloat           `json:"price"`
	Stock                 flexInt             `json:"stock"`
	DozenQty              *flexInt            `json:"dozenQty"`
	DozenQtySnake         *flexInt            `json:"dozen_qty"`
	Size                  flexString          `json:"size"`
	Featured              flexBool            `json:"featured"`
	Active                *flexBool           `json:"active"`
	CategoryID            flexString          `json:"categoryId"`
	CategoryIDSnake       flexString          `json:"category_id"`
	CreatedAt             flexMillis          `json:"createdAt"`
	CreatedAtSnake        flexMillis          `json:"created_at"`
	Order                 flexInt             `json:"order"`
}

type wireCategory struct {
	ID    flexString    `json:"id"`
	Name  flexLocalized `json:"name"`
	Order flexInt       `json:"order"`
}

type wireOrder struct {
	ID                 flexString    `json:"id"`
	ProductID          flexString    `json:"productId"`
	ProductIDSnake     flexString    `json:"product_id"`
	ProductName        flexLocalized `json:"productName"`
	ProductNameAR      flexString    `json:"product_name_ar"`
	ProductNameEN      flexString    `json:"product_name_en"`
	ProductSKU         flexString    `json:"productSku"`
	ProductSKUSnake    flexString    `json:"product_sku"`
	ProductPrice       *flexFloat    `json:"productPrice"`
	ProductPriceSnake  *flexFloat    `json:"product_price"`
	CustomerName       flexString    `json:"customerName"`
	CustomerNameSnake  flexString    `json:"customer_name"`
	CustomerPhone      flexString    `json:"customerPhone"`
	CustomerPhoneSnake flexString    `json:"customer_phone"`
	Country            flexLocalized `json:"country"`
	CountryAR          flexString    `json:"country_ar"`
	CountryEN          flexString    `json:"country_en"`
	City               flexString    `json:"city"`
	Address            flexString    `json:"address"`
	Quantity           flexInt       `json:"quantity"`
	Notes              flexString    `json:"notes"`
	TotalAmount        flexFloat     `json:"totalAmount"`
	TotalAmountSnake   flexFloat     `json:"total_amount"`
	Status             flexString    `json:"status"`
	CreatedAt          flexMillis    `json:"createdAt"`
	CreatedAtSnake     flexMillis    `json:"created_at"`
	OrderDate          flexString    `json:"orderDate"`
	OrderDateSnake     flexString    `json:"order_date"`
	OrderTime          flexString    `json:"orderTime"`
	OrderTimeSnake     flexString    `json:"order_time"`
}

// toProduct maps a server row to the local schema. Defaults:
// missing descriptions and captions are empty Localized values, videoUrl is
// "", dozenQty and categoryId are unset, active is unset (treated as
// active), createdAt is now, image ids are derived from the product id and
// images are ordered by position then by array index.
func toProduct(w wireProduct, now time.Time) models.Product {
	p := models.Product{
		ID:               string(w.ID),
		Slug:             string(w.Slug),
		SKU:              string(w.SKU),
		Name:             w.Name.value(),
		ShortDescription: firstLocalized(w.ShortDescription, w.ShortDescriptionSnake),
		Description:      w.Description.value(),
		VideoURL:         firstString(w.VideoURL, w.VideoURLSnake),
		Price:            float64(w.Price),
		Stock:            int(w.Stock),
		Size:             string(w.Size),
		Featured:         bool(w.Featured),
		CreatedAt:        int64(w.CreatedAt),
		Order:            int(w.Order),
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = int64(w.CreatedAtSnake)
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = now.UnixMilli()
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	switch {
	case w.DozenQty != nil:
		n := int(*w.DozenQty)
		p.DozenQty = &n
	case w.DozenQtySnake != nil:
		n := int(*w.DozenQtySnake)
		p.DozenQty = &n
	}
	if w.Active != nil {
		b := bool(*w.Active)
		p.Active = &b
	}
	if id := firstString(w.CategoryID, w.CategoryIDSnake); id != "" {
		p.CategoryID = &id
	}

	type positioned struct {
		img models.ProductImage
		pos int
	}
	imgs := make([]positioned, 0, len(w.Images))
	for i, wi := range w.Images {
		if strings.TrimSpace(string(wi.Src)) == "" {
			continue
		}
		pos := i
		if wi.Position != nil {
			pos = int(*wi.Position)
		}
		id := string(wi.ID)
		if id == "" {
			id = fmt.Sprintf("%s-img-%d", p.ID, i)
		}
		imgs = append(imgs, positioned{
			img: models.ProductImage{ID: id, Src: string(wi.Src), Caption: wi.Caption.value()},
			pos: pos,
		})
	}
	sort.SliceStable(imgs, func(i, j int) bool { return imgs[i].pos < imgs[j].pos })
	p.Images = make([]models.ProductImage, len(imgs))
	for i := range imgs {
		p.Images[i] = imgs[i].img
	}
	p.NormalizeImages()
	return p
}

func toCategory(w wireCategory) models.Category {
	return models.Category{
		ID:    string(w.ID),
		Name:  w.Name.value(),
		Order: int(w.Order),
	}
}

// toOrder maps a server order. Defaults: unknown status is pending, a
// zero total is recomputed from price and quantity, missing date and time
// are taken from createdAt (itself now when absent), and the time is
// forced to the 24-hour clock.
func toOrder(w wireOrder, now time.Time) models.Order {
	o := models.Order{
		ID:            string(w.ID),
		ProductID:     firstString(w.ProductID, w.ProductIDSnake),
		ProductName:   firstLocalized(w.ProductName, flexLocalized{AR: string(w.ProductNameAR), EN: string(w.ProductNameEN)}),
		ProductSKU:    firstString(w.ProductSKU, w.ProductSKUSnake),
		CustomerName:  firstString(w.CustomerName, w.CustomerNameSnake),
		CustomerPhone: firstString(w.CustomerPhone, w.CustomerPhoneSnake),
		Country:       firstLocalized(w.Country, flexLocalized{AR: string(w.CountryAR), EN: string(w.CountryEN)}),
		City:          string(w.City),
		Address:       string(w.Address),
		Quantity:      int(w.Quantity),
		Notes:         string(w.Notes),
		Status:        models.OrderStatus(strings.ToLower(strings.TrimSpace(string(w.Status)))),
		CreatedAt:     int64(w.CreatedAt),
	}
	switch {
	case w.ProductPrice != nil:
		o.ProductPrice = float64(*w.ProductPrice)
	case w.ProductPriceSnake != nil:
		o.ProductPrice = float64(*w.ProductPriceSnake)
	}
	if !o.Status.Valid() {
		o.Status = models.StatusPending
	}
	if o.CreatedAt == 0 {
		o.CreatedAt = int64(w.CreatedAtSnake)
	}
	if o.CreatedAt == 0 {
		o.CreatedAt = now.UnixMilli()
	}
	created := time.UnixMilli(o.CreatedAt)

	o.TotalAmount = float64(w.TotalAmount)
	if o.TotalAmount == 0 {
		o.TotalAmount = float64(w.TotalAmountSnake)
	}
	if o.TotalAmount == 0 {
		o.TotalAmount = models.OrderTotal(o.ProductPrice, o.Quantity)
	}

	o.OrderDate = created.Format(models.OrderDateLayout)
	if d := firstString(w.OrderDate, w.OrderDateSnake); len(d) >= len(models.OrderDateLayout) {
		if _, err := time.Parse(models.OrderDateLayout, d[:len(models.OrderDateLayout)]); err == nil {
			o.OrderDate = d[:len(models.OrderDateLayout)]
		}
	}
	o.OrderTime = models.NormalizeOrderTime(firstString(w.OrderTime, w.OrderTimeSnake), created)
	return o
}

// decodeProducts accepts a bare array or {"products": [...]}. Elements
// without an id are dropped.
func decodeProducts(body []byte, now time.Time) []models.Product {
	var list flexList[wireProduct]
	_ = json.Unmarshal(unwrap(body, "products"), &list)
	out := make([]models.Product, 0, len(list))
	for _, w := range list {
		if p := toProduct(w, now); p.ID != "" {
			out = append(out, p)
		}
	}
	return out
}

func decodeCategories(body []byte) []models.Category {
	var list flexList[wireCategory]
	_ = json.Unmarshal(unwrap(body, "categories"), &list)
	out := make([]models.Category, 0, len(list))
	for _, w := range list {
		if c := toCategory(w); c.ID != "" {
			out = append(out, c)
		}
	}
	return out
}

// decodeOrders accepts {"orders": [...]} or a bare array.
func decodeOrders(body []byte, now time.Time) []models.Order {
	var list flexList[wireOrder]
	_ = json.Unmarshal(unwrap(body, "orders"), &list)
	out := make([]models.Order, 0, len(list))
	for _, w := range list {
		if o := toOrder(w, now); o.ID != "" {
			out = append(out, o)
		}
	}
	return out
}

// unwrap returns body[key] when body is an object holding key.
func unwrap(body []byte, key string) []byte {
	var obj map[string]json.RawMessage
	if json.Unmarshal(body, &obj) == nil {
		if inner, ok := obj[key]; ok {
			return inner
		}
	}
	return body
}

// decodeSettings reads a settings blob section by section so that one
// malformed section does not discard the rest. It returns nil when the
// blob holds nothing usable.
func decodeSettings(body []byte) (*models.SettingsPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	var p models.SettingsPatch
	sections := map[string]func(json.RawMessage) bool{
		"currency":              section(&p.Currency),
		"showCartButton":        section(&p.ShowCartButton),
		"showDirectOrderButton": section(&p.ShowDirectOrderButton),
		"showStock":             section(&p.ShowStock),
		"enableComments":        section(&p.EnableComments),
		"whatsapp":              section(&p.WhatsApp),
		"header":                section(&p.Header),
		"footer":                section(&p.Footer),
		"slider":                section(&p.Slider),
	}
	used := 0
	for key, raw := range fields {
		if decode, ok := sections[key]; ok && decode(raw) {
			used++
		}
	}
	if used == 0 {
		return nil, nil
	}
	return &p, nil
}

func section[T any](dst **T) func(json.RawMessage) bool {
	return func(raw json.RawMessage) bool {
		if strings.TrimSpace(string(raw)) == "null" {
			return false
		}
		var v T
		if json.Unmarshal(raw, &v) != nil {
			return false
		}
		*dst = &v
		return true
	}
}

package remote

import (
	"testing"
	"time"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 6, 14, 30, 0, 0, time.UTC)

func TestDecodeProductsCamelCase(t *testing.T) {
	body := `[{
		"id": "p1", "slug": "classic-shoe", "sku": "SH-001",
		"name": {"ar": "حذاء", "en": "Shoe"},
		"shortDescription": {"ar": "قصير", "en": "short"},
		"description": {"ar": "", "en": "long"},
		"images": [
			{"id": "i2", "src": "/2.png", "position": 1},
			{"id": "i1", "src": "/1.png", "caption": {"ar": "١", "en": "1"}, "position": 0}
		],
		"videoUrl": "https://v", "price": 199, "stock": 25, "dozenQty": 12,
		"size": "42", "featured": true, "active": false, "categoryId": "c1",
		"createdAt": 1700000000000, "order": 3
	}]`

	got := decodeProducts([]byte(body), now)
	require.Len(t, got, 1)
	p := got[0]
	dozen, cat, active := 12, "c1", false
	assert.Equal(t, models.Product{
		ID:               "p1",
		Slug:             "classic-shoe",
		SKU:              "SH-001",
		Name:             models.L("حذاء", "Shoe"),
		ShortDescription: models.L("قصير", "short"),
		Description:      models.L("", "long"),
		Images: []models.ProductImage{
			{ID: "i1", Src: "/1.png", Caption: models.L("١", "1"), Position: 0},
			{ID: "i2", Src: "/2.png", Position: 1},
		},
		VideoURL:   "https://v",
		Price:      199,
		Stock:      25,
		DozenQty:   &dozen,
		Size:       "42",
		Featured:   true,
		Active:     &active,
		CategoryID: &cat,
		CreatedAt:  1700000000000,
		Order:      3,
	}, p)
}

func TestDecodeProductsSnakeCaseAndDefaults(t *testing.T) {
	body := `[{
		"id": "p2", "sku": "BG-010", "name": "{\"ar\":\"حقيبة\",\"en\":\"Bag\"}",
		"short_description": {"en": "snake"},
		"price": "349.50", "stock": "10", "dozen_qty": 6, "category_id": "c2",
		"created_at": "2024-01-02T03:04:05.000Z",
		"images": [{"src": "/bag.png"}, {"src": ""}, 7]
	}]`

	p := decodeProducts([]byte(body), now)[0]
	assert.Equal(t, models.L("حقيبة", "Bag"), p.Name)
	assert.Equal(t, "snake", p.ShortDescription.EN)
	assert.True(t, p.Description.IsEmpty())
	assert.Equal(t, 349.5, p.Price)
	assert.Equal(t, 10, p.Stock)
	require.NotNil(t, p.DozenQty)
	assert.Equal(t, 6, *p.DozenQty)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "c2", *p.CategoryID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(), p.CreatedAt)
	assert.Empty(t, p.VideoURL)
	assert.Nil(t, p.Active)
	assert.True(t, p.IsActive())
	require.Len(t, p.Images, 1)
	assert.Equal(t, "p2-img-0", p.Images[0].ID)
}

func TestDecodeProductsSkipsBadElements(t *testing.T) {
	body := `[{"id": "ok", "price": {"nested": true}, "stock": null}, "junk", {"name": {"en": "no id"}}]`
	got := decodeProducts([]byte(body), now)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
	assert.Zero(t, got[0].Price)
	assert.Equal(t, now.UnixMilli(), got[0].CreatedAt)
	assert.NotNil(t, got[0].Images)

	assert.Empty(t, decodeProducts([]byte(`{"error": "boom"}`), now))
	assert.Empty(t, decodeProducts([]byte(`not json`), now))
}

func TestDecodeCategories(t *testing.T) {
	got := decodeCategories([]byte(`[{"id":"c1","name":{"ar":"أحذية","en":"Shoes"},"order":"1"},{"name":"x"}]`))
	assert.Equal(t, []models.Category{{ID: "c1", Name: models.L("أحذية", "Shoes"), Order: 1}}, got)
}

func TestDecodeOrdersSnakeCase(t *testing.T) {
	body := `{"orders": [{
		"id": "o1", "product_id": "p1",
		"product_name_ar": "حذاء", "product_name_en": "Shoe",
		"product_sku": "SH-001", "product_price": "50.00",
		"customer_name": "Sara", "customer_phone": "+966 5",
		"country_ar": "السعودية", "country_en": null,
		"city": "Riyadh", "address": "Street", "quantity": 3, "notes": null,
		"total_amount": "150.00", "status": "SHIPPED",
		"order_date": "2025-05-06T00:00:00.000Z", "order_time": "2:05:09 م",
		"created_at": "2025-05-06 14:05:09.123"
	}]}`

	got := decodeOrders([]byte(body), now)
	require.Len(t, got, 1)
	o := got[0]
	assert.Equal(t, "p1", o.ProductID)
	assert.Equal(t, models.L("حذاء", "Shoe"), o.ProductName)
	assert.Equal(t, models.L("السعودية", ""), o.Country)
	assert.Equal(t, 50.0, o.ProductPrice)
	assert.Equal(t, 150.0, o.TotalAmount)
	assert.Equal(t, models.StatusShipped, o.Status)
	assert.Equal(t, "2025-05-06", o.OrderDate)
	assert.Equal(t, "14:05:09", o.OrderTime)
	assert.Empty(t, o.Notes)
}

func TestDecodeOrdersDefaults(t *testing.T) {
	body := `[{"id": "o2", "productPrice": 19.99, "quantity": 3, "status": "lost", "createdAt": 1746541800000}]`
	o := decodeOrders([]byte(body), now)[0]
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, 59.97, o.TotalAmount)
	created := time.UnixMilli(1746541800000)
	assert.Equal(t, created.Format(models.OrderDateLayout), o.OrderDate)
	assert.Equal(t, created.Format(models.OrderTimeLayout), o.OrderTime)
}

func TestDecodeSettings(t *testing.T) {
	p, err := decodeSettings([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = decodeSettings([]byte(`{"unknown": 1, "header": null}`))
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = decodeSettings([]byte(`[]`))
	assert.Error(t, err)

	p, err = decodeSettings([]byte(`{
		"showStock": false,
		"header": {"siteName": {"en": "Remote"}},
		"footer": "broken",
		"slider": {"images": [{"id": "r1", "src": "/r.png"}]}
	}`))
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.ShowStock)
	assert.False(t, *p.ShowStock)
	assert.Nil(t, p.Footer, "malformed section is skipped")
	require.NotNil(t, p.Header)
	assert.Equal(t, "Remote", *p.Header.SiteName.EN)
	assert.Nil(t, p.Header.SiteName.AR)
	require.NotNil(t, p.Slider.Images)
	assert.Len(t, *p.Slider.Images, 1)

	merged := models.DefaultSettings().Merge(*p)
	assert.Equal(t, "Remote", merged.Header.SiteName.EN)
	assert.Equal(t, models.DefaultSettings().Footer, merged.Footer)
}

func TestFlexScalars(t *testing.T) {
	var s flexString
	require.NoError(t, s.UnmarshalJSON([]byte(`12.5`)))
	assert.Equal(t, flexString("12.5"), s)

	var b flexBool
	require.NoError(t, b.UnmarshalJSON([]byte(`"true"`)))
	assert.True(t, bool(b))
	require.NoError(t, b.UnmarshalJSON([]byte(`0`)))
	assert.False(t, bool(b))

	var n flexInt
	require.NoError(t, n.UnmarshalJSON([]byte(`"2.6"`)))
	assert.Equal(t, flexInt(3), n)
	require.NoError(t, n.UnmarshalJSON([]byte(`[1]`)))
	assert.Equal(t, flexInt(0), n)

	var l flexLocalized
	require.NoError(t, l.UnmarshalJSON([]byte(`"plain"`)))
	assert.Equal(t, models.L("plain", "plain"), l.value())

	var m flexMillis
	require.NoError(t, m.UnmarshalJSON([]byte(`"1700000000000"`)))
	assert.Equal(t, flexMillis(1700000000000), m)
	require.NoError(t, m.UnmarshalJSON([]byte(`"yesterday"`)))
	assert.Zero(t, m)
}

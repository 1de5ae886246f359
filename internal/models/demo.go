package models

// Demo content used when a fresh client cannot load anything from the server.

func DemoSiteName() Localized { return L("كتالوج", "Catalog") }
func DemoLogoAlt() Localized  { return L("شعار", "Logo") }

func DemoSlides() []SlideImage {
	return []SlideImage{
		{ID: "s1", Src: "/slide-1-abstract-network.png"},
		{ID: "s2", Src: "/slide-2-abstract.png"},
		{ID: "s3", Src: "/slide-3-abstract.png"},
	}
}

func DemoCategories() []Category {
	return []Category{
		{ID: "c1", Name: L("أحذية", "Shoes"), Order: 0},
		{ID: "c2", Name: L("حقائب", "Bags"), Order: 1},
	}
}

// DemoProducts builds the two sample products. newID supplies product and
// image ids; createdAt is epoch millis.
func DemoProducts(newID func() string, createdAt int64) []Product {
	shoeCat, bagCat := "c1", "c2"
	twelve, six := 12, 6
	return []Product{
		{
			ID:               newID(),
			Slug:             "classic-shoe",
			SKU:              "SH-001",
			Name:             L("حذاء كلاسيكي", "Classic Shoe"),
			ShortDescription: L("حذاء مريح وأنيق.", "Comfortable and stylish shoe."),
			Description:      L("تفاصيل طويلة عن المنتج.", "Long details about the product."),
			Images: []ProductImage{
				{ID: newID(), Src: "/single-athletic-shoe.png", Caption: L("صورة 1", "Image 1"), Position: 0},
				{ID: newID(), Src: "/shoe-2.png", Caption: L("صورة 2", "Image 2"), Position: 1},
			},
			Price:      199,
			Stock:      25,
			DozenQty:   &twelve,
			Size:       "42",
			Featured:   true,
			CategoryID: &shoeCat,
			CreatedAt:  createdAt,
			Order:      0,
		},
		{
			ID:               newID(),
			Slug:             "leather-bag",
			SKU:              "BG-010",
			Name:             L("حقيبة جلد", "Leather Bag"),
			ShortDescription: L("حقيبة جلد فاخرة.", "Premium leather bag."),
			Description:      L("وصف تفصيلي.", "Detailed description."),
			Images: []ProductImage{
				{ID: newID(), Src: "/bag-1.png", Caption: L("صورة 1", "Image 1"), Position: 0},
			},
			Price:      349,
			Stock:      10,
			DozenQty:   &six,
			Featured:   true,
			CategoryID: &bagCat,
			CreatedAt:  createdAt,
			Order:      1,
		},
	}
}

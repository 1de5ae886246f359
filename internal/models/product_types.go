package models

import (
	"strings"
	"unicode"
)

// ProductImage is one entry in a product's gallery. Position is the
// 0-based rank inside the parent product's image list.
type ProductImage struct {
	ID       string    `json:"id"`
	Src      string    `json:"src" validate:"required"`
	Caption  Localized `json:"caption"`
	Position int       `json:"position"`
}

// Product is a catalog item. Active only governs the public storefront;
// the admin panel always sees every product.
type Product struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug"`
	SKU              string         `json:"sku" validate:"required"`
	Name             Localized      `json:"name" validate:"required"`
	ShortDescription Localized      `json:"shortDescription"`
	Description      Localized      `json:"description"`
	Images           []ProductImage `json:"images" validate:"min=1,dive"`
	VideoURL         string         `json:"videoUrl,omitempty"`
	Price            float64        `json:"price" validate:"gt=0"`
	Stock            int            `json:"stock" validate:"gte=0"`
	DozenQty         *int           `json:"dozenQty,omitempty" validate:"omitempty,gte=0"`
	Size             string         `json:"size,omitempty"`
	Featured         bool           `json:"featured"`
	Active           *bool          `json:"active,omitempty"`
	CategoryID       *string        `json:"categoryId,omitempty"`
	CreatedAt        int64          `json:"createdAt"`
	Order            int            `json:"order"`
}

// IsActive treats a missing flag as active.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}

func (p Product) Key() string   { return p.ID }
func (p Product) Rank() int     { return p.Order }
func (p *Product) SetRank(i int) { p.Order = i }

// NormalizeImages rewrites image positions to follow slice order.
func (p *Product) NormalizeImages() {
	for i := range p.Images {
		p.Images[i].Position = i
	}
}

// MakeSlug lower-cases s, drops everything except letters, digits,
// hyphens and whitespace, then joins the remaining words with single hyphens.
func MakeSlug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

// DeriveSlug builds a slug from the English name, falling back to Arabic.
func DeriveSlug(name Localized) string {
	src := name.EN
	if strings.TrimSpace(src) == "" {
		src = name.AR
	}
	if s := MakeSlug(src); s != "" {
		return s
	}
	return "product"
}

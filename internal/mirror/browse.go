package mirror

import (
	"fmt"
	"sort"
	"strings"

	"github.com/01moynul/souq-catalog/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBy is a storefront listing order.
type SortBy string

const (
	SortOrder     SortBy = "order"
	SortName      SortBy = "name"
	SortPriceLow  SortBy = "price-low"
	SortPriceHigh SortBy = "price-high"
	SortNewest    SortBy = "newest"
)

var SortOptions = []SortBy{SortOrder, SortName, SortPriceLow, SortPriceHigh, SortNewest}

// ParseSort accepts one of SortOptions; "" means SortOrder.
func ParseSort(s string) (SortBy, error) {
	if s == "" {
		return SortOrder, nil
	}
	for _, o := range SortOptions {
		if SortBy(s) == o {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q: must be one of order, name, price-low, price-high, newest", s)
}

// FeaturedLimit caps the featured strip on the home page.
const FeaturedLimit = 8

// ProductQuery narrows and orders the public catalog.
type ProductQuery struct {
	Query      string // matched against names, SKU and short descriptions
	CategoryID string // "" or "all" for every category
	Sort       SortBy
	Featured   bool // featured products only, at most FeaturedLimit
	Lang       models.Lang
}

// Browse is the visitor's product listing: active products filtered and
// sorted by q. Like PublicProducts it reads the mirror on every call.
func (s *Store) Browse(q ProductQuery) ([]models.Product, error) {
	products, err := s.PublicProducts()
	if err != nil {
		return nil, err
	}
	return q.Apply(products), nil
}

// Apply filters and sorts products without touching the input slice.
func (q ProductQuery) Apply(products []models.Product) []models.Product {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Query))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Featured && !p.Featured {
			continue
		}
		if q.CategoryID != "" && q.CategoryID != "all" && (p.CategoryID == nil || *p.CategoryID != q.CategoryID) {
			continue
		}
		if needle != "" && !matches(fold, p, needle) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortName:
		col := collate.New(langTag(q.Lang))
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name.Resolve(q.Lang), out[j].Name.Resolve(q.Lang)) < 0
		})
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	default:
		sortByRank(out)
	}

	if q.Featured && len(out) > FeaturedLimit {
		out = out[:FeaturedLimit]
	}
	return out
}

func matches(fold cases.Caser, p models.Product, needle string) bool {
	for _, field := range []string{p.Name.AR, p.Name.EN, p.SKU, p.ShortDescription.AR, p.ShortDescription.EN} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

func langTag(l models.Lang) language.Tag {
	if l == models.LangEN {
		return language.English
	}
	return language.Arabic
}

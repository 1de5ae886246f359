// Package checkout turns the visitor's cart into orders.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrUnavailable         = errors.New("product is no longer available")
	ErrCartDisabled        = errors.New("the cart is turned off in settings")
	ErrDirectOrderDisabled = errors.New("direct ordering is turned off in settings")
	ErrWhatsAppDisabled    = errors.New("whatsapp ordering is turned off in settings")
)

// Country is a shipping destination offered on the checkout form.
type Country struct {
	Code   string
	Name   models.Localized
	Prefix string
}

var Countries = []Country{
	{Code: "SA", Name: models.L("السعودية", "Saudi Arabia"), Prefix: "+966"},
	{Code: "AE", Name: models.L("الإمارات", "UAE"), Prefix: "+971"},
	{Code: "KW", Name: models.L("الكويت", "Kuwait"), Prefix: "+965"},
	{Code: "QA", Name: models.L("قطر", "Qatar"), Prefix: "+974"},
	{Code: "BH", Name: models.L("البحرين", "Bahrain"), Prefix: "+973"},
	{Code: "OM", Name: models.L("عمان", "Oman"), Prefix: "+968"},
	{Code: "JO", Name: models.L("الأردن", "Jordan"), Prefix: "+962"},
	{Code: "LB", Name: models.L("لبنان", "Lebanon"), Prefix: "+961"},
	{Code: "EG", Name: models.L("مصر", "Egypt"), Prefix: "+20"},
}

const DefaultCountry = "SA"

// LookupCountry finds a country by its two-letter code.
func LookupCountry(code string) (Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// Form is what the visitor fills in. Phone is the local number; the
// country's dialling prefix is prepended when the order is built.
type Form struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,numeric,min=6"`
	CountryCode string `json:"countryCode" validate:"required,oneof=SA AE KW QA BH OM JO LB EG"`
	City        string `json:"city" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Notes       string `json:"notes"`
}

func (f Form) normalized() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, f.Phone)
	f.CountryCode = strings.ToUpper(strings.TrimSpace(f.CountryCode))
	if f.CountryCode == "" {
		f.CountryCode = DefaultCountry
	}
	f.City = strings.TrimSpace(f.City)
	f.Address = strings.TrimSpace(f.Address)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func (f Form) customer() models.Customer {
	c, _ := LookupCountry(f.CountryCode)
	return models.Customer{
		Name:    f.Name,
		Phone:   c.Prefix + f.Phone,
		Country: c.Name,
		City:    f.City,
		Address: f.Address,
		Notes:   f.Notes,
	}
}

// Service places orders against a mirror.
type Service struct {
	store *mirror.Store
	log   *zap.Logger
	now   func() time.Time
}

func New(store *mirror.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}

// PlaceOrders creates one order per cart line from the current product
// data and empties the cart. Nothing is placed unless every line still
// refers to an active product.
func (s *Service) PlaceOrders(form Form) ([]models.Order, error) {
	form = form.normalized()
	if err := models.Validate(form); err != nil {
		return nil, err
	}
	cart, err := s.store.Cart()
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	products := make([]models.Product, len(cart))
	for i, line := range cart {
		p, err := s.available(line.ProductID)
		if err != nil {
			return nil, err
		}
		products[i] = p
	}

	customer := form.customer()
	now := s.now()
	placed := make([]models.Order, 0, len(cart))
	for i, line := range cart {
		o, err := s.store.PlaceOrder(models.NewOrder(products[i], customer, line.Qty, now))
		if err != nil {
			return placed, fmt.Errorf("place order for %s: %w", products[i].SKU, err)
		}
		placed = append(placed, o)
	}
	if err := s.store.ClearCart(); err != nil {
		return placed, err
	}
	s.log.Info("checkout complete", zap.Int("orders", len(placed)), zap.String("country", form.CountryCode))
	return placed, nil
}

// AddToCart puts qty units of an active product in the cart and returns
// the product and the new cart size. The cart button setting gates it.
func (s *Service) AddToCart(productKey string, qty int, lang models.Lang) (models.Product, int, error) {
	settings, err := s.store.Settings()
	if err != nil {
		return models.Product{}, 0, err
	}
	if !settings.ShowCartButton {
		return models.Product{}, 0, ErrCartDisabled
	}
	p, err := s.available(productKey)
	if err != nil {
		return models.Product{}, 0, err
	}
	if err := s.store.AddToCart(p, qty, lang); err != nil {
		return models.Product{}, 0, err
	}
	count, err := s.store.CartCount()
	return p, count, err
}

// PlaceDirectOrder orders qty units of one product without touching the cart.
func (s *Service) PlaceDirectOrder(productKey string, qty int, form Form) (models.Order, error) {
	settings, err := s.store.Settings()
	if err != nil {
		return models.Order{}, err
	}
	if !settings.ShowDirectOrderButton {
		return models.Order{}, ErrDirectOrderDisabled
	}
	form = form.normalized()
	if err := models.Validate(form); err != nil {
		return models.Order{}, err
	}
	if qty <= 0 {
		return models.Order{}, fmt.Errorf("%w: quantity must be positive", mirror.ErrInvalidOrder)
	}
	p, err := s.available(productKey)
	if err != nil {
		return models.Order{}, err
	}
	return s.store.PlaceOrder(models.NewOrder(p, form.customer(), qty, s.now()))
}

// WhatsAppLink builds the wa.me chat link a visitor uses to ask about a
// product: the configured greeting, then the product name and SKU.
func (s *Service) WhatsAppLink(productKey string, lang models.Lang) (string, error) {
	settings, err := s.store.Settings()
	if err != nil {
		return "", err
	}
	p, err := s.available(productKey)
	if err != nil {
		return "", err
	}
	return WhatsAppLink(settings.WhatsApp, p, lang)
}

// WhatsAppLink renders the link for p from the whatsapp settings. Only
// the digits of the configured phone are kept.
func WhatsAppLink(wa models.WhatsAppSettings, p models.Product, lang models.Lang) (string, error) {
	phone := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, wa.Phone)
	if !wa.Enabled || phone == "" {
		return "", ErrWhatsAppDisabled
	}
	text := fmt.Sprintf("%s - %s (%s)", wa.DefaultMessage.Resolve(lang), p.Name.Resolve(lang), p.SKU)
	return "https://wa.me/" + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20"), nil
}

func (s *Service) available(key string) (models.Product, error) {
	p, err := s.store.Product(key)
	if errors.Is(err, mirror.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: %s", ErrUnavailable, key)
	}
	if err != nil {
		return models.Product{}, err
	}
	if !p.IsActive() {
		return models.Product{}, fmt.Errorf("%w: %s", ErrUnavailable, key)
	}
	return p, nil
}

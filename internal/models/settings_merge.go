package models

// The patch types mirror Settings field for field. A nil pointer means
// "not sent", so the base value survives. Slices are replaced wholesale.

type LocalizedPatch struct {
	AR *string `json:"ar"`
	EN *string `json:"en"`
}

type SettingsPatch struct {
	Currency              *LocalizedPatch `json:"currency"`
	ShowCartButton        *bool           `json:"showCartButton"`
	ShowDirectOrderButton *bool           `json:"showDirectOrderButton"`
	ShowStock             *bool           `json:"showStock"`
	EnableComments        *bool           `json:"enableComments"`
	WhatsApp              *WhatsAppPatch  `json:"whatsapp"`
	Header                *HeaderPatch    `json:"header"`
	Footer                *FooterPatch    `json:"footer"`
	Slider                *SliderPatch    `json:"slider"`
}

type WhatsAppPatch struct {
	Enabled        *bool           `json:"enabled"`
	Phone          *string         `json:"phone"`
	DefaultMessage *LocalizedPatch `json:"defaultMessage"`
}

type HeaderPatch struct {
	LogoSrc          *string          `json:"logoSrc"`
	LogoAlt          *LocalizedPatch  `json:"logoAlt"`
	SiteName         *LocalizedPatch  `json:"siteName"`
	SiteNameColor    *string          `json:"siteNameColor"`
	SiteNameFontSize *int             `json:"siteNameFontSize"`
	Sticky           *bool            `json:"sticky"`
	BgColor          *string          `json:"bgColor"`
	MenuOrientation  *MenuOrientation `json:"menuOrientation"`
	MenuItemColor    *string          `json:"menuItemColor"`
	TopBar           *TopBarPatch     `json:"topBar"`
}

type TopBarPatch struct {
	Enabled *bool           `json:"enabled"`
	Text    *LocalizedPatch `json:"text"`
	Contact *LocalizedPatch `json:"contact"`
}

type FooterPatch struct {
	LogoSrc     *string         `json:"logoSrc"`
	Description *LocalizedPatch `json:"description"`
	QuickLinks  *[]QuickLink    `json:"quickLinks"`
	Contact     *LocalizedPatch `json:"contact"`
}

type SliderPatch struct {
	Enabled *bool         `json:"enabled"`
	Images  *[]SlideImage `json:"images"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Merge returns l with the patch applied key by key.
func (l Localized) Merge(p *LocalizedPatch) Localized {
	if p == nil {
		return l
	}
	setIf(&l.AR, p.AR)
	setIf(&l.EN, p.EN)
	return l
}

// Merge lays p over s: scalars replace, nested objects recurse, slices
// replace. An unknown menu orientation keeps the base value.
func (s Settings) Merge(p SettingsPatch) Settings {
	out := s
	out.Currency = s.Currency.Merge(p.Currency)
	setIf(&out.ShowCartButton, p.ShowCartButton)
	setIf(&out.ShowDirectOrderButton, p.ShowDirectOrderButton)
	setIf(&out.ShowStock, p.ShowStock)
	setIf(&out.EnableComments, p.EnableComments)

	if w := p.WhatsApp; w != nil {
		setIf(&out.WhatsApp.Enabled, w.Enabled)
		setIf(&out.WhatsApp.Phone, w.Phone)
		out.WhatsApp.DefaultMessage = s.WhatsApp.DefaultMessage.Merge(w.DefaultMessage)
	}

	if h := p.Header; h != nil {
		setIf(&out.Header.LogoSrc, h.LogoSrc)
		out.Header.LogoAlt = s.Header.LogoAlt.Merge(h.LogoAlt)
		out.Header.SiteName = s.Header.SiteName.Merge(h.SiteName)
		setIf(&out.Header.SiteNameColor, h.SiteNameColor)
		setIf(&out.Header.SiteNameFontSize, h.SiteNameFontSize)
		setIf(&out.Header.Sticky, h.Sticky)
		setIf(&out.Header.BgColor, h.BgColor)
		if h.MenuOrientation != nil && h.MenuOrientation.Valid() {
			out.Header.MenuOrientation = *h.MenuOrientation
		}
		setIf(&out.Header.MenuItemColor, h.MenuItemColor)
		if t := h.TopBar; t != nil {
			setIf(&out.Header.TopBar.Enabled, t.Enabled)
			out.Header.TopBar.Text = s.Header.TopBar.Text.Merge(t.Text)
			out.Header.TopBar.Contact = s.Header.TopBar.Contact.Merge(t.Contact)
		}
	}

	if f := p.Footer; f != nil {
		setIf(&out.Footer.LogoSrc, f.LogoSrc)
		out.Footer.Description = s.Footer.Description.Merge(f.Description)
		if f.QuickLinks != nil {
			out.Footer.QuickLinks = append([]QuickLink{}, (*f.QuickLinks)...)
		}
		out.Footer.Contact = s.Footer.Contact.Merge(f.Contact)
	}

	if sl := p.Slider; sl != nil {
		setIf(&out.Slider.Enabled, sl.Enabled)
		if sl.Images != nil {
			out.Slider.Images = append([]SlideImage{}, (*sl.Images)...)
		}
	}
	return out
}

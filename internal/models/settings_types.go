package models

// MenuOrientation is the header menu layout.
type MenuOrientation string

const (
	MenuHorizontal MenuOrientation = "horizontal"
	MenuVertical   MenuOrientation = "vertical"
)

func (m MenuOrientation) Valid() bool {
	return m == MenuHorizontal || m == MenuVertical
}

// Settings is the site-appearance singleton (logically row id=1).
type Settings struct {
	Currency              Localized        `json:"currency"`
	ShowCartButton        bool             `json:"showCartButton"`
	ShowDirectOrderButton bool             `json:"showDirectOrderButton"`
	ShowStock             bool             `json:"showStock"`
	EnableComments        bool             `json:"enableComments"`
	WhatsApp              WhatsAppSettings `json:"whatsapp"`
	Header                HeaderSettings   `json:"header"`
	Footer                FooterSettings   `json:"footer"`
	Slider                SliderSettings   `json:"slider"`
}

type WhatsAppSettings struct {
	Enabled        bool      `json:"enabled"`
	Phone          string    `json:"phone"`
	DefaultMessage Localized `json:"defaultMessage"`
}

type HeaderSettings struct {
	LogoSrc          string          `json:"logoSrc"`
	LogoAlt          Localized       `json:"logoAlt"`
	SiteName         Localized       `json:"siteName"`
	SiteNameColor    string          `json:"siteNameColor"`
	SiteNameFontSize int             `json:"siteNameFontSize"`
	Sticky           bool            `json:"sticky"`
	BgColor          string          `json:"bgColor"`
	MenuOrientation  MenuOrientation `json:"menuOrientation"`
	MenuItemColor    string          `json:"menuItemColor"`
	TopBar           TopBarSettings  `json:"topBar"`
}

type TopBarSettings struct {
	Enabled bool      `json:"enabled"`
	Text    Localized `json:"text"`
	Contact Localized `json:"contact"`
}

type FooterSettings struct {
	LogoSrc     string      `json:"logoSrc"`
	Description Localized   `json:"description"`
	QuickLinks  []QuickLink `json:"quickLinks"`
	Contact     Localized   `json:"contact"`
}

type QuickLink struct {
	Href  string    `json:"href"`
	Label Localized `json:"label"`
}

type SliderSettings struct {
	Enabled bool         `json:"enabled"`
	Images  []SlideImage `json:"images"`
}

type SlideImage struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// DefaultSettings is what a fresh client shows before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		Currency:              L("ر.س", "SAR"),
		ShowCartButton:        true,
		ShowDirectOrderButton: true,
		ShowStock:             true,
		EnableComments:        false,
		WhatsApp: WhatsAppSettings{
			Enabled:        true,
			Phone:          "+966500000000",
			DefaultMessage: L("مرحباً، أود الاستفسار عن المنتج", "Hello, I am interested in this product"),
		},
		Header: HeaderSettings{
			SiteNameColor:    "#111111",
			SiteNameFontSize: 20,
			Sticky:           true,
			BgColor:          "#ffffff",
			MenuOrientation:  MenuHorizontal,
			MenuItemColor:    "#222222",
			TopBar: TopBarSettings{
				Enabled: true,
				Text:    L("أهلاً بكم في متجرنا", "Welcome to our store"),
				Contact: L("اتصل بنا: 0123456789", "Contact: 0123456789"),
			},
		},
		Footer: FooterSettings{
			Description: L("وصف مختصر في التذييل.", "Short footer description."),
			QuickLinks:  []QuickLink{{Href: "/", Label: L("الرئيسية", "Home")}},
			Contact:     L("العنوان: ...\nالهاتف: ...", "Address: ...\nPhone: ..."),
		},
		Slider: SliderSettings{
			Enabled: true,
			Images:  []SlideImage{},
		},
	}
}

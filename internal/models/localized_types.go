package models

import (
	"fmt"

	"golang.org/x/text/language"
)

// Lang is a display language tag. Only Arabic and English are served.
type Lang string

const (
	LangAR Lang = "ar"
	LangEN Lang = "en"
)

// DefaultLang is used until the visitor picks a language.
const DefaultLang = LangAR

// ParseLang accepts any BCP 47 tag whose base language is Arabic or English,
// e.g. "ar", "ar-SA", "en-US".
func ParseLang(s string) (Lang, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ar":
		return LangAR, nil
	case "en":
		return LangEN, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// Localized holds the Arabic and English rendering of one piece of text.
type Localized struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

// L is shorthand for building a Localized value.
func L(ar, en string) Localized {
	return Localized{AR: ar, EN: en}
}

// Get returns the raw value for one language, without fallback.
func (l Localized) Get(lang Lang) string {
	if lang == LangEN {
		return l.EN
	}
	if lang == LangAR {
		return l.AR
	}
	return ""
}

// Resolve picks the display string: requested language, then English,
// then Arabic, then "".
func (l Localized) Resolve(lang Lang) string {
	if v := l.Get(lang); v != "" {
		return v
	}
	if l.EN != "" {
		return l.EN
	}
	return l.AR
}

// IsEmpty reports whether both languages are blank.
func (l Localized) IsEmpty() bool {
	return l.AR == "" && l.EN == ""
}

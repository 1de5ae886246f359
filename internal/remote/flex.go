package remote

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/souq-catalog/internal/models"
)

// The flex types decode whatever the server sends into the closest usable
// value. None of them ever return an error: a value that cannot be read is
// left at its zero value and the mapping functions fill in the default.

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if json.Unmarshal(b, &v) != nil {
		*f = ""
		return nil
	}
	switch t := v.(type) {
	case string:
		*f = flexString(t)
	case float64:
		*f = flexString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*f = flexString(strconv.FormatBool(t))
	default:
		*f = ""
	}
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var v any
	if json.Unmarshal(b, &v) != nil {
		*f = 0
		return nil
	}
	switch t := v.(type) {
	case float64:
		*f = flexFloat(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			n = 0
		}
		*f = flexFloat(n)
	default:
		*f = 0
	}
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n flexFloat
	_ = n.UnmarshalJSON(b)
	*f = flexInt(math.Round(float64(n)))
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var v any
	if json.Unmarshal(b, &v) != nil {
		*f = false
		return nil
	}
	switch t := v.(type) {
	case bool:
		*f = flexBool(t)
	case float64:
		*f = t != 0
	case string:
		ok, _ := strconv.ParseBool(strings.TrimSpace(t))
		*f = flexBool(ok)
	default:
		*f = false
	}
	return nil
}

// flexMillis accepts epoch millis as a number or string, or a timestamp in
// one of the layouts SQL drivers commonly produce.
type flexMillis int64

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (f *flexMillis) UnmarshalJSON(b []byte) error {
	*f = 0
	var v any
	if json.Unmarshal(b, &v) != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		*f = flexMillis(t)
	case string:
		t = strings.TrimSpace(t)
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			*f = flexMillis(n)
			return nil
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				*f = flexMillis(ts.UnixMilli())
				return nil
			}
		}
	}
	return nil
}

// flexLocalized reads {"ar":..,"en":..}, the same object encoded inside a
// string, or a bare string, which is used for both languages.
type flexLocalized models.Localized

func (f *flexLocalized) UnmarshalJSON(b []byte) error {
	*f = flexLocalized{}
	var obj struct {
		AR flexString `json:"ar"`
		EN flexString `json:"en"`
	}
	if json.Unmarshal(b, &obj) == nil {
		*f = flexLocalized{AR: string(obj.AR), EN: string(obj.EN)}
		return nil
	}
	var s string
	if json.Unmarshal(b, &s) != nil {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(s), "{") && json.Unmarshal([]byte(s), &obj) == nil {
		*f = flexLocalized{AR: string(obj.AR), EN: string(obj.EN)}
		return nil
	}
	*f = flexLocalized{AR: s, EN: s}
	return nil
}

func (f flexLocalized) value() models.Localized { return models.Localized(f) }

// flexList decodes a JSON array element by element and keeps the elements
// that decode. Anything that is not an array becomes an empty list.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(b []byte) error {
	*l = nil
	var raws []json.RawMessage
	if json.Unmarshal(b, &raws) != nil {
		return nil
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if json.Unmarshal(raw, &v) == nil {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

func firstString(vals ...flexString) string {
	for _, v := range vals {
		if s := strings.TrimSpace(string(v)); s != "" {
			return string(v)
		}
	}
	return ""
}

func firstLocalized(vals ...flexLocalized) models.Localized {
	for _, v := range vals {
		if !v.value().IsEmpty() {
			return v.value()
		}
	}
	return models.Localized{}
}

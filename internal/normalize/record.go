// Package normalize turns the sanitized model output into an
// ExtractedRecord with canonical types and values. Every function here is
// total: input it cannot make sense of becomes nil, never an error.
package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Lllllllleong/easyrent/internal/models"
)

// Record overlays the model output on the default listing and normalizes
// every field that does not depend on the gazetteer. sourceText is the
// original post text.
func Record(raw map[string]any, sourceText string) models.ExtractedRecord {
	rec := models.ExtractedRecord{Title: models.DefaultTitle}

	if title := String(raw["title"]); title != nil {
		rec.Title = *title
	}
	rec.Price = Price(raw["price"])
	rec.Rooms = Rooms(raw["rooms"], sourceText)
	rec.Size = positiveNumber(raw["size"])
	rec.Neighborhood = String(raw["neighborhood"])
	rec.Address = String(raw["address"])
	rec.Floor = Floor(raw["floor"])
	rec.PropertyType = String(raw["property_type"])
	rec.PetsAllowed = Bool(raw["pets_allowed"])
	rec.HasBroker = Bool(raw["has_broker"])
	rec.HasBalcony = Bool(raw["has_balcony"])
	rec.HasSafeRoom = Bool(raw["has_safe_room"])
	rec.HasParking = Bool(raw["has_parking"])
	rec.HasElevator = Bool(raw["has_elevator"])
	rec.AvailableFrom = AvailableFrom(raw["available_from"], sourceText)
	rec.FacebookURL = String(raw["facebook_url"])
	rec.Category = Category(raw["category"], sourceText)
	rec.RentalScope = RentalScope(raw["rental_scope"], rec.Category)
	rec.PhoneNumber = PhoneNumber(raw["phone_number"], sourceText)
	rec.IsApartment = Bool(raw["is_apartment"])
	return rec
}

// String returns a trimmed non-empty string, or nil.
func String(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

// Bool accepts JSON booleans and the usual string spellings.
func Bool(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "כן":
			b = true
		case "false", "no", "לא":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

var (
	numberPattern  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerPattern = regexp.MustCompile(`-?\d+`)
	// 5,000 or 12,500,000
	thousandsPattern = regexp.MustCompile(`(\d),(\d{3})`)
)

// Number extracts a float from a JSON number or from the first number in a
// string such as "5,000 ₪".
func Number(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := t
		for thousandsPattern.MatchString(s) {
			s = thousandsPattern.ReplaceAllString(s, "$1$2")
		}
		m := numberPattern.FindString(s)
		if m == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// Price is a positive amount in shekels.
func Price(v any) *float64 {
	return positiveNumber(v)
}

func positiveNumber(v any) *float64 {
	f := Number(v)
	if f == nil || *f <= 0 {
		return nil
	}
	return f
}

const groundFloor = "קרקע"

// Floor accepts integers, numeric strings and the Hebrew word for ground floor.
func Floor(v any) *int {
	var n int
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return nil
		}
		n = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return nil
		}
		n = int(i)
	case string:
		if strings.Contains(t, groundFloor) {
			n = 0
			break
		}
		m := integerPattern.FindString(t)
		if m == "" {
			return nil
		}
		i, err := strconv.Atoi(m)
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}

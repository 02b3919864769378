package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// maxRooms bounds the room count; larger values are prices or sizes the
// model put in the wrong field.
const maxRooms = 20

var (
	decimalPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

	textDecimalRooms = regexp.MustCompile(`(\d+)\s*[.,]\s*5\s*חדר`)
	textHalfRooms    = regexp.MustCompile(`(\d+)\s*ו\s*חצי(?:\s*חדר(?:ים)?)?`)
	textRoomAndAHalf = regexp.MustCompile(`חדר\s*ו\s*חצי`)
	textWholeRooms   = regexp.MustCompile(`(\d+)\s*חדר(?:ים)?`)
	studioPattern    = regexp.MustCompile(`(?i)סטודיו|studio`)
)

// Rooms returns the room count as a positive multiple of 0.5. When the model
// value is missing or unusable the post text is searched for a room count,
// and a studio counts as one room.
func Rooms(v any, sourceText string) *float64 {
	if r, ok := roomsFromValue(v); ok {
		return validRooms(r)
	}
	if r, ok := roomsFromText(sourceText); ok {
		return validRooms(r)
	}
	return nil
}

func roomsFromValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		// "4 וחצי חדרים" must not fall through to the bare number.
		if m := textHalfRooms.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			return float64(n) + 0.5, true
		}
		if textRoomAndAHalf.MatchString(s) {
			return 1.5, true
		}
		m := decimalPattern.FindString(s)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		return f, err == nil
	}
	return 0, false
}

func roomsFromText(text string) (float64, bool) {
	if m := textDecimalRooms.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return float64(n) + 0.5, true
	}
	if m := textHalfRooms.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return float64(n) + 0.5, true
	}
	if textRoomAndAHalf.MatchString(text) {
		return 1.5, true
	}
	if m := textWholeRooms.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return float64(n), true
	}
	if studioPattern.MatchString(text) {
		return 1, true
	}
	return 0, false
}

func validRooms(r float64) *float64 {
	if r <= 0 || r > maxRooms || r*2 != math.Trunc(r*2) {
		return nil
	}
	return &r
}

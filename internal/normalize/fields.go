package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/Lllllllleong/easyrent/internal/models"
)

var categoryAliases = map[string]string{
	models.CategoryRent:     models.CategoryRent,
	models.CategorySale:     models.CategorySale,
	models.CategorySublet:   models.CategorySublet,
	models.CategoryExchange: models.CategoryExchange,
	"rent":                  models.CategoryRent,
	"rental":                models.CategoryRent,
	"השכרה":                 models.CategoryRent,
	"sale":                  models.CategorySale,
	"sell":                  models.CategorySale,
	"sublet":                models.CategorySublet,
	"exchange":              models.CategoryExchange,
	"swap":                  models.CategoryExchange,
}

var subletKeywords = regexp.MustCompile(`(?i)סאבלט|תת[- ]השכרה|השכרה זמנית|sublet`)

// Category maps the model category onto the four allowed values. Anything
// else is a rental. A sublet is only believed when the post says so.
func Category(v any, sourceText string) string {
	s, _ := v.(string)
	cat, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return models.CategoryRent
	}
	if cat == models.CategorySublet && !subletKeywords.MatchString(sourceText) {
		return models.CategoryRent
	}
	return cat
}

var sharedScopes = regexp.MustCompile(`(?i)שותפ|roommate|shared`)

// RentalScope is either a whole unit or a shared apartment. Sales are always
// whole units.
func RentalScope(v any, category string) string {
	if category == models.CategorySale {
		return models.ScopeWholeUnit
	}
	s, _ := v.(string)
	if sharedScopes.MatchString(s) {
		return models.ScopeShared
	}
	return models.ScopeWholeUnit
}

// Israeli mobile numbers: 05X-XXXXXXX locally, +972-5X-XXXXXXX abroad.
var mobilePattern = regexp.MustCompile(`(?:\+?972[\s\-]?|0)5\d(?:[\s\-]?\d){7}`)

// PhoneNumber returns the first mobile number found in the post text, falling
// back to the model value, as a local ten digit number. An international
// +972 prefix is folded into the leading 0, so 972541234567 becomes 0541234567.
func PhoneNumber(v any, sourceText string) *string {
	if p := findMobile(sourceText); p != nil {
		return p
	}
	s, _ := v.(string)
	return findMobile(s)
}

func findMobile(s string) *string {
	for _, loc := range mobilePattern.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && isDigit(s[loc[0]-1]) {
			continue
		}
		if loc[1] < len(s) && isDigit(s[loc[1]]) {
			continue
		}
		var b strings.Builder
		for i := loc[0]; i < loc[1]; i++ {
			if isDigit(s[i]) {
				b.WriteByte(s[i])
			}
		}
		digits := b.String()
		if strings.HasPrefix(digits, "972") {
			digits = "0" + digits[3:]
		}
		return &digits
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

const isoDate = "2006-01-02"

var (
	// dayMonth is a written d/m or d.m.yy date; room counts and floor
	// fractions share its shape and are filtered in mentionsDate.
	dayMonth = regexp.MustCompile(`\d{1,2}[./-]\d{1,2}(?:[./-]\d{2,4})?`)
	// dateWords are ISO dates and the phrases for January or immediate entry.
	dateWords = regexp.MustCompile(`(?i)\d{4}-\d{2}-\d{2}|ינואר|january|מיידי|immediate`)
)

// mentionsDate reports whether text states a date. "3.5 חדרים" and
// "קומה 2/4" do not count.
func mentionsDate(text string) bool {
	if dateWords.MatchString(text) {
		return true
	}
	for _, loc := range dayMonth.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isDigit(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isDigit(text[loc[1]]) {
			continue
		}
		after := strings.TrimSpace(text[loc[1]:])
		if strings.HasPrefix(after, "חדר") || strings.HasPrefix(after, "חד'") {
			continue
		}
		if strings.HasSuffix(strings.TrimSpace(text[:loc[0]]), "קומה") {
			continue
		}
		return true
	}
	return false
}

// AvailableFrom returns a YYYY-MM-DD date or nil. January 1st is what the
// model answers when it has no idea, so it is only kept when the post
// actually mentions a date.
func AvailableFrom(v any, sourceText string) *string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	t, err := time.Parse(isoDate, s)
	if err != nil || t.Format(isoDate) != s {
		return nil
	}
	if t.Month() == time.January && t.Day() == 1 && !mentionsDate(sourceText) {
		return nil
	}
	return &s
}

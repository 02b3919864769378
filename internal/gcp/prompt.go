package gcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lllllllleong/easyrent/internal/geo"
	"github.com/Lllllllleong/easyrent/internal/models"
)

const extractionPreamble = `You are a data extraction assistant for Facebook posts about apartments in Tel Aviv-Yafo.
Return ONLY a single valid JSON object. No explanations, no markdown.

RULES:
1) Most posts are listings. Brief comments or questions are not: return {"is_apartment": false}.
2) Listings outside Tel Aviv-Yafo are not relevant: return {"is_apartment": false}.
3) "neighborhood" is EXACTLY one canonical English name from the list below, or null. Never invent one.
4) "available_from" is YYYY-MM-DD only when the post states a start date. A date without a year is in %d. Otherwise null.
5) "address" is the Hebrew street name and number, without marketing adjectives.
6) "category" is one of %s. Use %q only when the post says so explicitly.
7) "rental_scope" is %q or %q. A sale is always %q.
8) "phone_number" is an Israeli mobile number, digits only, or null.
9) "rooms" may be a whole number or end in .5. A studio is 1 room.
10) Numbers carry no currency symbols or separators. Unknown values are null.
11) Use standard JSON quotes. Quotes inside Hebrew words are written as U+05F4.
`

const extractionSchema = `OUTPUT JSON:
{
  "is_apartment": true,
  "category": "<category>",
  "phone_number": "<digits or null>",
  "rental_scope": "<scope>",
  "title": "<Hebrew>",
  "description": "",
  "price": <number or null>,
  "rooms": <number or null>,
  "size": <number or null>,
  "neighborhood": "<canonical English or null>",
  "address": "<Hebrew street or null>",
  "floor": <number or null>,
  "property_type": "<English or null>",
  "pets_allowed": <boolean or null>,
  "has_broker": <boolean or null>,
  "has_balcony": <boolean or null>,
  "has_safe_room": <boolean or null>,
  "has_parking": <boolean or null>,
  "has_elevator": <boolean or null>,
  "available_from": "<YYYY-MM-DD or null>",
  "facebook_url": "<url or null>"
}
`

// ExtractionPrompt renders the system instruction for the extraction model.
// The gazetteer is included as a hint only; the pipeline applies it again.
func ExtractionPrompt(year int) string {
	var b strings.Builder
	categories := fmt.Sprintf("%q, %q, %q, %q", models.CategoryRent, models.CategorySale, models.CategorySublet, models.CategoryExchange)
	fmt.Fprintf(&b, extractionPreamble, year, categories, models.CategorySublet,
		models.ScopeWholeUnit, models.ScopeShared, models.ScopeWholeUnit)

	b.WriteString("\nSTREET MAP (Hebrew street -> neighborhood, exact match only):\n")
	writeEntries(&b, geo.Streets())
	b.WriteString("\nLANDMARK MAP (Hebrew landmark -> neighborhood):\n")
	writeEntries(&b, geo.Landmarks())
	b.WriteString("\nAMBIGUOUS LONG STREETS (never decide a neighborhood without a landmark):\n")
	ambiguous := geo.AmbiguousStreets()
	sort.Strings(ambiguous)
	for _, s := range ambiguous {
		b.WriteString("- " + s + "\n")
	}

	b.WriteString("\n" + extractionSchema)

	b.WriteString("\nCANONICAL NEIGHBORHOODS (use ONLY these):\n")
	names := make([]string, 0, len(geo.Canon()))
	for _, n := range geo.Canon() {
		names = append(names, n.EN)
	}
	sort.Strings(names)
	for _, n := range names {
		b.WriteString("- " + n + "\n")
	}
	return b.String()
}

func writeEntries(b *strings.Builder, entries []geo.Entry) {
	for _, e := range entries {
		fmt.Fprintf(b, "- %s -> %s\n", e.Phrase, e.Neighborhood)
	}
}

package normalize

import (
	"strings"

	"github.com/Lllllllleong/easyrent/internal/geo"
	"github.com/Lllllllleong/easyrent/internal/models"
)

// NeighborhoodResolver pins a post to a canonical neighborhood.
type NeighborhoodResolver interface {
	Resolve(address, fullText string) geo.Resolution
}

// Neighborhood sets rec.Neighborhood to a canonical English identifier or nil.
// A gazetteer hit overrides the model; an ambiguous street without a
// landmark clears it; otherwise the model value is kept if it is on the
// canonical list. An address that contains the neighborhood name is dropped.
func Neighborhood(rec *models.ExtractedRecord, r NeighborhoodResolver, sourceText string) geo.Resolution {
	var model *string
	if rec.Neighborhood != nil {
		if en, ok := geo.Canonicalize(*rec.Neighborhood); ok {
			model = &en
		}
	}

	address := ""
	if rec.Address != nil {
		address = *rec.Address
	}
	res := r.Resolve(address, sourceText)
	switch {
	case res.Found():
		n := res.Neighborhood
		rec.Neighborhood = &n
	case res.Rule == geo.RuleAmbiguous:
		rec.Neighborhood = nil
	default:
		rec.Neighborhood = model
	}

	if rec.Address != nil && rec.Neighborhood != nil && mentionsNeighborhood(*rec.Address, *rec.Neighborhood) {
		rec.Address = nil
	}
	return res
}

// mentionsNeighborhood reports whether an address contains the Hebrew name
// of the neighborhood, which makes it a duplicate rather than a street.
func mentionsNeighborhood(address, neighborhood string) bool {
	he, ok := geo.HebrewName(neighborhood)
	if !ok {
		return false
	}
	return strings.Contains(normalizeSpace(address), normalizeSpace(he))
}

var marksReplacer = strings.NewReplacer("\u05f4", `"`, "\u05f3", "'")

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(marksReplacer.Replace(s)), " ")
}

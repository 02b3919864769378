// Package geo holds the canonical Tel Aviv-Yafo neighborhood list and the
// gazetteer used to pin a post to one of them deterministically.
package geo

import (
	"regexp"
	"strings"
)

// Rule identifies which step of the precedence chain produced a resolution.
type Rule string

const (
	RuleNone      Rule = ""
	RuleStreet    Rule = "street"
	RuleLandmark  Rule = "landmark"
	RuleSynonym   Rule = "synonym"
	RuleAmbiguous Rule = "ambiguous_street"
)

// Resolution is the outcome of Resolve. Neighborhood is a canonical English
// identifier, empty when the post could not be pinned down.
type Resolution struct {
	Neighborhood string
	Rule         Rule
	Phrase       string
}

// Found reports whether a neighborhood was resolved.
func (r Resolution) Found() bool { return r.Neighborhood != "" }

type streetRule struct {
	Entry
	re *regexp.Regexp
}

// Resolver maps an address and post text to a canonical neighborhood.
// It is safe for concurrent use.
type Resolver struct {
	streets   []streetRule
	landmarks []Entry
	synonyms  []Entry
	ambiguous []string
}

// NewResolver builds a Resolver over the built-in gazetteer.
func NewResolver() *Resolver {
	return newResolver(streets, landmarks, synonyms, ambiguousStreets)
}

func newResolver(streetTable, landmarkTable, synonymTable []Entry, ambiguous []string) *Resolver {
	r := &Resolver{
		landmarks: normalizeEntries(landmarkTable),
		synonyms:  normalizeEntries(synonymTable),
	}
	for _, e := range normalizeEntries(streetTable) {
		// The street, optionally followed by a house number, bounded by
		// whitespace, punctuation or the ends of the address.
		pattern := `(?:^|[\s,.;:])` + regexp.QuoteMeta(e.Phrase) + `(?:[\s,]\d+)?(?:$|[\s,.;:])`
		r.streets = append(r.streets, streetRule{Entry: e, re: regexp.MustCompile(pattern)})
	}
	for _, s := range ambiguous {
		r.ambiguous = append(r.ambiguous, normalizeHebrew(s))
	}
	return r
}

// Resolve applies the precedence chain street > landmark > explicit
// neighborhood > ambiguous-street guard. Ties are broken by table order.
func (r *Resolver) Resolve(address, fullText string) Resolution {
	addr := normalizeHebrew(address)
	text := normalizeHebrew(fullText)

	if addr != "" {
		for _, s := range r.streets {
			if s.re.MatchString(addr) {
				return Resolution{Neighborhood: s.Neighborhood, Rule: RuleStreet, Phrase: s.Phrase}
			}
		}
	}

	for _, lm := range r.landmarks {
		if strings.Contains(text, lm.Phrase) || strings.Contains(addr, lm.Phrase) {
			return Resolution{Neighborhood: lm.Neighborhood, Rule: RuleLandmark, Phrase: lm.Phrase}
		}
	}

	for _, syn := range r.synonyms {
		if strings.Contains(text, syn.Phrase) || strings.Contains(addr, syn.Phrase) {
			return Resolution{Neighborhood: syn.Neighborhood, Rule: RuleSynonym, Phrase: syn.Phrase}
		}
	}

	for _, amb := range r.ambiguous {
		if addr != "" && strings.Contains(addr, amb) && !r.hasLandmark(text) {
			return Resolution{Rule: RuleAmbiguous, Phrase: amb}
		}
	}

	return Resolution{}
}

func (r *Resolver) hasLandmark(text string) bool {
	for _, lm := range r.landmarks {
		if strings.Contains(text, lm.Phrase) {
			return true
		}
	}
	return false
}

var hebrewPunctReplacer = strings.NewReplacer(
	"\u05f4", `"`, // gershayim
	"\u05f3", "'", // geresh
	"\u2019", "'",
	"\u00a0", " ",
)

// normalizeHebrew folds Hebrew abbreviation marks to ASCII and collapses
// whitespace so table phrases and model output compare equal.
func normalizeHebrew(s string) string {
	return strings.Join(strings.Fields(hebrewPunctReplacer.Replace(s)), " ")
}

func normalizeEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = Entry{Phrase: normalizeHebrew(e.Phrase), Neighborhood: e.Neighborhood}
	}
	return out
}

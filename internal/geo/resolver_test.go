package geo_test

import (
	"testing"

	"github.com/Lllllllleong/easyrent/internal/geo"
)

// ── Street matches ─────────────────────────────────────────────────────────

func TestResolve_Street(t *testing.T) {
	r := geo.NewResolver()
	cases := []struct {
		address string
		want    string
	}{
		{"שבזי 12", "Neve Tzedek"},
		{"רחוב שבזי", "Neve Tzedek"},
		{"ויטל 3, תל אביב", "Florentin"},
		{"ז׳בוטינסקי 40", "The Old North"},
		{"ז'בוטינסקי 40", "The Old North"},
		{"האצ״ל 7", "HaTikva"},
		{"  לוינסקי   50 ", "Florentin"},
		{"יפת 241", "Givat Aliya"},
	}
	for _, c := range cases {
		got := r.Resolve(c.address, "")
		if got.Neighborhood != c.want || got.Rule != geo.RuleStreet {
			t.Errorf("Resolve(%q) = %+v; want %s via street", c.address, got, c.want)
		}
	}
}

func TestResolve_StreetNeedsWordBoundary(t *testing.T) {
	r := geo.NewResolver()
	// "שבזיאל" is not "שבזי".
	if got := r.Resolve("שבזיאל 4", ""); got.Found() {
		t.Errorf("Resolve(שבזיאל 4) = %+v; want no match", got)
	}
}

func TestResolve_StreetBeatsLandmark(t *testing.T) {
	r := geo.NewResolver()
	got := r.Resolve("שבזי 10", "דירה מהממת ליד שוק הכרמל")
	if got.Neighborhood != "Neve Tzedek" {
		t.Errorf("Resolve = %+v; want street neighborhood Neve Tzedek", got)
	}
}

// ── Landmarks and synonyms ─────────────────────────────────────────────────

func TestResolve_LandmarkInText(t *testing.T) {
	r := geo.NewResolver()
	got := r.Resolve("", "דירת 2 חדרים, חמש דקות מעזריאלי")
	if got.Neighborhood != "HaKirya" || got.Rule != geo.RuleLandmark {
		t.Errorf("Resolve = %+v; want HaKirya via landmark", got)
	}
}

func TestResolve_LandmarkBeatsSynonym(t *testing.T) {
	r := geo.NewResolver()
	got := r.Resolve("", "בלב העיר, צמוד לשוק לוינסקי")
	if got.Neighborhood != "Florentin" || got.Rule != geo.RuleLandmark {
		t.Errorf("Resolve = %+v; want Florentin via landmark", got)
	}
}

func TestResolve_Synonym(t *testing.T) {
	r := geo.NewResolver()
	cases := []struct {
		text string
		want string
	}{
		{"דירה בשכונת נווה צדק", "Neve Tzedek"},
		{"להשכרה באזור הצפון הישן", "The Old North"},
		{"ברמת אביב ג החדשה", "Ramat Aviv G"},
		{"ברמת אביב", "Ramat Aviv"},
		{"בנאות אפקה", "Neot Afeka"},
	}
	for _, c := range cases {
		got := r.Resolve("", c.text)
		if got.Neighborhood != c.want || got.Rule != geo.RuleSynonym {
			t.Errorf("Resolve(%q) = %+v; want %s via synonym", c.text, got, c.want)
		}
	}
}

// ── Ambiguity guard ────────────────────────────────────────────────────────

func TestResolve_AmbiguousStreetWithoutLandmark(t *testing.T) {
	r := geo.NewResolver()
	got := r.Resolve("דיזנגוף 100", "דירה יפה ברחוב דיזנגוף, קומה 3")
	if got.Found() {
		t.Errorf("Resolve = %+v; want unknown", got)
	}
	if got.Rule != geo.RuleAmbiguous {
		t.Errorf("Rule = %q; want %q", got.Rule, geo.RuleAmbiguous)
	}
}

func TestResolve_AmbiguousStreetWithLandmark(t *testing.T) {
	r := geo.NewResolver()
	got := r.Resolve("דיזנגוף 50", "ממש מול דיזנגוף סנטר")
	if got.Neighborhood != "Lev Tel Aviv (City Center)" {
		t.Errorf("Resolve = %+v; want Lev Tel Aviv (City Center)", got)
	}
}

func TestResolve_NothingKnown(t *testing.T) {
	r := geo.NewResolver()
	for _, c := range [][2]string{{"", ""}, {"רחוב לא קיים 4", "דירה יפה"}} {
		if got := r.Resolve(c[0], c[1]); got.Found() || got.Rule != geo.RuleNone {
			t.Errorf("Resolve(%q, %q) = %+v; want empty", c[0], c[1], got)
		}
	}
}

// ── Resolver output is always canonical ────────────────────────────────────

func TestGazetteerTargetsAreCanonical(t *testing.T) {
	tables := map[string][]geo.Entry{
		"streets":   geo.Streets(),
		"landmarks": geo.Landmarks(),
		"synonyms":  geo.Synonyms(),
	}
	for name, table := range tables {
		for _, e := range table {
			if !geo.IsCanonical(e.Neighborhood) {
				t.Errorf("%s: %q maps to non-canonical %q", name, e.Phrase, e.Neighborhood)
			}
		}
	}
}

package geo_test

import (
	"testing"

	"github.com/Lllllllleong/easyrent/internal/geo"
)

func TestHebrewName(t *testing.T) {
	he, ok := geo.HebrewName("Florentin")
	if !ok || he != "פלורנטין" {
		t.Errorf("HebrewName(Florentin) = %q, %v", he, ok)
	}
	if _, ok := geo.HebrewName("Downtown"); ok {
		t.Error("HebrewName(Downtown) should not be found")
	}
}

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Florentin", "Florentin", true},
		{" The Old North ", "The Old North", true},
		{"נווה צדק", "Neve Tzedek", true},
		{"נווה צה״ל", "Neve Tzahal", true},
		{"City Center", "", false},
		{"florentin", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := geo.Canonicalize(c.in)
		if got != c.want || ok != c.wantOK {
			t.Errorf("Canonicalize(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestCanonIsACopy(t *testing.T) {
	list := geo.Canon()
	list[0].HE = "changed"
	if he, _ := geo.HebrewName(list[0].EN); he == "changed" {
		t.Error("mutating Canon() result changed the canonical table")
	}
}

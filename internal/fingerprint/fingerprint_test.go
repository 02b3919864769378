package fingerprint_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/Lllllllleong/easyrent/internal/fingerprint"
	"github.com/Lllllllleong/easyrent/internal/models"
)

func ptr[T any](v T) *T { return &v }

func sha(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestOf_Components(t *testing.T) {
	rec := &models.ExtractedRecord{
		Address:       ptr("  Vital 3 "),
		Rooms:         ptr(2.5),
		Price:         ptr(6500.0),
		AvailableFrom: ptr("2025-03-01"),
	}
	got, ok := fingerprint.Of(rec)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if want := sha("address=vital 3|rooms=2.5|price=6500|available_from=2025-03-01"); got != want {
		t.Errorf("Of = %s; want %s", got, want)
	}
}

func TestOf_SkipsUnknownFields(t *testing.T) {
	got, ok := fingerprint.Of(&models.ExtractedRecord{Price: ptr(4000.0)})
	if !ok {
		t.Fatal("price alone should be enough")
	}
	if want := sha("price=4000"); got != want {
		t.Errorf("Of = %s; want %s", got, want)
	}
}

func TestOf_AllUnknown(t *testing.T) {
	rec := &models.ExtractedRecord{Address: ptr("   "), Title: "דירה", HasBroker: ptr(true)}
	if _, ok := fingerprint.Of(rec); ok {
		t.Error("expected no fingerprint when every component is unknown")
	}
}

func TestOf_DateAlone(t *testing.T) {
	got, ok := fingerprint.Of(&models.ExtractedRecord{AvailableFrom: ptr("2025-03-01")})
	if !ok || got != sha("available_from=2025-03-01") {
		t.Errorf("Of = %q, %v", got, ok)
	}
}

func TestOf_IgnoresOtherFields(t *testing.T) {
	a := &models.ExtractedRecord{Address: ptr("שבזי 12"), Rooms: ptr(3.0), Title: "first"}
	b := &models.ExtractedRecord{Address: ptr("שבזי 12 "), Rooms: ptr(3.0), Title: "second", HasBroker: ptr(true)}
	fa, _ := fingerprint.Of(a)
	fb, _ := fingerprint.Of(b)
	if fa != fb {
		t.Errorf("fingerprints differ: %s vs %s", fa, fb)
	}
}

func TestOf_DistinguishesPrice(t *testing.T) {
	a, _ := fingerprint.Of(&models.ExtractedRecord{Address: ptr("x"), Price: ptr(5000.0)})
	b, _ := fingerprint.Of(&models.ExtractedRecord{Address: ptr("x"), Price: ptr(5100.0)})
	if a == b {
		t.Error("different prices should give different fingerprints")
	}
}

// Package fingerprint derives the identity of a listing from the facts that
// make two posts the same apartment.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/Lllllllleong/easyrent/internal/models"
)

// Of hashes the known fields among address, rooms, price and available_from
// as key=value components in that order. It returns false when all four are
// unknown.
func Of(rec *models.ExtractedRecord) (string, bool) {
	var components []string
	if rec.Address != nil {
		if a := strings.ToLower(strings.TrimSpace(*rec.Address)); a != "" {
			components = append(components, "address="+a)
		}
	}
	if rec.Rooms != nil {
		components = append(components, "rooms="+formatNumber(*rec.Rooms))
	}
	if rec.Price != nil {
		components = append(components, "price="+formatNumber(*rec.Price))
	}
	if rec.AvailableFrom != nil && *rec.AvailableFrom != "" {
		components = append(components, "available_from="+*rec.AvailableFrom)
	}
	if len(components) == 0 {
		return "", false
	}

	sum := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hex.EncodeToString(sum[:]), true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

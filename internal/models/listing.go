package models

import "time"

// Category values are stored in Hebrew, as the frontend displays them.
const (
	CategoryRent     = "שכירות"
	CategorySale     = "מכירה"
	CategorySublet   = "סאבלט"
	CategoryExchange = "החלפה"
)

// Rental scope values.
const (
	ScopeWholeUnit = "דירה שלמה"
	ScopeShared    = "שותפים"
)

// DefaultTitle is used when the model does not return a title.
const DefaultTitle = "דירה למכירה"

// ExtractedRecord holds the fields the language model extracts from a post,
// after coercion to their canonical types. Nil means "unknown".
type ExtractedRecord struct {
	Title         string   `firestore:"title" json:"title"`
	Description   string   `firestore:"description" json:"description"`
	Price         *float64 `firestore:"price" json:"price"`
	Rooms         *float64 `firestore:"rooms" json:"rooms"`
	Size          *float64 `firestore:"size" json:"size"`
	Neighborhood  *string  `firestore:"neighborhood" json:"neighborhood"`
	Address       *string  `firestore:"address" json:"address"`
	Floor         *int     `firestore:"floor" json:"floor"`
	PropertyType  *string  `firestore:"property_type" json:"property_type"`
	PetsAllowed   *bool    `firestore:"pets_allowed" json:"pets_allowed"`
	HasBroker     *bool    `firestore:"has_broker" json:"has_broker"`
	HasBalcony    *bool    `firestore:"has_balcony" json:"has_balcony"`
	HasSafeRoom   *bool    `firestore:"has_safe_room" json:"has_safe_room"`
	HasParking    *bool    `firestore:"has_parking" json:"has_parking"`
	HasElevator   *bool    `firestore:"has_elevator" json:"has_elevator"`
	AvailableFrom *string  `firestore:"available_from" json:"available_from"`
	FacebookURL   *string  `firestore:"facebook_url" json:"facebook_url"`
	Category      string   `firestore:"category" json:"category"`
	RentalScope   string   `firestore:"rental_scope" json:"rental_scope"`
	PhoneNumber   *string  `firestore:"phone_number" json:"phone_number"`

	// IsApartment is the model's classification. It is never persisted.
	IsApartment *bool `firestore:"-" json:"is_apartment"`
}

// Listing is a normalized apartment document in the apartments collection.
// It is written once per processed post and never updated by the pipeline.
type Listing struct {
	ExtractedRecord

	ID          string    `firestore:"id"`
	Images      []string  `firestore:"images"`
	ContactID   *string   `firestore:"contactId"`
	ContactName *string   `firestore:"contactName"`
	UploadDate  *string   `firestore:"upload_date"`
	Fingerprint string    `firestore:"fingerprint"`
	IndexedAt   time.Time `firestore:"indexed_at,serverTimestamp"`
}

// HasIdentifyingField reports whether at least one of address, rooms and
// price is known. Listings without any of them are not worth storing.
func (l *Listing) HasIdentifyingField() bool {
	return (l.Address != nil && *l.Address != "") || l.Rooms != nil || l.Price != nil
}

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PostStatus is the lifecycle state of a scraped post in Firestore.
type PostStatus string

const (
	StatusNew             PostStatus = "new"
	StatusError           PostStatus = "error"
	StatusSkipped         PostStatus = "skipped"
	StatusSkippedExchange PostStatus = "skipped_exchange"
	StatusIncomplete      PostStatus = "incomplete"
	StatusDuplicate       PostStatus = "duplicate"
	StatusProcessed       PostStatus = "processed"
)

// ConsumableStatuses are the statuses the listing pipeline picks up.
// Everything else is terminal from the pipeline's point of view.
var ConsumableStatuses = []PostStatus{StatusNew, StatusError}

// ParseStatus converts a raw string to a PostStatus.
func ParseStatus(s string) (PostStatus, error) {
	st := PostStatus(strings.TrimSpace(s))
	switch st {
	case StatusNew, StatusError, StatusSkipped, StatusSkippedExchange,
		StatusIncomplete, StatusDuplicate, StatusProcessed:
		return st, nil
	}
	return "", fmt.Errorf("unknown post status %q", s)
}

// IsConsumable reports whether the pipeline may process a post in this state.
func (s PostStatus) IsConsumable() bool {
	return s == StatusNew || s == StatusError
}

// RawPost is a post document written by the Facebook collector.
// The pipeline only ever updates Status and IndexedAt.
type RawPost struct {
	ID          string     `firestore:"id"`
	Text        string     `firestore:"text"`
	Images      []string   `firestore:"images"`
	ContactID   *string    `firestore:"contactId"`
	ContactName *string    `firestore:"contactName"`
	Status      PostStatus `firestore:"status"`
	IndexedAt   time.Time  `firestore:"indexed_at,omitempty"`
}

// UploadDateFromID derives the post creation date from an ID of the form
// ddmmyyyy_<suffix>. The date is returned as yyyy-mm-dd.
func UploadDateFromID(id string) (string, bool) {
	t, ok := ParseIDDate(id)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// ParseIDDate parses the ddmmyyyy prefix of a post ID as a UTC date.
func ParseIDDate(id string) (time.Time, bool) {
	prefix, _, _ := strings.Cut(id, "_")
	if len(prefix) != 8 {
		return time.Time{}, false
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}
	t, err := time.Parse("02012006", prefix)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// DocumentAge is the retention view of a stored document. IndexedAt is zero
// when the document was never stamped.
type DocumentAge struct {
	ID        string
	IndexedAt time.Time
}

// ErrNotFound is returned by stores when a document does not exist.
var ErrNotFound = errors.New("document not found")

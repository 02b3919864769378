package services

import (
	"context"

	"github.com/Lllllllleong/easyrent/internal/models"
)

// PostStore is the document store seen by the listing pipeline.
type PostStore interface {
	PostsByStatus(ctx context.Context, statuses []models.PostStatus, limit int) ([]models.RawPost, error)
	ListingExists(ctx context.Context, fingerprint string) (bool, error)
	SaveListing(ctx context.Context, listing *models.Listing) error
	UpdatePostStatus(ctx context.Context, id string, status models.PostStatus, stamp bool) error
}

// RetentionStore is the document store seen by pruning and cleanup.
type RetentionStore interface {
	PostsCollection() string
	ApartmentsCollection() string
	DocumentAges(ctx context.Context, collection string) ([]models.DocumentAge, error)
	DeleteDocuments(ctx context.Context, collection string, ids []string, batchSize int) (int, error)
	PostIDsByStatus(ctx context.Context, statuses []string, limit int) ([]string, error)
}

// Extractor turns post text into the model's raw answer.
type Extractor interface {
	Extract(ctx context.Context, postText string) (string, error)
}

// SideLog records posts that failed extraction for manual inspection.
type SideLog interface {
	Append(id, text string) error
}

package gcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/easyrent/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
// It centralizes client creation for all services.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreStore is the document store behind the listing pipeline. Posts and
// apartments live in two top-level collections keyed by post ID.
type FirestoreStore struct {
	client     *firestore.Client
	posts      string
	apartments string
}

// NewFirestoreStore wraps a client with the posts and apartments collection names.
func NewFirestoreStore(client *firestore.Client, posts, apartments string) *FirestoreStore {
	return &FirestoreStore{client: client, posts: posts, apartments: apartments}
}

// PostsCollection returns the configured posts collection name.
func (s *FirestoreStore) PostsCollection() string { return s.posts }

// ApartmentsCollection returns the configured apartments collection name.
func (s *FirestoreStore) ApartmentsCollection() string { return s.apartments }

// PostsByStatus returns up to limit posts whose status is one of statuses.
func (s *FirestoreStore) PostsByStatus(ctx context.Context, statuses []models.PostStatus, limit int) ([]models.RawPost, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}

	q := s.client.Collection(s.posts).Where("status", "in", values)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var posts []models.RawPost
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query posts: %w", err)
		}
		var p models.RawPost
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("failed to decode post %s: %w", doc.Ref.ID, err)
		}
		if p.ID == "" {
			p.ID = doc.Ref.ID
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// ListingExists reports whether an apartment with this fingerprint is stored.
func (s *FirestoreStore) ListingExists(ctx context.Context, fingerprint string) (bool, error) {
	docs, err := s.client.Collection(s.apartments).Where("fingerprint", "==", fingerprint).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, fmt.Errorf("failed to query apartments by fingerprint: %w", err)
	}
	return len(docs) > 0, nil
}

// SaveListing upserts the listing under its post ID. indexed_at is set by the server.
func (s *FirestoreStore) SaveListing(ctx context.Context, listing *models.Listing) error {
	if _, err := s.client.Collection(s.apartments).Doc(listing.ID).Set(ctx, listing); err != nil {
		return fmt.Errorf("failed to save apartment %s: %w", listing.ID, err)
	}
	return nil
}

// UpdatePostStatus sets the status of a post, and stamps indexed_at with the
// server time when stamp is true.
func (s *FirestoreStore) UpdatePostStatus(ctx context.Context, id string, st models.PostStatus, stamp bool) error {
	updates := []firestore.Update{
		{Path: "status", Value: string(st)},
	}
	if stamp {
		updates = append(updates, firestore.Update{Path: "indexed_at", Value: firestore.ServerTimestamp})
	}
	if _, err := s.client.Collection(s.posts).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("post %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update status of post %s: %w", id, err)
	}
	return nil
}

// PostIDsByStatus returns up to limit post IDs whose status is one of statuses.
func (s *FirestoreStore) PostIDsByStatus(ctx context.Context, statuses []string, limit int) ([]string, error) {
	docs, err := s.client.Collection(s.posts).Where("status", "in", statuses).Select().Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by status: %w", err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.Ref.ID
	}
	return ids, nil
}

// DocumentAges lists every document of a collection with its indexed_at time.
func (s *FirestoreStore) DocumentAges(ctx context.Context, collection string) ([]models.DocumentAge, error) {
	iter := s.client.Collection(collection).Select("indexed_at").Documents(ctx)
	defer iter.Stop()

	var ages []models.DocumentAge
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
		}
		age := models.DocumentAge{ID: doc.Ref.ID}
		if v, err := doc.DataAt("indexed_at"); err == nil {
			if t, ok := v.(time.Time); ok {
				age.IndexedAt = t
			}
		}
		ages = append(ages, age)
	}
	return ages, nil
}

// DeleteDocuments deletes the given IDs from a collection, at most batchSize
// writes per BulkWriter flush. It returns how many deletes succeeded.
func (s *FirestoreStore) DeleteDocuments(ctx context.Context, collection string, ids []string, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	col := s.client.Collection(collection)
	deleted := 0
	var errs []error

	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		bw := s.client.BulkWriter(ctx)
		jobs := make([]*firestore.BulkWriterJob, 0, end-start)
		for _, id := range ids[start:end] {
			job, err := bw.Delete(col.Doc(id))
			if err != nil {
				errs = append(errs, fmt.Errorf("enqueue delete %s/%s: %w", collection, id, err))
				continue
			}
			jobs = append(jobs, job)
		}
		bw.End()

		for _, job := range jobs {
			if _, err := job.Results(); err != nil {
				errs = append(errs, err)
				continue
			}
			deleted++
		}
	}
	if len(errs) > 0 {
		return deleted, fmt.Errorf("failed to delete %d documents from %s: %w", len(errs), collection, errors.Join(errs...))
	}
	return deleted, nil
}

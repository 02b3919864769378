package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Lllllllleong/easyrent/internal/lock"
	"github.com/Lllllllleong/easyrent/internal/models"
)

type statusUpdate struct {
	ID     string
	Status models.PostStatus
	Stamp  bool
}

// fakeStore keeps posts and apartments in memory and records every write.
type fakeStore struct {
	mu       sync.Mutex
	posts    []*models.RawPost
	listings []*models.Listing
	updates  []statusUpdate
	ages     map[string][]models.DocumentAge
	deleted  map[string][]string
	saveErr  error
	queryErr error
	agesErr  map[string]error
}

func newFakeStore(posts ...models.RawPost) *fakeStore {
	s := &fakeStore{ages: map[string][]models.DocumentAge{}, deleted: map[string][]string{}, agesErr: map[string]error{}}
	for i := range posts {
		p := posts[i]
		s.posts = append(s.posts, &p)
	}
	return s
}

func (s *fakeStore) PostsCollection() string      { return "posts" }
func (s *fakeStore) ApartmentsCollection() string { return "apartments" }

func (s *fakeStore) PostsByStatus(_ context.Context, statuses []models.PostStatus, limit int) ([]models.RawPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []models.RawPost
	for _, p := range s.posts {
		if slices.Contains(statuses, p.Status) {
			out = append(out, *p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) ListingExists(_ context.Context, fp string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.listings {
		if l.Fingerprint == fp {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) SaveListing(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	saved := *l
	saved.IndexedAt = time.Now()
	s.listings = append(s.listings, &saved)
	return nil
}

func (s *fakeStore) UpdatePostStatus(_ context.Context, id string, st models.PostStatus, stamp bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, statusUpdate{ID: id, Status: st, Stamp: stamp})
	for _, p := range s.posts {
		if p.ID == id {
			p.Status = st
			if stamp {
				p.IndexedAt = time.Now()
			}
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *fakeStore) PostIDsByStatus(_ context.Context, statuses []string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, p := range s.posts {
		if slices.Contains(statuses, string(p.Status)) {
			ids = append(ids, p.ID)
		}
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func (s *fakeStore) DocumentAges(_ context.Context, collection string) ([]models.DocumentAge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.agesErr[collection]; err != nil {
		return nil, err
	}
	if ages, ok := s.ages[collection]; ok {
		return ages, nil
	}
	var ages []models.DocumentAge
	switch collection {
	case "posts":
		for _, p := range s.posts {
			ages = append(ages, models.DocumentAge{ID: p.ID, IndexedAt: p.IndexedAt})
		}
	case "apartments":
		for _, l := range s.listings {
			ages = append(ages, models.DocumentAge{ID: l.ID, IndexedAt: l.IndexedAt})
		}
	}
	return ages, nil
}

func (s *fakeStore) DeleteDocuments(_ context.Context, collection string, ids []string, _ int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[collection] = append(s.deleted[collection], ids...)
	if collection == "posts" {
		s.posts = slices.DeleteFunc(s.posts, func(p *models.RawPost) bool { return slices.Contains(ids, p.ID) })
	}
	if collection == "apartments" {
		s.listings = slices.DeleteFunc(s.listings, func(l *models.Listing) bool { return slices.Contains(ids, l.ID) })
	}
	return len(ids), nil
}

func (s *fakeStore) status(id string) models.PostStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p.Status
		}
	}
	return ""
}

func (s *fakeStore) lastUpdate(id string) (statusUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.updates) - 1; i >= 0; i-- {
		if s.updates[i].ID == id {
			return s.updates[i], true
		}
	}
	return statusUpdate{}, false
}

// fakeExtractor answers by post text, falling back to a default answer.
type fakeExtractor struct {
	mu       sync.Mutex
	answers  map[string]string
	fallback string
	err      error
	calls    []string
}

func (e *fakeExtractor) Extract(_ context.Context, text string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, text)
	if e.err != nil {
		return "", e.err
	}
	if a, ok := e.answers[text]; ok {
		return a, nil
	}
	return e.fallback, nil
}

type memorySideLog struct {
	entries []errorLogEntry
}

func (l *memorySideLog) Append(id, text string) error {
	l.entries = append(l.entries, errorLogEntry{ID: id, Text: text})
	return nil
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return nil, lock.ErrHeld
}

var errBoom = errors.New("boom")

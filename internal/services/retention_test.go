package services

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/Lllllllleong/easyrent/internal/models"
)

var fixedNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func TestIsExpired(t *testing.T) {
	cutoff := fixedNow.Add(-14 * 24 * time.Hour)
	cases := []struct {
		name string
		age  models.DocumentAge
		want bool
	}{
		{"stamped long ago", models.DocumentAge{ID: "x", IndexedAt: cutoff.Add(-time.Hour)}, true},
		{"stamped recently", models.DocumentAge{ID: "x", IndexedAt: cutoff.Add(time.Hour)}, false},
		{"stamp wins over old id", models.DocumentAge{ID: "01012020_a", IndexedAt: cutoff.Add(time.Hour)}, false},
		{"old id without stamp", models.DocumentAge{ID: "01012020_a"}, true},
		{"recent id without stamp", models.DocumentAge{ID: "19032025_a"}, false},
		{"unparseable id", models.DocumentAge{ID: "abc"}, false},
		{"impossible id date", models.DocumentAge{ID: "31022025_a"}, false},
	}
	for _, c := range cases {
		if got := IsExpired(c.age, cutoff); got != c.want {
			t.Errorf("%s: IsExpired = %v; want %v", c.name, got, c.want)
		}
	}
}

func TestPruner_DeletesOldDocumentsInBothCollections(t *testing.T) {
	store := newFakeStore()
	store.ages["posts"] = []models.DocumentAge{
		{ID: "01012025_old"},
		{ID: "18032025_new"},
		{ID: "stamped_old", IndexedAt: fixedNow.AddDate(0, 0, -30)},
		{ID: "stamped_new", IndexedAt: fixedNow.AddDate(0, 0, -1)},
	}
	store.ages["apartments"] = []models.DocumentAge{
		{ID: "01022025_old", IndexedAt: fixedNow.AddDate(0, 0, -15)},
		{ID: "garbage"},
	}
	p := NewPruner(store, 500)
	p.now = func() time.Time { return fixedNow }

	res, err := p.Prune(context.Background(), 14*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if res.Posts != 2 || res.Apartments != 1 {
		t.Errorf("result = %+v; want 2 posts, 1 apartment", res)
	}
	posts := store.deleted["posts"]
	slices.Sort(posts)
	if !slices.Equal(posts, []string{"01012025_old", "stamped_old"}) {
		t.Errorf("deleted posts = %v", posts)
	}
	if !slices.Equal(store.deleted["apartments"], []string{"01022025_old"}) {
		t.Errorf("deleted apartments = %v", store.deleted["apartments"])
	}
}

func TestPruner_ReportsScanFailure(t *testing.T) {
	store := newFakeStore()
	store.agesErr["apartments"] = errBoom
	p := NewPruner(store, 500)
	p.now = func() time.Time { return fixedNow }

	if _, err := p.Prune(context.Background(), time.Hour); err == nil {
		t.Error("expected the scan error")
	}
}

func TestCleanup_DeletesTerminalPostsInBatches(t *testing.T) {
	var posts []models.RawPost
	for i, st := range []models.PostStatus{
		models.StatusSkipped, models.StatusDuplicate, models.StatusSkipped,
		models.StatusNew, models.StatusDuplicate, models.StatusProcessed, models.StatusSkipped,
	} {
		posts = append(posts, models.RawPost{ID: string(rune('a' + i)), Status: st})
	}
	store := newFakeStore(posts...)

	n, err := NewCleanup(store, 2).Run(context.Background(), []string{"skipped", "duplicate"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 5 {
		t.Errorf("deleted = %d; want 5", n)
	}
	if store.status("d") != models.StatusNew || store.status("f") != models.StatusProcessed {
		t.Error("cleanup touched posts outside the requested statuses")
	}
}

func TestCleanup_RefusesConsumableStatuses(t *testing.T) {
	store := newFakeStore(models.RawPost{ID: "a", Status: models.StatusNew})
	if _, err := NewCleanup(store, 10).Run(context.Background(), []string{"new"}); err == nil {
		t.Fatal("expected an error for a consumable status")
	}
	if store.status("a") != models.StatusNew {
		t.Error("post was deleted")
	}
}

func TestRetentionProcess_RequestOverrides(t *testing.T) {
	store := newFakeStore(
		models.RawPost{ID: "10032025_a", Status: models.StatusIncomplete},
		models.RawPost{ID: "19032025_b", Status: models.StatusProcessed, IndexedAt: fixedNow},
	)
	f := NewRetentionFromStore(store, RetentionConfig{
		RetentionDays:   100,
		DeleteBatchSize: 500,
		CleanupStatuses: []string{"skipped"},
	})
	f.pruner.now = func() time.Time { return fixedNow }

	resp, err := f.Process(context.Background(), &models.PruneRequest{RetentionDays: 5, CleanupStatuses: []string{"processed"}})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Pruned.Posts != 1 || resp.CleanedUp != 1 {
		t.Errorf("response = %+v", resp)
	}
	if len(store.posts) != 0 {
		t.Errorf("posts left = %d; want 0", len(store.posts))
	}
}

// ── Full run ───────────────────────────────────────────────────────────────

func TestRunner_RunOnce(t *testing.T) {
	old := post("01012024_old", listingText)
	old.Status = models.StatusProcessed
	store := newFakeStore(old, post("12032025_a1", listingText), post("12032025_c3", "כמה?"))

	retention := NewRetentionFromStore(store, RetentionConfig{
		RetentionDays:   14,
		DeleteBatchSize: 500,
		CleanupStatuses: []string{"skipped", "duplicate"},
	})
	retention.pruner.now = func() time.Time { return fixedNow }
	processor, _ := newTestProcessor(store, &fakeExtractor{fallback: listingJSON})

	report, err := NewRunnerFrom(retention, processor).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if report.Pruned.Posts != 1 {
		t.Errorf("pruned posts = %d; want 1", report.Pruned.Posts)
	}
	if report.Summary.Processed() != 1 {
		t.Errorf("processed = %d; want 1", report.Summary.Processed())
	}
	if report.CleanedUp != 1 {
		t.Errorf("cleaned up = %d; want the skipped comment", report.CleanedUp)
	}
	if len(store.posts) != 1 || store.posts[0].ID != "12032025_a1" {
		t.Errorf("remaining posts = %v", store.posts)
	}
}

func TestRunner_ContinuesAfterPruneFailure(t *testing.T) {
	store := newFakeStore(post("12032025_a1", listingText))
	store.agesErr["posts"] = errBoom

	retention := NewRetentionFromStore(store, RetentionConfig{RetentionDays: 14, DeleteBatchSize: 500})
	processor, _ := newTestProcessor(store, &fakeExtractor{fallback: listingJSON})

	report, err := NewRunnerFrom(retention, processor).RunOnce(context.Background())
	if err == nil {
		t.Error("expected the prune error to be reported")
	}
	if report.Summary.Processed() != 1 {
		t.Errorf("processing did not run after a prune failure: %+v", report.Summary)
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/easyrent/internal/gcp"
	"github.com/Lllllllleong/easyrent/internal/models"
)

// RetentionConfig holds configuration for pruning and status cleanup.
type RetentionConfig struct {
	ProjectID            string
	PostsCollection      string
	ApartmentsCollection string
	RetentionDays        int
	DeleteBatchSize      int
	CleanupStatuses      []string
}

func loadRetentionConfig() (*RetentionConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	cfg := &RetentionConfig{
		ProjectID:            projectID,
		PostsCollection:      gcp.GetEnv("POSTS_COLLECTION", "posts"),
		ApartmentsCollection: gcp.GetEnv("APARTMENTS_COLLECTION", "apartments"),
		RetentionDays:        gcp.GetEnvInt("RETENTION_DAYS", 14),
		DeleteBatchSize:      gcp.GetEnvInt("DELETE_BATCH_SIZE", 500),
		CleanupStatuses:      gcp.GetEnvList("CLEANUP_STATUSES", []string{string(models.StatusSkipped), string(models.StatusDuplicate)}),
	}
	if cfg.RetentionDays <= 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must be positive, got %d", cfg.RetentionDays)
	}
	if cfg.DeleteBatchSize <= 0 || cfg.DeleteBatchSize > 500 {
		return nil, fmt.Errorf("DELETE_BATCH_SIZE must be between 1 and 500, got %d", cfg.DeleteBatchSize)
	}
	if _, err := cleanupStatuses(cfg.CleanupStatuses); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cleanupStatuses rejects statuses the pipeline still consumes; deleting
// them would lose unprocessed posts.
func cleanupStatuses(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		st, err := models.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		if st.IsConsumable() {
			return nil, fmt.Errorf("refusing to clean up posts in consumable status %q", st)
		}
		out = append(out, string(st))
	}
	return out, nil
}

// Pruner deletes posts and apartments older than the retention window.
type Pruner struct {
	store     RetentionStore
	batchSize int
	now       func() time.Time
}

// NewPruner creates a Pruner deleting at most batchSize documents per flush.
func NewPruner(store RetentionStore, batchSize int) *Pruner {
	return &Pruner{store: store, batchSize: batchSize, now: time.Now}
}

// PruneResult counts deleted documents per collection.
type PruneResult struct {
	Posts      int `json:"posts"`
	Apartments int `json:"apartments"`
}

// Prune deletes documents whose indexed_at is before now-retention. Documents
// that were never stamped are aged by the date in their ID; those without a
// parseable ID date are kept.
func (p *Pruner) Prune(ctx context.Context, retention time.Duration) (PruneResult, error) {
	cutoff := p.now().Add(-retention)
	slog.Info("Starting retention pruning.", "cutoff", cutoff.Format(time.RFC3339))

	var res PruneResult
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(2)
	eg.Go(func() error {
		n, err := p.pruneCollection(gctx, p.store.PostsCollection(), cutoff)
		res.Posts = n
		return err
	})
	eg.Go(func() error {
		n, err := p.pruneCollection(gctx, p.store.ApartmentsCollection(), cutoff)
		res.Apartments = n
		return err
	})
	if err := eg.Wait(); err != nil {
		slog.Error("Retention pruning failed.", "error", err, "posts", res.Posts, "apartments", res.Apartments)
		return res, err
	}
	slog.Info("Retention pruning complete.", "posts", res.Posts, "apartments", res.Apartments)
	return res, nil
}

func (p *Pruner) pruneCollection(ctx context.Context, collection string, cutoff time.Time) (int, error) {
	ages, err := p.store.DocumentAges(ctx, collection)
	if err != nil {
		return 0, err
	}
	var expired []string
	for _, a := range ages {
		if IsExpired(a, cutoff) {
			expired = append(expired, a.ID)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}
	n, err := p.store.DeleteDocuments(ctx, collection, expired, p.batchSize)
	if err != nil {
		return n, fmt.Errorf("failed to prune %s: %w", collection, err)
	}
	slog.Info("Pruned collection.", "collection", collection, "deleted", n)
	return n, nil
}

// IsExpired reports whether a document is older than cutoff.
func IsExpired(a models.DocumentAge, cutoff time.Time) bool {
	if !a.IndexedAt.IsZero() {
		return a.IndexedAt.Before(cutoff)
	}
	created, ok := models.ParseIDDate(a.ID)
	return ok && created.Before(cutoff)
}

// Cleanup deletes posts that reached a terminal status nobody needs to keep.
type Cleanup struct {
	store     RetentionStore
	batchSize int
}

// NewCleanup creates a Cleanup deleting batchSize posts per round.
func NewCleanup(store RetentionStore, batchSize int) *Cleanup {
	return &Cleanup{store: store, batchSize: batchSize}
}

// Run deletes posts in the given statuses in batches until none are left.
func (c *Cleanup) Run(ctx context.Context, statuses []string) (int, error) {
	statuses, err := cleanupStatuses(statuses)
	if err != nil {
		return 0, err
	}
	if len(statuses) == 0 {
		return 0, nil
	}

	total := 0
	for {
		ids, err := c.store.PostIDsByStatus(ctx, statuses, c.batchSize)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			break
		}
		n, err := c.store.DeleteDocuments(ctx, c.store.PostsCollection(), ids, c.batchSize)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	slog.Info("Status cleanup complete.", "statuses", statuses, "deleted", total)
	return total, nil
}

// RetentionFunction serves the prune-posts entry point.
type RetentionFunction struct {
	pruner  *Pruner
	cleanup *Cleanup
	config  RetentionConfig
	closer  func() error
}

// NewRetention creates a RetentionFunction wired to Firestore from the environment.
func NewRetention(ctx context.Context) (*RetentionFunction, error) {
	cfg, err := loadRetentionConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	fsClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	store := gcp.NewFirestoreStore(fsClient, cfg.PostsCollection, cfg.ApartmentsCollection)
	f := NewRetentionFromStore(store, *cfg)
	f.closer = fsClient.Close
	return f, nil
}

// NewRetentionFromStore builds a RetentionFunction around an explicit store.
func NewRetentionFromStore(store RetentionStore, cfg RetentionConfig) *RetentionFunction {
	return &RetentionFunction{
		pruner:  NewPruner(store, cfg.DeleteBatchSize),
		cleanup: NewCleanup(store, cfg.DeleteBatchSize),
		config:  cfg,
	}
}

// Close releases the Firestore client created by NewRetention.
func (f *RetentionFunction) Close() error {
	if f.closer != nil {
		return f.closer()
	}
	return nil
}

// PruneResponse reports one retention run.
type PruneResponse struct {
	Pruned       PruneResult `json:"pruned"`
	CleanedUp    int         `json:"cleanedUp"`
	PruneError   string      `json:"pruneError,omitempty"`
	CleanupError string      `json:"cleanupError,omitempty"`
}

// Process prunes old documents and then cleans up terminal posts. Cleanup
// runs even when pruning fails; the first error is returned.
func (f *RetentionFunction) Process(ctx context.Context, req *models.PruneRequest) (*PruneResponse, error) {
	days := f.config.RetentionDays
	statuses := f.config.CleanupStatuses
	if req != nil {
		if req.RetentionDays > 0 {
			days = req.RetentionDays
		}
		if len(req.CleanupStatuses) > 0 {
			statuses = req.CleanupStatuses
		}
	}

	resp := &PruneResponse{}
	pruned, pruneErr := f.Prune(ctx, days)
	resp.Pruned = pruned
	if pruneErr != nil {
		resp.PruneError = pruneErr.Error()
	}
	cleaned, cleanupErr := f.cleanup.Run(ctx, statuses)
	resp.CleanedUp = cleaned
	if cleanupErr != nil {
		slog.Error("Status cleanup failed.", "error", cleanupErr)
		resp.CleanupError = cleanupErr.Error()
	}

	if pruneErr != nil {
		return resp, pruneErr
	}
	return resp, cleanupErr
}

// Prune deletes documents older than days.
func (f *RetentionFunction) Prune(ctx context.Context, days int) (PruneResult, error) {
	return f.pruner.Prune(ctx, time.Duration(days)*24*time.Hour)
}

// Cleanup deletes posts in the configured cleanup statuses.
func (f *RetentionFunction) Cleanup(ctx context.Context) (int, error) {
	return f.cleanup.Run(ctx, f.config.CleanupStatuses)
}

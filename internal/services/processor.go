package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Lllllllleong/easyrent/internal/cleaning"
	"github.com/Lllllllleong/easyrent/internal/fingerprint"
	"github.com/Lllllllleong/easyrent/internal/gcp"
	"github.com/Lllllllleong/easyrent/internal/geo"
	"github.com/Lllllllleong/easyrent/internal/lock"
	"github.com/Lllllllleong/easyrent/internal/models"
	"github.com/Lllllllleong/easyrent/internal/normalize"
	"github.com/Lllllllleong/easyrent/internal/parsing"
)

// ProcessorConfig holds all configuration for the post processor.
type ProcessorConfig struct {
	ProjectID            string
	VertexAIRegion       string
	VertexModel          string
	Temperature          float64
	MaxTokens            int
	MaxRetries           int
	PostsCollection      string
	ApartmentsCollection string
	BatchLimit           int
	Throttle             time.Duration
	ErrorLogPath         string
	ErrorLogBucket       string
	RedisURL             string
	LockTTL              time.Duration
}

// loadProcessorConfig loads and validates the environment for the post processor.
func loadProcessorConfig() (*ProcessorConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	cfg := &ProcessorConfig{
		ProjectID:            projectID,
		VertexAIRegion:       gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		VertexModel:          gcp.GetEnv("VERTEX_MODEL", "gemini-1.5-flash"),
		Temperature:          gcp.GetEnvFloat("EXTRACT_TEMPERATURE", 0.1),
		MaxTokens:            gcp.GetEnvInt("EXTRACT_MAX_TOKENS", 3000),
		MaxRetries:           gcp.GetEnvInt("EXTRACT_MAX_RETRIES", 2),
		PostsCollection:      gcp.GetEnv("POSTS_COLLECTION", "posts"),
		ApartmentsCollection: gcp.GetEnv("APARTMENTS_COLLECTION", "apartments"),
		BatchLimit:           gcp.GetEnvInt("PROCESS_BATCH_LIMIT", 500),
		Throttle:             gcp.GetEnvDuration("PROCESS_THROTTLE", 500*time.Millisecond),
		ErrorLogPath:         gcp.GetEnv("ERROR_LOG_PATH", "error_log.jsonl"),
		ErrorLogBucket:       gcp.GetEnv("ERROR_LOG_BUCKET", ""),
		RedisURL:             gcp.GetEnv("REDIS_URL", ""),
		LockTTL:              gcp.GetEnvDuration("LOCK_TTL", 2*time.Minute),
	}
	if cfg.BatchLimit <= 0 {
		return nil, fmt.Errorf("PROCESS_BATCH_LIMIT must be positive, got %d", cfg.BatchLimit)
	}
	return cfg, nil
}

// ProcessorDeps are the collaborators of a PostProcessor. Nil optional
// fields get a default: the built-in gazetteer, no locking, no side log.
type ProcessorDeps struct {
	Store      PostStore
	Extractor  Extractor
	Resolver   normalize.NeighborhoodResolver
	Locker     lock.Locker
	SideLog    SideLog
	Throttle   time.Duration
	BatchLimit int
}

// PostProcessor drives posts through the listing pipeline, one at a time.
type PostProcessor struct {
	store      PostStore
	extractor  Extractor
	resolver   normalize.NeighborhoodResolver
	locker     lock.Locker
	sideLog    SideLog
	throttle   time.Duration
	batchLimit int

	// archive ships the run's side log, when a bucket is configured.
	archive func(ctx context.Context, runID string) (string, error)
	closers []func() error
}

// NewPostProcessorFromDeps builds a processor around explicit collaborators.
func NewPostProcessorFromDeps(d ProcessorDeps) *PostProcessor {
	p := &PostProcessor{
		store:      d.Store,
		extractor:  d.Extractor,
		resolver:   d.Resolver,
		locker:     d.Locker,
		sideLog:    d.SideLog,
		throttle:   d.Throttle,
		batchLimit: d.BatchLimit,
	}
	if p.resolver == nil {
		p.resolver = geo.NewResolver()
	}
	if p.locker == nil {
		p.locker = lock.NoopLocker{}
	}
	if p.sideLog == nil {
		p.sideLog = discardLog{}
	}
	return p
}

// NewPostProcessor creates a PostProcessor wired to Firestore and Vertex AI
// from the environment.
func NewPostProcessor(ctx context.Context) (*PostProcessor, error) {
	cfg, err := loadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	fsClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	store := gcp.NewFirestoreStore(fsClient, cfg.PostsCollection, cfg.ApartmentsCollection)

	p, err := newPostProcessor(ctx, cfg, store)
	if err != nil {
		_ = fsClient.Close()
		return nil, err
	}
	p.closers = append(p.closers, fsClient.Close)
	return p, nil
}

func newPostProcessor(ctx context.Context, cfg *ProcessorConfig, store PostStore) (*PostProcessor, error) {
	vertexClient, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion, gcp.ExtractorConfig{
		Model:       cfg.VertexModel,
		Temperature: float32(cfg.Temperature),
		MaxTokens:   int32(cfg.MaxTokens),
		MaxRetries:  cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	closers := []func() error{vertexClient.Close}
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.RedisURL != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = lock.NewRedisLocker(rdb, "easyrent:fingerprint:", cfg.LockTTL)
		closers = append(closers, rdb.Close)
	}

	sideLog := NewErrorLog(cfg.ErrorLogPath)
	p := NewPostProcessorFromDeps(ProcessorDeps{
		Store:      store,
		Extractor:  vertexClient,
		Locker:     locker,
		SideLog:    sideLog,
		Throttle:   cfg.Throttle,
		BatchLimit: cfg.BatchLimit,
	})

	if cfg.ErrorLogBucket != "" {
		storageClient, err := gcp.NewStorageClient(ctx)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, storageClient.Close)
		bucket := storageClient.Bucket(cfg.ErrorLogBucket)
		p.archive = func(ctx context.Context, runID string) (string, error) {
			return sideLog.Archive(ctx, bucket, runID)
		}
	}
	p.closers = closers
	return p, nil
}

// Close releases the clients created by NewPostProcessor.
func (p *PostProcessor) Close() error {
	var errs []error
	for _, c := range p.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunSummary counts the terminal statuses reached during one pass.
type RunSummary struct {
	RunID    string
	Consumed int
	Counts   map[models.PostStatus]int
}

// Processed is the number of listings written.
func (s RunSummary) Processed() int { return s.Counts[models.StatusProcessed] }

// Process runs one pipeline pass over the posts selected by req.
func (p *PostProcessor) Process(ctx context.Context, req *models.ProcessPostsRequest) (*models.ProcessPostsResponse, error) {
	if req == nil {
		req = &models.ProcessPostsRequest{}
	}
	statuses, err := consumableStatuses(req.Statuses)
	if err != nil {
		return nil, err
	}
	limit := p.batchLimit
	if req.Limit > 0 {
		limit = req.Limit
	}
	runID := req.ExecutionID
	if runID == "" {
		runID = uuid.NewString()
	}

	summary, err := p.Run(ctx, runID, statuses, limit)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(summary.Counts))
	for st, n := range summary.Counts {
		counts[string(st)] = n
	}
	return &models.ProcessPostsResponse{
		Status:    "success",
		RunID:     summary.RunID,
		Consumed:  summary.Consumed,
		Processed: summary.Processed(),
		Counts:    counts,
	}, nil
}

// consumableStatuses validates requested statuses. Only new and error posts
// may be consumed; an empty request means both.
func consumableStatuses(raw []string) ([]models.PostStatus, error) {
	if len(raw) == 0 {
		return models.ConsumableStatuses, nil
	}
	out := make([]models.PostStatus, 0, len(raw))
	for _, s := range raw {
		st, err := models.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		if !st.IsConsumable() {
			return nil, fmt.Errorf("status %q is terminal and cannot be processed", st)
		}
		out = append(out, st)
	}
	return out, nil
}

// Run consumes up to limit posts in the given statuses sequentially. A
// failure on one post is recorded on that post and never stops the run.
func (p *PostProcessor) Run(ctx context.Context, runID string, statuses []models.PostStatus, limit int) (RunSummary, error) {
	logCtx := slog.With("runId", runID)
	logCtx.Info("Starting post processing.", "statuses", statuses, "limit", limit)

	summary := RunSummary{RunID: runID, Counts: make(map[models.PostStatus]int)}
	posts, err := p.store.PostsByStatus(ctx, statuses, limit)
	if err != nil {
		logCtx.Error("Failed to load posts.", "error", err)
		return summary, fmt.Errorf("failed to load posts: %w", err)
	}

	for i, post := range posts {
		if ctx.Err() != nil {
			logCtx.Warn("Run cancelled, leaving remaining posts for the next run.", "remaining", len(posts)-i)
			break
		}
		summary.Consumed++
		st, calledModel := p.processOne(ctx, logCtx.With("postId", post.ID), post)
		if st != "" {
			summary.Counts[st]++
		}
		if calledModel {
			p.pause(ctx)
		}
	}

	if p.archive != nil {
		if object, err := p.archive(ctx, runID); err != nil {
			logCtx.Error("Failed to archive error log.", "error", err)
		} else if object != "" {
			logCtx.Info("Error log archived.", "object", object)
		}
	}

	logCtx.Info("Post processing complete.", "consumed", summary.Consumed, "processed", summary.Processed(), "counts", summary.Counts)
	return summary, nil
}

func (p *PostProcessor) pause(ctx context.Context) {
	if p.throttle <= 0 {
		return
	}
	select {
	case <-time.After(p.throttle):
	case <-ctx.Done():
	}
}

// processOne returns the status the post ended in, empty when it was left
// untouched, and whether the model was called.
func (p *PostProcessor) processOne(ctx context.Context, logCtx *slog.Logger, post models.RawPost) (st models.PostStatus, calledModel bool) {
	defer func() {
		if r := recover(); r != nil {
			st = p.handleError(ctx, logCtx, post, "unexpected panic while processing post", fmt.Errorf("%v", r), false)
		}
	}()

	text := strings.TrimSpace(post.Text)
	if text == "" {
		logCtx.Info("Empty post, leaving it for a later run.")
		return "", false
	}
	if IsLikelyComment(text) {
		return p.finish(ctx, logCtx, post.ID, models.StatusSkipped, "Likely a comment."), false
	}

	answer, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return p.handleError(ctx, logCtx, post, "extraction call failed", err, true), true
	}
	raw, err := parsing.Sanitize(answer)
	if err != nil {
		return p.handleError(ctx, logCtx, post, "could not parse extraction output", err, true), true
	}

	st, err = p.buildListing(ctx, logCtx, post, text, raw)
	if err != nil {
		return p.handleError(ctx, logCtx, post, "failed to store listing", err, false), true
	}
	return st, true
}

// commentPattern matches questions and the stock phrases of replies.
var commentPattern = regexp.MustCompile(`(כמה|מחיר|פרטים|אשמח|אפשר|למה|נשמע|מעניין|שיתוף|\?)`)

// commentMaxLength is the length, in characters, below which a post may be a comment.
const commentMaxLength = 50

// IsLikelyComment reports whether a post is a short conversational reply
// rather than a listing.
func IsLikelyComment(text string) bool {
	return utf8.RuneCountInString(text) < commentMaxLength && commentPattern.MatchString(text)
}

// buildListing applies steps from classification to persistence. Only store
// failures are returned as errors; every other outcome is a status.
func (p *PostProcessor) buildListing(ctx context.Context, logCtx *slog.Logger, post models.RawPost, text string, raw map[string]any) (models.PostStatus, error) {
	rec := normalize.Record(raw, text)
	if rec.IsApartment != nil && !*rec.IsApartment {
		return p.finish(ctx, logCtx, post.ID, models.StatusSkipped, "Not an apartment listing."), nil
	}
	if rec.Category == models.CategoryExchange {
		return p.finish(ctx, logCtx, post.ID, models.StatusSkippedExchange, "Home exchange, skipping."), nil
	}

	rec.Description = cleaning.Clean(post.Text)
	res := normalize.Neighborhood(&rec, p.resolver, text)
	if res.Rule != geo.RuleNone {
		logCtx.Debug("Neighborhood rule applied.", "rule", res.Rule, "phrase", res.Phrase, "neighborhood", res.Neighborhood)
	}

	fp, ok := fingerprint.Of(&rec)
	if !ok {
		return p.finish(ctx, logCtx, post.ID, models.StatusIncomplete, "No fields to fingerprint."), nil
	}

	release, err := p.locker.Acquire(ctx, fp)
	if errors.Is(err, lock.ErrHeld) {
		return p.finish(ctx, logCtx, post.ID, models.StatusDuplicate, "Same apartment is being written by another run."), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to lock fingerprint: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logCtx.Warn("Failed to release fingerprint lock.", "error", err)
		}
	}()

	exists, err := p.store.ListingExists(ctx, fp)
	if err != nil {
		return "", err
	}
	if exists {
		return p.finish(ctx, logCtx, post.ID, models.StatusDuplicate, "Duplicate apartment."), nil
	}

	listing := newListing(post, rec, fp)
	if !listing.HasIdentifyingField() {
		return p.finish(ctx, logCtx, post.ID, models.StatusIncomplete, "No important fields present."), nil
	}

	if err := p.store.SaveListing(ctx, listing); err != nil {
		return "", err
	}
	if err := p.store.UpdatePostStatus(ctx, post.ID, models.StatusProcessed, true); err != nil {
		return "", err
	}
	logCtx.Info("Apartment saved.", "status", models.StatusProcessed, "fingerprint", fp)
	return models.StatusProcessed, nil
}

// newListing assembles the stored document. The neighborhood is stored under
// its Hebrew display name.
func newListing(post models.RawPost, rec models.ExtractedRecord, fp string) *models.Listing {
	if rec.Neighborhood != nil {
		if he, ok := geo.HebrewName(*rec.Neighborhood); ok {
			rec.Neighborhood = &he
		}
	}
	listing := &models.Listing{
		ExtractedRecord: rec,
		ID:              post.ID,
		Images:          post.Images,
		ContactID:       post.ContactID,
		ContactName:     post.ContactName,
		Fingerprint:     fp,
	}
	if listing.Images == nil {
		listing.Images = []string{}
	}
	if d, ok := models.UploadDateFromID(post.ID); ok {
		listing.UploadDate = &d
	}
	return listing
}

// finish moves a post to a terminal status decided by the pipeline.
func (p *PostProcessor) finish(ctx context.Context, logCtx *slog.Logger, id string, st models.PostStatus, msg string) models.PostStatus {
	if err := p.store.UpdatePostStatus(ctx, id, st, false); err != nil {
		logCtx.Error("Failed to update post status.", "status", st, "error", err)
	}
	logCtx.Info(msg, "status", st)
	return st
}

// handleError forces the post into the error status. Extraction failures
// also go to the side log.
func (p *PostProcessor) handleError(ctx context.Context, logCtx *slog.Logger, post models.RawPost, message string, originalErr error, toSideLog bool) models.PostStatus {
	logCtx.Error(message, "error", originalErr, "status", models.StatusError)
	if toSideLog {
		if err := p.sideLog.Append(post.ID, post.Text); err != nil {
			logCtx.Error("Failed to append to error log.", "error", err)
		}
	}
	if err := p.store.UpdatePostStatus(ctx, post.ID, models.StatusError, !toSideLog); err != nil {
		logCtx.Error("CRITICAL: Failed to update post status to error.", "updateError", err)
	}
	return models.StatusError
}

// Compile-time checks that the production collaborators fit.
var (
	_ PostStore      = (*gcp.FirestoreStore)(nil)
	_ RetentionStore = (*gcp.FirestoreStore)(nil)
	_ Extractor      = (*gcp.VertexClient)(nil)
	_ SideLog        = (*ErrorLog)(nil)
)

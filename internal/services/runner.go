package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Lllllllleong/easyrent/internal/gcp"
	"github.com/Lllllllleong/easyrent/internal/models"
)

// Runner performs a full maintenance and processing pass, in the order
// prune, process, cleanup.
type Runner struct {
	retention *RetentionFunction
	processor *PostProcessor
	closers   []func() error
}

// NewRunner wires both stages to one Firestore client from the environment.
func NewRunner(ctx context.Context) (*Runner, error) {
	pcfg, err := loadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	rcfg, err := loadRetentionConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	fsClient, err := gcp.NewFirestoreClient(ctx, pcfg.ProjectID)
	if err != nil {
		return nil, err
	}
	store := gcp.NewFirestoreStore(fsClient, pcfg.PostsCollection, pcfg.ApartmentsCollection)

	processor, err := newPostProcessor(ctx, pcfg, store)
	if err != nil {
		_ = fsClient.Close()
		return nil, err
	}
	return &Runner{
		retention: NewRetentionFromStore(store, *rcfg),
		processor: processor,
		closers:   []func() error{processor.Close, fsClient.Close},
	}, nil
}

// NewRunnerFrom assembles a Runner from already built stages.
func NewRunnerFrom(retention *RetentionFunction, processor *PostProcessor) *Runner {
	return &Runner{retention: retention, processor: processor}
}

// Close releases every client owned by the runner.
func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunReport is the outcome of RunOnce.
type RunReport struct {
	Pruned    PruneResult
	Summary   RunSummary
	CleanedUp int
}

// RunOnce runs every stage even if an earlier one fails and returns the
// joined stage errors.
func (r *Runner) RunOnce(ctx context.Context) (RunReport, error) {
	runID := uuid.NewString()
	logCtx := slog.With("runId", runID)
	logCtx.Info("Starting full run.")

	var report RunReport
	var errs []error

	pruned, err := r.retention.Prune(ctx, r.retention.config.RetentionDays)
	report.Pruned = pruned
	if err != nil {
		logCtx.Error("Pruning stage failed, continuing.", "error", err)
		errs = append(errs, fmt.Errorf("prune: %w", err))
	}

	summary, err := r.processor.Run(ctx, runID, models.ConsumableStatuses, r.processor.batchLimit)
	report.Summary = summary
	if err != nil {
		logCtx.Error("Processing stage failed, continuing.", "error", err)
		errs = append(errs, fmt.Errorf("process: %w", err))
	}

	cleaned, err := r.retention.Cleanup(ctx)
	report.CleanedUp = cleaned
	if err != nil {
		logCtx.Error("Cleanup stage failed.", "error", err)
		errs = append(errs, fmt.Errorf("cleanup: %w", err))
	}

	logCtx.Info("Full run complete.",
		"prunedPosts", pruned.Posts,
		"prunedApartments", pruned.Apartments,
		"processed", summary.Processed(),
		"cleanedUp", cleaned,
	)
	return report, errors.Join(errs...)
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"charscan/internal/dsid"
	"charscan/internal/locator"
	"charscan/internal/logging"
	"charscan/internal/project"
	"charscan/internal/scan"
)

// DatasetScanner scans one dataset.
type DatasetScanner interface {
	ScanOne(ctx context.Context, projectName string, id dsid.Identifier, dir string) (scan.Result, error)
}

// DatasetLocator resolves a selection to datasets.
type DatasetLocator interface {
	Locate(ctx context.Context, p *project.Project, sel locator.Selection) (*locator.Datasets, error)
}

// Recorder receives run history. Errors are logged and never fail the batch.
type Recorder interface {
	BeginRun(ctx context.Context, runID, projectName string, startedAt time.Time) error
	Record(ctx context.Context, runID string, result scan.Result) error
	FinishRun(ctx context.Context, summary Summary) error
}

// Options configures a Driver.
type Options struct {
	Registry *project.Registry
	Locator  DatasetLocator
	Scanner  DatasetScanner
	Recorder Recorder
	Logger   *slog.Logger
	// NewRunID overrides run id generation.
	NewRunID func() string
	Now      func() time.Time
}

// Driver runs batches.
type Driver struct {
	registry *project.Registry
	locator  DatasetLocator
	scanner  DatasetScanner
	recorder Recorder
	logger   *slog.Logger
	newRunID func() string
	now      func() time.Time
}

// NewDriver validates opts and returns a Driver.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Registry == nil {
		return nil, errors.New("batch driver requires a project registry")
	}
	if opts.Locator == nil {
		return nil, errors.New("batch driver requires a locator")
	}
	if opts.Scanner == nil {
		return nil, errors.New("batch driver requires a scanner")
	}
	d := &Driver{
		registry: opts.Registry,
		locator:  opts.Locator,
		scanner:  opts.Scanner,
		recorder: opts.Recorder,
		logger:   logging.NewComponentLogger(opts.Logger, "batch"),
		newRunID: opts.NewRunID,
		now:      opts.Now,
	}
	if d.newRunID == nil {
		d.newRunID = uuid.NewString
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// Run locates the datasets of sel once and scans each of them in order.
// Per-dataset failures are counted. Only fatal errors (unknown project,
// invalid selection, output tree I/O) abort the run; the partial summary is
// returned alongside the error.
func (d *Driver) Run(ctx context.Context, projectName string, sel locator.Selection) (Summary, error) {
	p, err := d.registry.Lookup(projectName)
	if err != nil {
		return Summary{}, err
	}
	datasets, err := d.locator.Locate(ctx, p, sel)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RunID:     d.newRunID(),
		Project:   p.Name(),
		Outcomes:  make(map[scan.Outcome]int),
		StartedAt: d.now(),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, d.logger).With(logging.String(logging.FieldProject, p.Name()))
	logger.Info("batch started", logging.Int("datasets", datasets.Len()))

	if d.recorder != nil {
		if err := d.recorder.BeginRun(ctx, summary.RunID, summary.Project, summary.StartedAt); err != nil {
			d.journalWarning(logger, "begin run", err)
		}
	}

	for _, ds := range datasets.All() {
		if err := ctx.Err(); err != nil {
			return d.interrupted(ctx, logger, summary, err)
		}
		result, err := d.scanner.ScanOne(ctx, p.Name(), ds.ID, ds.Dir)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return d.interrupted(ctx, logger, summary, err)
			}
			summary.FinishedAt = d.now()
			logging.ErrorWithContext(logger, "batch aborted", "batch_aborted",
				logging.String(logging.FieldDatasetID, ds.ID.String()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the configuration or output directory and rerun"),
			)
			d.finish(ctx, logger, summary)
			return summary, fmt.Errorf("scan %s: %w", ds.ID, err)
		}
		summary.add(result.Outcome)
		if d.recorder != nil {
			if err := d.recorder.Record(ctx, summary.RunID, result); err != nil {
				d.journalWarning(logger, "record result", err)
			}
		}
	}

	summary.FinishedAt = d.now()
	d.finish(ctx, logger, summary)
	logger.Info("batch completed",
		logging.Int("count", summary.Count),
		logging.Int("failure_count", summary.FailureCount),
		logging.String("failure_rate", summary.FailurePercent()),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

// interrupted ends a cancelled run. Datasets not yet scanned keep their
// markers untouched and are picked up by the next run.
func (d *Driver) interrupted(ctx context.Context, logger *slog.Logger, summary Summary, err error) (Summary, error) {
	summary.FinishedAt = d.now()
	logging.WarnWithContext(logger, "batch interrupted", "batch_interrupted",
		logging.Int("scanned", summary.Count),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "rerun the same selection to continue"),
		logging.String(logging.FieldImpact, "remaining datasets were not scanned"),
	)
	d.finish(ctx, logger, summary)
	return summary, fmt.Errorf("batch interrupted after %d datasets: %w", summary.Count, err)
}

func (d *Driver) finish(ctx context.Context, logger *slog.Logger, summary Summary) {
	if d.recorder == nil {
		return
	}
	// The summary is still recorded when the run was cancelled.
	if err := d.recorder.FinishRun(context.WithoutCancel(ctx), summary); err != nil {
		d.journalWarning(logger, "finish run", err)
	}
}

func (d *Driver) journalWarning(logger *slog.Logger, op string, err error) {
	logging.WarnWithContext(logger, "scan journal update failed", "journal_write_failed",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the journal path and disk space"),
		logging.String(logging.FieldImpact, "run history is incomplete; markers are unaffected"),
	)
}

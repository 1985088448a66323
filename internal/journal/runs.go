package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"charscan/internal/batch"
	"charscan/internal/scan"
)

// ErrRunNotFound reports a run id with no journal entry.
var ErrRunNotFound = errors.New("run not found")

// Run is one batch invocation.
type Run struct {
	ID           string
	Project      string
	StartedAt    time.Time
	FinishedAt   time.Time
	Count        int
	FailureCount int
}

// Finished reports whether the run recorded its summary.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Entry is one dataset outcome recorded during a run.
type Entry struct {
	RunID      string
	DatasetID  string
	Outcome    scan.Outcome
	Reason     string
	RecordedAt time.Time
}

// BeginRun inserts a run row.
func (s *Store) BeginRun(ctx context.Context, runID, projectName string, startedAt time.Time) error {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return errors.New("run id must be set")
	}
	if startedAt.IsZero() {
		startedAt = s.now()
	}
	if err := s.execWithoutResultRetry(ctx,
		`INSERT INTO runs (run_id, project, started_at) VALUES (?, ?, ?)`,
		runID, projectName, formatTime(startedAt),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}
	return nil
}

// Record appends the outcome of one dataset to runID.
func (s *Store) Record(ctx context.Context, runID string, result scan.Result) error {
	if err := s.execWithoutResultRetry(ctx,
		`INSERT INTO results (run_id, ds_id, outcome, reason, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		runID, result.DatasetID.String(), result.Outcome.String(), result.Reason, formatTime(s.now()),
	); err != nil {
		return fmt.Errorf("record %s: %w", result.DatasetID, err)
	}
	return nil
}

// FinishRun stores the final counts of a run.
func (s *Store) FinishRun(ctx context.Context, summary batch.Summary) error {
	finished := summary.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, count = ?, failure_count = ? WHERE run_id = ?`,
		formatTime(finished), summary.Count, summary.FailureCount, summary.RunID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", summary.RunID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, summary.RunID)
	}
	return nil
}

// Runs returns the most recent runs first. A limit <= 0 returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT run_id, project, started_at, finished_at, count, failure_count
		FROM runs ORDER BY started_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run returns a single run by id.
func (s *Store) Run(ctx context.Context, runID string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, project, started_at, finished_at, count, failure_count FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// Results returns the entries of runID in the order they were recorded.
func (s *Store) Results(ctx context.Context, runID string) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, ds_id, outcome, reason, recorded_at FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			outcome  string
			recorded sql.NullString
		)
		if err := rows.Scan(&entry.RunID, &entry.DatasetID, &outcome, &entry.Reason, &recorded); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		parsed, err := scan.ParseOutcome(outcome)
		if err != nil {
			return nil, err
		}
		entry.Outcome = parsed
		entry.RecordedAt = parseTime(recorded)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LatestOutcome returns the most recent journal entry for a dataset.
func (s *Store) LatestOutcome(ctx context.Context, dsID string) (Entry, bool, error) {
	ctx = ensureContext(ctx)
	var (
		entry    Entry
		outcome  string
		recorded sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, ds_id, outcome, reason, recorded_at FROM results WHERE ds_id = ? ORDER BY id DESC LIMIT 1`, dsID,
	).Scan(&entry.RunID, &entry.DatasetID, &outcome, &entry.Reason, &recorded)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("latest outcome for %s: %w", dsID, err)
	}
	parsed, err := scan.ParseOutcome(outcome)
	if err != nil {
		return Entry{}, false, err
	}
	entry.Outcome = parsed
	entry.RecordedAt = parseTime(recorded)
	return entry, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		started  sql.NullString
		finished sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Project, &started, &finished, &run.Count, &run.FailureCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

var _ batch.Recorder = (*Store)(nil)

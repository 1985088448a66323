package batch_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"charscan/internal/batch"
	"charscan/internal/character"
	"charscan/internal/config"
	"charscan/internal/dsid"
	"charscan/internal/locator"
	"charscan/internal/outputs"
	"charscan/internal/project"
	"charscan/internal/scan"
	"charscan/internal/testsupport"
)

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, []string, string) (character.Record, error) {
	return character.Record{"ok": true}, nil
}

type scriptedScanner struct {
	outcomes map[string]scan.Outcome
	fatal    map[string]error
	seen     []string
}

func (s *scriptedScanner) ScanOne(_ context.Context, _ string, id dsid.Identifier, _ string) (scan.Result, error) {
	s.seen = append(s.seen, id.String())
	if err := s.fatal[id.String()]; err != nil {
		return scan.Result{}, err
	}
	outcome, ok := s.outcomes[id.String()]
	if !ok {
		outcome = scan.Succeeded
	}
	return scan.Result{DatasetID: id, Outcome: outcome}, nil
}

type memoryRecorder struct {
	begun    []string
	results  []scan.Result
	finished []batch.Summary
	err      error
}

func (m *memoryRecorder) BeginRun(_ context.Context, runID, _ string, _ time.Time) error {
	m.begun = append(m.begun, runID)
	return m.err
}

func (m *memoryRecorder) Record(_ context.Context, _ string, result scan.Result) error {
	m.results = append(m.results, result)
	return m.err
}

func (m *memoryRecorder) FinishRun(_ context.Context, summary batch.Summary) error {
	m.finished = append(m.finished, summary)
	return m.err
}

// cancellingExtractor cancels the batch while the extractor runs, the way
// SIGINT kills the child process mid-dataset.
type cancellingExtractor struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingExtractor) Extract(context.Context, []string, string) (character.Record, error) {
	c.calls++
	c.cancel()
	return nil, errors.New("char-extract: signal: killed")
}

func newRealDriver(t *testing.T, cfg *config.Config, recorder batch.Recorder) *batch.Driver {
	t.Helper()
	return newDriverWithExtractor(t, cfg, recorder, stubExtractor{})
}

func newDriverWithExtractor(t *testing.T, cfg *config.Config, recorder batch.Recorder, extractor character.Extractor) *batch.Driver {
	t.Helper()

	registry := testsupport.MustRegistry(t, cfg)
	scanner, err := scan.New(scan.Options{
		Registry:      registry,
		Extractor:     extractor,
		Writer:        character.NewJSONWriter(),
		FileExtension: cfg.Scan.FileExtension,
	})
	if err != nil {
		t.Fatalf("scan.New failed: %v", err)
	}
	driver, err := batch.NewDriver(batch.Options{
		Registry: registry,
		Locator:  locator.New(nil),
		Scanner:  scanner,
		Recorder: recorder,
		NewRunID: func() string { return "run-1" },
	})
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	return driver
}

func TestRunCMIP5NoFilesScenario(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	driver := newRealDriver(t, cfg, nil)
	const id = "cmip5.output1.MOHC.HadGEM2-ES.historical.mon.land.Lmon.r1i1p1.v20111128.rh"

	p := testsupport.MustProject(t, cfg, "cmip5")
	testsupport.MustMkdir(t, p.Path(dsid.MustParse(id)))

	summary, err := driver.Run(context.Background(), "cmip5", locator.Selection{DatasetIDs: []string{id}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Count != 1 || summary.FailureCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.FailurePercent() != "100%" {
		t.Fatalf("unexpected failure rate: %s", summary.FailurePercent())
	}
	if summary.Outcomes[scan.NoFiles] != 1 {
		t.Fatalf("unexpected outcomes: %v", summary.Outcomes)
	}
	paths, err := outputs.Layout(p, dsid.MustParse(id))
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if _, err := os.Stat(paths.NoFiles); err != nil {
		t.Fatalf("expected no-files marker at %s: %v", paths.NoFiles, err)
	}
	if !strings.HasSuffix(paths.NoFiles, "/failure/no_files/cmip5/output1/MOHC/HadGEM2-ES/historical/mon/land/Lmon.r1i1p1.v20111128.rh.log") {
		t.Fatalf("unexpected no-files path: %s", paths.NoFiles)
	}
	if got := summary.String(); got != "Completed job. Failure count = 1. Percentage failed = 100%" {
		t.Fatalf("unexpected summary line: %q", got)
	}
}

func TestRunMixedOutcomesAndRerun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recorder := &memoryRecorder{}
	driver := newRealDriver(t, cfg, recorder)
	p := testsupport.MustProject(t, cfg, testsupport.ToyProject)

	good := "toy.m1.hist.r1.v1.tas"
	empty := "toy.m1.hist.r1.v1.pr"
	testsupport.WriteDataFiles(t, p.Path(dsid.MustParse(good)), "tas.nc")
	sel := locator.Selection{DatasetIDs: []string{good, empty}}

	first, err := driver.Run(context.Background(), testsupport.ToyProject, sel)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if first.Count != 2 || first.FailureCount != 1 || first.FailurePercent() != "50%" {
		t.Fatalf("unexpected first summary: %+v (%s)", first, first.FailurePercent())
	}

	second, err := driver.Run(context.Background(), testsupport.ToyProject, sel)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.Outcomes[scan.AlreadyDone] != 1 || second.Outcomes[scan.NoFiles] != 1 || second.FailureCount != 1 {
		t.Fatalf("unexpected second summary: %+v", second)
	}

	if len(recorder.begun) != 2 || len(recorder.results) != 4 || len(recorder.finished) != 2 {
		t.Fatalf("unexpected recorder calls: begun=%d results=%d finished=%d", len(recorder.begun), len(recorder.results), len(recorder.finished))
	}
	if recorder.finished[0].RunID != "run-1" {
		t.Fatalf("unexpected run id: %q", recorder.finished[0].RunID)
	}
}

func TestRunZeroDatasetsIsUndefined(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	driver := newRealDriver(t, cfg, nil)

	summary, err := driver.Run(context.Background(), testsupport.ToyProject, locator.Selection{Facets: dsid.Filter{"model": "nothing"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := summary.FailureRate(); ok {
		t.Fatal("expected undefined failure rate")
	}
	if got := summary.String(); got != "Completed job. Failure count = 0. Percentage failed = undefined" {
		t.Fatalf("unexpected summary line: %q", got)
	}
}

func TestRunUnknownProjectIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	driver := newRealDriver(t, cfg, nil)

	if _, err := driver.Run(context.Background(), "cmip7", locator.Selection{DatasetIDs: []string{"a.b"}}); !errors.Is(err, project.ErrUnknownProject) {
		t.Fatalf("expected ErrUnknownProject, got %v", err)
	}
}

func TestRunInvalidSelectionIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	driver := newRealDriver(t, cfg, nil)

	_, err := driver.Run(context.Background(), testsupport.ToyProject, locator.Selection{})
	if !errors.Is(err, locator.ErrNoSelectionCriteria) {
		t.Fatalf("expected ErrNoSelectionCriteria, got %v", err)
	}
}

func TestRunStopsOnFatalScanError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	registry := testsupport.MustRegistry(t, cfg)
	boom := errors.New("output tree read-only")
	scanner := &scriptedScanner{
		outcomes: map[string]scan.Outcome{"toy.a.e.r.v.x": scan.ExtractFailed},
		fatal:    map[string]error{"toy.b.e.r.v.x": boom},
	}
	recorder := &memoryRecorder{}
	driver, err := batch.NewDriver(batch.Options{Registry: registry, Locator: locator.New(nil), Scanner: scanner, Recorder: recorder})
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	summary, err := driver.Run(context.Background(), testsupport.ToyProject, locator.Selection{
		DatasetIDs: []string{"toy.a.e.r.v.x", "toy.b.e.r.v.x", "toy.c.e.r.v.x"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if len(scanner.seen) != 2 {
		t.Fatalf("expected batch to stop after fatal error, scanned %v", scanner.seen)
	}
	if summary.Count != 1 || summary.FailureCount != 1 {
		t.Fatalf("unexpected partial summary: %+v", summary)
	}
	if len(recorder.finished) != 1 {
		t.Fatal("expected the aborted run to be finished in the journal")
	}
	if summary.RunID == "" {
		t.Fatal("expected a generated run id")
	}
}

func TestRecorderErrorsDoNotFailBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recorder := &memoryRecorder{err: errors.New("database is locked")}
	driver := newRealDriver(t, cfg, recorder)

	summary, err := driver.Run(context.Background(), testsupport.ToyProject, locator.Selection{DatasetIDs: []string{"toy.m.e.r.v.tas"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Count != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestNewDriverValidatesOptions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	registry := testsupport.MustRegistry(t, cfg)
	scanner := &scriptedScanner{}

	if _, err := batch.NewDriver(batch.Options{Locator: locator.New(nil), Scanner: scanner}); err == nil {
		t.Fatal("expected error without registry")
	}
	if _, err := batch.NewDriver(batch.Options{Registry: registry, Scanner: scanner}); err == nil {
		t.Fatal("expected error without locator")
	}
	if _, err := batch.NewDriver(batch.Options{Registry: registry, Locator: locator.New(nil)}); err == nil {
		t.Fatal("expected error without scanner")
	}
}

func TestRunCancelledDuringExtractionWritesNoMarkers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recorder := &memoryRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	extractor := &cancellingExtractor{cancel: cancel}
	driver := newDriverWithExtractor(t, cfg, recorder, extractor)
	p := testsupport.MustProject(t, cfg, testsupport.ToyProject)

	ids := []string{"toy.m1.hist.r1.v1.tas", "toy.m1.hist.r1.v1.pr", "toy.m2.hist.r1.v1.tas"}
	for _, id := range ids {
		testsupport.WriteDataFiles(t, p.Path(dsid.MustParse(id)), "data.nc")
	}

	summary, err := driver.Run(ctx, testsupport.ToyProject, locator.Selection{DatasetIDs: ids})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Count != 0 || summary.FailureCount != 0 {
		t.Fatalf("interrupted dataset must not be counted: %+v", summary)
	}
	if extractor.calls != 1 {
		t.Fatalf("expected extraction to stop after cancel, got %d calls", extractor.calls)
	}
	for _, id := range ids {
		paths, err := outputs.Layout(p, dsid.MustParse(id))
		if err != nil {
			t.Fatalf("Layout failed: %v", err)
		}
		for _, marker := range paths.Markers() {
			if _, err := os.Stat(marker); !os.IsNotExist(err) {
				t.Fatalf("unexpected marker %s after cancel: %v", marker, err)
			}
		}
	}
	if len(recorder.results) != 0 {
		t.Fatalf("expected no recorded results, got %d", len(recorder.results))
	}
	if len(recorder.finished) != 1 {
		t.Fatalf("expected the interrupted run to be finished in the journal, got %d", len(recorder.finished))
	}
}

func TestRunCancelledBeforeStartScansNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scanner := &scriptedScanner{}
	driver, err := batch.NewDriver(batch.Options{
		Registry: testsupport.MustRegistry(t, cfg),
		Locator:  locator.New(nil),
		Scanner:  scanner,
	})
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = driver.Run(ctx, testsupport.ToyProject, locator.Selection{DatasetIDs: []string{"toy.m1.hist.r1.v1.tas"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(scanner.seen) != 0 {
		t.Fatalf("expected no scans, got %v", scanner.seen)
	}
}

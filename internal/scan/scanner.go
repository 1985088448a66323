package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"charscan/internal/character"
	"charscan/internal/dsid"
	"charscan/internal/fileutil"
	"charscan/internal/logging"
	"charscan/internal/outputs"
	"charscan/internal/project"
)

// Marker content prefixes.
const (
	extractReasonPrefix = "Error extracting characteristics: "
	writeReasonPrefix   = "Error outputting to file: "
)

// Options configures a Scanner.
type Options struct {
	Registry      *project.Registry
	Extractor     character.Extractor
	Writer        character.Writer
	FileExtension string
	Logger        *slog.Logger
}

// Scanner runs the per-dataset state machine.
type Scanner struct {
	registry  *project.Registry
	extractor character.Extractor
	writer    character.Writer
	extension string
	logger    *slog.Logger
}

// New validates opts and returns a Scanner.
func New(opts Options) (*Scanner, error) {
	if opts.Registry == nil {
		return nil, errors.New("scanner requires a project registry")
	}
	if opts.Extractor == nil {
		return nil, errors.New("scanner requires an extractor")
	}
	if opts.Writer == nil {
		return nil, errors.New("scanner requires a writer")
	}
	ext := strings.TrimSpace(opts.FileExtension)
	if ext == "" {
		return nil, errors.New("scanner requires a file extension")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Scanner{
		registry:  opts.Registry,
		extractor: opts.Extractor,
		writer:    opts.Writer,
		extension: ext,
		logger:    logging.NewComponentLogger(opts.Logger, "scan"),
	}, nil
}

// ScanOne scans the dataset id of projectName whose data files live in dir.
func (s *Scanner) ScanOne(ctx context.Context, projectName string, id dsid.Identifier, dir string) (Result, error) {
	p, err := s.registry.Lookup(projectName)
	if err != nil {
		return Result{}, err
	}
	variable, err := p.Variable(id)
	if err != nil {
		return Result{}, err
	}
	paths, err := outputs.Resolve(p, id)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{DatasetID: id, Paths: paths}
	ctx = logging.WithDatasetID(ctx, id.String())
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldProject, p.Name()))

	done, err := fileutil.Exists(paths.Success)
	if err != nil {
		return Result{}, fmt.Errorf("check success marker: %w", err)
	}
	if done {
		result.Outcome = AlreadyDone
		logger.Info("success marker found, skipping", logging.String(logging.FieldOutcome, result.Outcome.String()))
		return result, nil
	}

	for _, marker := range paths.FailureMarkers() {
		if err := fileutil.RemoveIfExists(marker); err != nil {
			return Result{}, fmt.Errorf("clear stale marker: %w", err)
		}
	}

	files, err := listDataFiles(dir, s.extension)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Debug("data directory unreadable", logging.String("dir", dir), logging.Error(err))
	}
	if len(files) == 0 {
		reason := fmt.Sprintf("No %s files found in %s", s.extension, dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			reason = fmt.Sprintf("%s: %v", reason, err)
		}
		return s.fail(logger, result, NoFiles, reason, paths.NoFiles, "check the dataset directory in the archive")
	}
	result.Files = files
	logger.Debug("extracting characteristics", logging.String("variable", variable), logging.Strings("files", files))

	record, err := s.extract(ctx, files, variable)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("extract %s: %w", id, ctxErr)
		}
		return s.fail(logger, result, ExtractFailed, extractReasonPrefix+err.Error(), paths.ExtractError, "inspect the extractor output for this dataset")
	}

	if err := s.write(record, paths.JSON); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("write %s: %w", id, ctxErr)
		}
		return s.fail(logger, result, WriteFailed, writeReasonPrefix+err.Error(), paths.WriteError, "check the output directory and record content")
	}

	if err := fileutil.TouchFile(paths.Success, ""); err != nil {
		return Result{}, fmt.Errorf("write success marker: %w", err)
	}
	result.Outcome = Succeeded
	logger.Info("dataset scanned",
		logging.String(logging.FieldOutcome, result.Outcome.String()),
		logging.Int("files", len(files)),
		logging.String("json", paths.JSON),
	)
	return result, nil
}

func (s *Scanner) fail(logger *slog.Logger, result Result, outcome Outcome, reason, marker, hint string) (Result, error) {
	if err := fileutil.TouchFile(marker, reason); err != nil {
		return Result{}, fmt.Errorf("write %s marker: %w", outcome, err)
	}
	result.Outcome = outcome
	result.Reason = reason
	logging.WarnWithContext(logger, "dataset scan failed", strings.ReplaceAll(outcome.String(), "-", "_"),
		logging.String(logging.FieldOutcome, outcome.String()),
		logging.String("reason", reason),
		logging.String("marker", marker),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "dataset will be retried on the next run"),
	)
	return result, nil
}

func (s *Scanner) extract(ctx context.Context, files []string, variable string) (record character.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			record, err = nil, fmt.Errorf("extractor panic: %v", r)
		}
	}()
	record, err = s.extractor.Extract(ctx, files, variable)
	if err == nil && record == nil {
		err = errors.New("extractor returned no record")
	}
	return record, err
}

func (s *Scanner) write(record character.Record, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("writer panic: %v", r)
		}
	}()
	return s.writer.Write(record, path)
}

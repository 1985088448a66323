package character

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Extractor reads the data files of one dataset and returns its character.
type Extractor interface {
	Extract(ctx context.Context, files []string, variable string) (Record, error)
}

// CommandExtractor runs an external program as
//
//	<command> <args...> --var <variable> -- <files...>
//
// and decodes the JSON object it prints on stdout.
type CommandExtractor struct {
	Command string
	Args    []string
}

// NewCommandExtractor returns an extractor for command with extra leading args.
func NewCommandExtractor(command string, args ...string) *CommandExtractor {
	return &CommandExtractor{Command: strings.TrimSpace(command), Args: append([]string(nil), args...)}
}

// Extract implements Extractor.
func (e *CommandExtractor) Extract(ctx context.Context, files []string, variable string) (Record, error) {
	if e == nil || e.Command == "" {
		return nil, fmt.Errorf("%w: extractor command not configured", ErrExtraction)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files to read", ErrExtraction)
	}
	if strings.TrimSpace(variable) == "" {
		return nil, fmt.Errorf("%w: variable must be set", ErrExtraction)
	}

	args := make([]string, 0, len(e.Args)+len(files)+3)
	args = append(args, e.Args...)
	args = append(args, "--var", variable, "--")
	args = append(args, files...)

	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, e.Command, err)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrExtraction, e.Command, err, detail)
	}

	return decodeRecord(stdout.Bytes())
}

func decodeRecord(payload []byte) (Record, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, fmt.Errorf("%w: extractor produced no output", ErrExtraction)
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var record Record
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: decode extractor output: %v", ErrExtraction, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: extractor output is not a JSON object", ErrExtraction)
	}
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: extractor output has trailing data", ErrExtraction)
	}
	return record, nil
}

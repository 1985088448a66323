package character_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"charscan/internal/character"
	"charscan/internal/testsupport"
)

const echoScript = `
if [ "$1" = "--format" ]; then shift 2; fi
if [ "$1" != "--var" ]; then echo "unexpected argument $1" >&2; exit 2; fi
var="$2"
shift 2
if [ "$1" != "--" ]; then echo "missing separator" >&2; exit 2; fi
shift
printf '{"variable": {"var_id": "%s"}, "file_count": %d, "range": 1.50}\n' "$var" "$#"`

func TestCommandExtractorDecodesRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedExtractor(echoScript))
	files := testsupport.WriteDataFiles(t, t.TempDir(), "a.nc", "b.nc")

	extractor := character.NewCommandExtractor(cfg.Extractor.Command)
	record, err := extractor.Extract(context.Background(), files, "tas")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	variable, ok := record["variable"].(map[string]any)
	if !ok || variable["var_id"] != "tas" {
		t.Fatalf("unexpected variable entry: %#v", record["variable"])
	}
	if count, ok := record["file_count"].(json.Number); !ok || count.String() != "2" {
		t.Fatalf("unexpected file_count: %#v", record["file_count"])
	}
	if rng, ok := record["range"].(json.Number); !ok || rng.String() != "1.50" {
		t.Fatalf("expected numbers to keep their literal form, got %#v", record["range"])
	}
	if keys := record.Keys(); strings.Join(keys, ",") != "file_count,range,variable" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestCommandExtractorPassesLeadingArgs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedExtractor(echoScript))
	files := testsupport.WriteDataFiles(t, t.TempDir(), "a.nc")

	extractor := character.NewCommandExtractor(cfg.Extractor.Command, "--format", "json")
	if _, err := extractor.Extract(context.Background(), files, "pr"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
}

func TestCommandExtractorFailures(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{name: "non-zero exit", script: `echo "missing attribute units" >&2; exit 3`, want: "missing attribute units"},
		{name: "not json", script: `echo "not json"`, want: "decode extractor output"},
		{name: "empty output", script: `exit 0`, want: "no output"},
		{name: "null", script: `echo null`, want: "not a JSON object"},
		{name: "array", script: `echo '[1,2]'`, want: "decode extractor output"},
		{name: "trailing data", script: `echo '{"a": 1} {"b": 2}'`, want: "trailing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithStubbedExtractor(tt.script))
			files := testsupport.WriteDataFiles(t, t.TempDir(), "a.nc")

			_, err := character.NewCommandExtractor(cfg.Extractor.Command).Extract(context.Background(), files, "tas")
			if !errors.Is(err, character.ErrExtraction) {
				t.Fatalf("expected ErrExtraction, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCommandExtractorRejectsBadInput(t *testing.T) {
	files := []string{filepath.Join(t.TempDir(), "a.nc")}

	if _, err := character.NewCommandExtractor("").Extract(context.Background(), files, "tas"); !errors.Is(err, character.ErrExtraction) {
		t.Fatalf("expected ErrExtraction for missing command, got %v", err)
	}
	if _, err := character.NewCommandExtractor("true").Extract(context.Background(), nil, "tas"); !errors.Is(err, character.ErrExtraction) {
		t.Fatalf("expected ErrExtraction for no files, got %v", err)
	}
	if _, err := character.NewCommandExtractor("true").Extract(context.Background(), files, " "); !errors.Is(err, character.ErrExtraction) {
		t.Fatalf("expected ErrExtraction for empty variable, got %v", err)
	}
	if _, err := character.NewCommandExtractor("charscan-no-such-binary").Extract(context.Background(), files, "tas"); !errors.Is(err, character.ErrExtraction) {
		t.Fatalf("expected ErrExtraction for missing binary, got %v", err)
	}
}

package character_test

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"charscan/internal/character"
)

func TestJSONWriterSortsKeysWithIndent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	record := character.Record{
		"variable": map[string]any{"var_id": "tas", "units": "K"},
		"calendar": "360_day",
		"shape":    []any{json.Number("12"), json.Number("145"), json.Number("192")},
	}

	if err := character.NewJSONWriter().Write(record, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	want := `{
    "calendar": "360_day",
    "shape": [
        12,
        145,
        192
    ],
    "variable": {
        "units": "K",
        "var_id": "tas"
    }
}
`
	if string(got) != want {
		t.Fatalf("unexpected json:\n%s\nwant:\n%s", got, want)
	}
}

func TestJSONWriterIsStableAcrossWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	record := character.Record{"b": 1, "a": map[string]any{"z": true, "y": nil}}
	writer := character.NewJSONWriter()

	if err := writer.Write(record, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	first, _ := os.ReadFile(path)
	if err := writer.Write(record, path); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Fatalf("expected identical output, got %q and %q", first, second)
	}
}

func TestJSONWriterFailureKeepsPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	writer := character.NewJSONWriter()
	if err := writer.Write(character.Record{"ok": true}, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := writer.Write(character.Record{"bad": math.NaN()}, path); err == nil {
		t.Fatal("expected NaN to fail encoding")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	if string(got) != "{\n    \"ok\": true\n}\n" {
		t.Fatalf("expected previous content to survive, got %q", got)
	}
}

func TestJSONWriterRejectsNilAndMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := character.NewJSONWriter().Write(nil, filepath.Join(dir, "x.json")); !errors.Is(err, character.ErrEmptyRecord) {
		t.Fatalf("expected ErrEmptyRecord, got %v", err)
	}
	if err := character.NewJSONWriter().Write(character.Record{"a": 1}, filepath.Join(dir, "missing", "x.json")); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "x.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no file for nil record, stat err=%v", err)
	}
}

func TestJSONWriterKeepsMarkupLiteral(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	record := character.Record{"long_name": "Flux <down> & up"}

	if err := character.NewJSONWriter().Write(record, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	want := "{\n    \"long_name\": \"Flux <down> & up\"\n}\n"
	if string(got) != want {
		t.Fatalf("unexpected record: got %q want %q", got, want)
	}
}

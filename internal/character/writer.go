package character

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"charscan/internal/fileutil"
)

// ErrEmptyRecord reports an attempt to write a nil record.
var ErrEmptyRecord = errors.New("empty character record")

// Writer persists a record at path.
type Writer interface {
	Write(record Record, path string) error
}

// JSONWriter stores records as indented JSON with sorted keys. The file is
// replaced atomically, so a failed write leaves any previous content intact.
type JSONWriter struct {
	Indent string
}

// NewJSONWriter returns a writer using four-space indentation.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: "    "}
}

// Write implements Writer.
func (w *JSONWriter) Write(record Record, path string) error {
	if record == nil {
		return ErrEmptyRecord
	}
	indent := "    "
	if w != nil && w.Indent != "" {
		indent = w.Indent
	}
	// Attribute text such as long_name may hold <, > or &; keep it literal.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encode character record: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

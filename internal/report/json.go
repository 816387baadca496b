package report

import (
	"encoding/json"
	"io"
)

// JSONWriter renders the whole export as indented JSON.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that writes to the given output.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the export as JSON.
func (w *JSONWriter) Write(export *Export) (int, error) {
	counter := &countingWriter{w: w.output}
	enc := json.NewEncoder(counter)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

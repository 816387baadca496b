package report

import (
	"fmt"
	"io"
	"sort"
)

// WordlistWriter renders the distinct password values of an export, one
// per line, sorted. The output feeds directly into password-audit tools
// that expect a plain wordlist.
type WordlistWriter struct {
	baseWriter
}

// NewWordlistWriter creates a WordlistWriter that writes to the given output.
func NewWordlistWriter(output io.Writer) *WordlistWriter {
	return &WordlistWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the export's passwords. Empty passwords are skipped and
// duplicates collapse to a single line.
func (w *WordlistWriter) Write(export *Export) (int, error) {
	seen := make(map[string]struct{}, len(export.Credentials))
	words := make([]string, 0, len(export.Credentials))
	for i := range export.Credentials {
		pw := export.Credentials[i].Password
		if pw == "" {
			continue
		}
		if _, ok := seen[pw]; ok {
			continue
		}
		seen[pw] = struct{}{}
		words = append(words, pw)
	}
	sort.Strings(words)

	var total int
	for _, word := range words {
		n, err := fmt.Fprintln(w.output, word)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

package report

import (
	"io"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

// Export bundles the records of one case snapshot for rendering.
type Export struct {
	// CaseNumber scopes the export; empty means all cases.
	CaseNumber string

	// GeneratedAt is when the snapshot was taken.
	GeneratedAt time.Time

	Contacts    []model.Contact
	Credentials []model.Credential
	Accounts    []model.Account
	Profiles    []model.SuspectProfile

	// Reuse is the password-reuse analysis over Credentials.
	Reuse []model.PasswordReuse
}

// Writer defines the interface for export output.
// Implementations render a case export in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or HTTP
// responses with the same API.
type Writer interface {
	// Write renders the export to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(export *Export) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write exports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the export to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(export *Export) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(export)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for export writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

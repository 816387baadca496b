package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriterRendersCaseReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	n, err := w.Write(sampleExport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n == 0 {
		t.Error("Write() reported zero bytes")
	}

	out := buf.String()
	for _, want := range []string{
		"# Extraction Report: Case C-100",
		"## Summary",
		"## Suspect Profiles",
		"+40752530087",
		"## Reused Passwords",
		"hunter2",
		"## Records by Category",
		"## Contacts by Source",
		"Agenda Telefon",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}

	// Only genuinely reused passwords make the reuse table.
	if reused := strings.Count(out, "s3cret!"); reused != 0 {
		t.Errorf("single-use password appeared %d times in the reuse table", reused)
	}
}

func TestMarkdownWriterOmitsEmptySections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(&Export{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# Extraction Report") {
		t.Errorf("report missing title\n%s", out)
	}
	for _, section := range []string{"## Suspect Profiles", "## Reused Passwords", "## Records by Category", "## Contacts by Source"} {
		if strings.Contains(out, section) {
			t.Errorf("empty export still rendered %q", section)
		}
	}
}

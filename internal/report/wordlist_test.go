package report

import (
	"bytes"
	"testing"
)

func TestWordlistWriterSortsAndDeduplicates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWordlistWriter(&buf)

	n, err := w.Write(sampleExport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() n = %d, want buffer length %d", n, buf.Len())
	}

	// hunter2 appears twice in the export but once in the wordlist.
	want := "hunter2\ns3cret!\n"
	if buf.String() != want {
		t.Errorf("wordlist = %q, want %q", buf.String(), want)
	}
}

func TestWordlistWriterSkipsEmptyPasswords(t *testing.T) {
	t.Parallel()

	export := sampleExport()
	for i := range export.Credentials {
		export.Credentials[i].Password = ""
	}

	var buf bytes.Buffer
	if _, err := NewWordlistWriter(&buf).Write(export); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wordlist = %q, want empty output", buf.String())
	}
}

package report

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONWriterRoundTrips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	n, err := w.Write(sampleExport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() n = %d, want buffer length %d", n, buf.Len())
	}

	var decoded Export
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if decoded.CaseNumber != "C-100" {
		t.Errorf("CaseNumber = %q", decoded.CaseNumber)
	}
	if len(decoded.Credentials) != 3 || len(decoded.Accounts) != 1 {
		t.Errorf("decoded %d credentials and %d accounts", len(decoded.Credentials), len(decoded.Accounts))
	}
	if len(decoded.Reuse) != 2 || !decoded.Reuse[0].IsReused {
		t.Errorf("decoded reuse = %+v", decoded.Reuse)
	}
}

package server

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/forensint/celltrace/internal/model"
)

func seedExportData(t *testing.T, s *Server) {
	t.Helper()

	ctx := context.Background()
	if _, err := s.db.InsertCredentials(ctx, []model.Credential{
		{CaseNumber: "C-1", Application: "Facebook", Username: "ana", Password: "hunter2"},
		{CaseNumber: "C-1", Application: "Netflix", Username: "ana", Password: "hunter2"},
	}); err != nil {
		t.Fatalf("InsertCredentials() error = %v", err)
	}
}

func TestExportWordlist(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t, nil)
	seedExportData(t, s)

	rr := doRequest(t, s, http.MethodGet, "/api/export/wordlist?case=C-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rr.Body.String() != "hunter2\n" {
		t.Errorf("wordlist = %q, want the single distinct password", rr.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t, nil)
	seedExportData(t, s)

	rr := doRequest(t, s, http.MethodGet, "/api/export/csv?case=C-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "case_C-1.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("csv lines = %d, want header plus two credentials", len(lines))
	}
}

func TestExportMarkdown(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t, nil)
	seedExportData(t, s)

	rr := doRequest(t, s, http.MethodGet, "/api/export/markdown?case=C-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "# Extraction Report: Case C-1") {
		t.Errorf("markdown body missing title:\n%s", rr.Body.String())
	}
	// hunter2 is reused across two services and must show in the table.
	if !strings.Contains(rr.Body.String(), "hunter2") {
		t.Error("reused password missing from markdown report")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t, nil)
	rr := doRequest(t, s, http.MethodGet, "/api/export/xml", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

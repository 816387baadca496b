package report

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestCSVWriterRendersCredentialsAndAccounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	n, err := w.Write(sampleExport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() n = %d, want buffer length %d", n, buf.Len())
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	// Header plus three credentials plus one account.
	if len(records) != 5 {
		t.Fatalf("got %d CSV rows, want 5", len(records))
	}
	if records[0][0] != "Type" || records[0][11] != "Created At" {
		t.Errorf("header = %v", records[0])
	}

	cred := records[1]
	if cred[0] != "password" || cred[4] != "Facebook" || cred[6] != "hunter2" {
		t.Errorf("credential row = %v", cred)
	}
	if cred[8] != "Web" {
		t.Errorf("credential service type = %q, want raw ServiceType field", cred[8])
	}
	if cred[11] != "2024-03-15 10:30:00" {
		t.Errorf("credential created at = %q", cred[11])
	}

	account := records[4]
	if account[0] != "account" || account[4] != "Instagram" || account[5] != "ana.pop" {
		t.Errorf("account row = %v", account)
	}
	if account[6] != "insta-991" {
		t.Errorf("account data column = %q, want the account id", account[6])
	}
	if account[10] != "https://instagram.com/ana.pop" {
		t.Errorf("account URL = %q", account[10])
	}
}

func TestCSVWriterFallsBackToEmailIdentity(t *testing.T) {
	t.Parallel()

	export := sampleExport()
	export.Accounts[0].Username = ""
	export.Accounts[0].Email = "ana.pop@gmail.com"

	var buf bytes.Buffer
	if _, err := NewCSVWriter(&buf).Write(export); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	account := records[len(records)-1]
	if account[5] != "ana.pop@gmail.com" {
		t.Errorf("account identity = %q, want the email fallback", account[5])
	}
}

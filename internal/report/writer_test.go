package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

func sampleExport() *Export {
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	return &Export{
		CaseNumber:  "C-100",
		GeneratedAt: time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
		Contacts: []model.Contact{
			{ID: "ct-1", Name: "Ana Pop", Phone: "0722123456", Source: "WhatsApp"},
			{ID: "ct-2", Name: "Ion Pop", Phone: "0733111222"},
		},
		Credentials: []model.Credential{
			{
				ID:          "cr-1",
				CaseNumber:  "C-100",
				PersonName:  "Suspect A",
				DeviceInfo:  "Samsung SM-G991B",
				Application: "Facebook",
				Username:    "ana.pop@gmail.com",
				Password:    "hunter2",
				Category:    "social",
				RawData:     &model.RawData{Fields: map[string]string{"ServiceType": "Web"}},
				CreatedAt:   created,
			},
			{ID: "cr-2", Application: "Netflix", Username: "ana", Password: "hunter2", CreatedAt: created},
			{ID: "cr-3", Application: "Bank", Username: "ana", Password: "s3cret!", CreatedAt: created},
		},
		Accounts: []model.Account{
			{
				ID:         "ac-1",
				CaseNumber: "C-100",
				Source:     "Instagram",
				Username:   "ana.pop",
				UserID:     "insta-991",
				Category:   "social",
				Metadata:   map[string][]string{"URLs": {"https://instagram.com/ana.pop"}},
				CreatedAt:  created,
			},
		},
		Profiles: []model.SuspectProfile{
			{
				ID:           "sp-1",
				CaseNumber:   "C-100",
				PersonName:   "Suspect A",
				DeviceInfo:   "Samsung SM-G991B",
				SuspectPhone: "+40752530087",
				Emails:       []string{"ana.pop@gmail.com"},
				UserAccounts: []model.AccountSummary{{Username: "ana.pop", Source: "Instagram"}},
			},
		},
		Reuse: []model.PasswordReuse{
			{
				Password:   "hunter2",
				UsageCount: 2,
				IsReused:   true,
				Usages: []model.ReuseUsage{
					{Service: "Facebook", Username: "ana.pop@gmail.com"},
					{Service: "Netflix", Username: "ana"},
				},
			},
			{Password: "s3cret!", UsageCount: 1},
		},
	}
}

// failingWriter always errors to exercise MultiWriter's short circuit.
type failingWriter struct{}

func (failingWriter) Write(_ *Export) (int, error) {
	return 3, errors.New("write failed")
}

func TestMultiWriterWritesToAll(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewWordlistWriter(&a), NewWordlistWriter(&b))

	n, err := mw.Write(sampleExport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("writers diverged: %q vs %q", a.String(), b.String())
	}
	if n != a.Len()+b.Len() {
		t.Errorf("Write() n = %d, want sum of both outputs %d", n, a.Len()+b.Len())
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	t.Parallel()

	var after bytes.Buffer
	mw := NewMultiWriter(failingWriter{}, NewWordlistWriter(&after))

	n, err := mw.Write(sampleExport())
	if err == nil {
		t.Fatal("Write() error = nil, want the first writer's failure")
	}
	if n != 3 {
		t.Errorf("Write() n = %d, want only the failed writer's count", n)
	}
	if after.Len() != 0 {
		t.Error("writer after the failure still received output")
	}
}

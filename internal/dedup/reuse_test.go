package dedup

import (
	"testing"

	"github.com/forensint/celltrace/internal/model"
)

func TestAnalyzePasswordReuse(t *testing.T) {
	t.Parallel()

	results := AnalyzePasswordReuse([]model.Credential{
		{ID: "1", Password: "hunter2", Username: "ana", Application: "Facebook", CaseNumber: "C-1", DeviceInfo: "S21"},
		{ID: "2", Password: "hunter2", Username: "ana", Application: "Netflix", CaseNumber: "C-1", DeviceInfo: "S21"},
		{ID: "3", Password: "unique-pw", Username: "ana", Application: "Gmail", CaseNumber: "C-1", DeviceInfo: "S21"},
	})

	if len(results) != 2 {
		t.Fatalf("AnalyzePasswordReuse() returned %d entries, want 2", len(results))
	}
	top := results[0]
	if top.Password != "hunter2" || top.UsageCount != 2 || !top.IsReused {
		t.Errorf("top entry = %+v, want hunter2 with usage_count 2 and is_reused", top)
	}
	if results[1].IsReused {
		t.Errorf("unique password flagged as reused: %+v", results[1])
	}
}

func TestAnalyzePasswordReuseDeduplicatesReingestion(t *testing.T) {
	t.Parallel()

	// The same record ingested twice must count once.
	duplicate := model.Credential{
		Password: "hunter2", Username: "ana", Application: "Facebook",
		CaseNumber: "C-1", DeviceInfo: "S21",
	}
	results := AnalyzePasswordReuse([]model.Credential{duplicate, duplicate})

	if len(results) != 1 {
		t.Fatalf("AnalyzePasswordReuse() returned %d entries, want 1", len(results))
	}
	if results[0].UsageCount != 1 || results[0].IsReused {
		t.Errorf("re-ingested record = %+v, want usage_count 1, not reused", results[0])
	}
}

func TestAnalyzePasswordReuseExcludesNoise(t *testing.T) {
	t.Parallel()

	results := AnalyzePasswordReuse([]model.Credential{
		{Password: "x", Username: "ana", Application: "A"},
		{Password: "ana@gmail.com", Username: "ana", Application: "B"},
		{Password: "", Username: "ana", Application: "C"},
	})
	if len(results) != 0 {
		t.Errorf("AnalyzePasswordReuse() = %v, want noise excluded", results)
	}
}

func TestServiceLabelPreference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cred model.Credential
		want string
	}{
		{
			name: "url wins",
			cred: model.Credential{URL: "https://bank.ro", Application: "Bank App"},
			want: "https://bank.ro",
		},
		{
			name: "placeholder url falls through to application",
			cred: model.Credential{URL: "N/A", Application: "Bank App"},
			want: "Bank App",
		},
		{
			name: "raw service identifier as last resort",
			cred: model.Credential{RawData: &model.RawData{Fields: map[string]string{"ServiceIdentifier": "com.bank.app"}}},
			want: "com.bank.app",
		},
		{
			name: "nothing known",
			cred: model.Credential{},
			want: "unknown",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := serviceLabel(&tt.cred); got != tt.want {
				t.Errorf("serviceLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

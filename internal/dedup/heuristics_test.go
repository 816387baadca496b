package dedup

import (
	"testing"

	"github.com/forensint/celltrace/internal/model"
)

func TestShouldUnsetPhoto(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		contact model.Contact
		want    bool
	}{
		{
			name:    "carrier service entry",
			contact: model.Contact{Name: "Orange", PhotoPath: "C-1/A/x.jpg"},
			want:    true,
		},
		{
			name:    "carrier matching is case-insensitive",
			contact: model.Contact{Name: "VODAFONE", PhotoPath: "C-1/A/x.jpg"},
			want:    true,
		},
		{
			name:    "very short name",
			contact: model.Contact{Name: "OK", PhotoPath: "C-1/A/x.jpg"},
			want:    true,
		},
		{
			name:    "digit-only name",
			contact: model.Contact{Name: "1234", PhotoPath: "C-1/A/x.jpg"},
			want:    true,
		},
		{
			name:    "real person keeps photo",
			contact: model.Contact{Name: "Ana Pop", PhotoPath: "C-1/A/x.jpg"},
			want:    false,
		},
		{
			name:    "no photo is never flagged",
			contact: model.Contact{Name: "Orange"},
			want:    false,
		},
		{
			name:    "nameless contact keeps photo",
			contact: model.Contact{PhotoPath: "C-1/A/x.jpg"},
			want:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ShouldUnsetPhoto(&tt.contact); got != tt.want {
				t.Errorf("ShouldUnsetPhoto(%q) = %v, want %v", tt.contact.Name, got, tt.want)
			}
		})
	}
}

func TestFilterImportantAccounts(t *testing.T) {
	t.Parallel()

	accounts := []model.Account{
		{ID: "1", Source: "WhatsApp"},
		{ID: "2", Source: "com.google.android.gm"},
		{ID: "3", Source: "Device Sync Service"},
		{ID: "4", Source: "Instagram"},
	}

	important := FilterImportantAccounts(accounts)
	if len(important) != 3 {
		t.Fatalf("FilterImportantAccounts() kept %d accounts, want 3", len(important))
	}
	if important[0].ID != "1" || important[1].ID != "2" || important[2].ID != "4" {
		t.Errorf("kept accounts = %v, want IDs 1, 2, 4 in order", important)
	}
}

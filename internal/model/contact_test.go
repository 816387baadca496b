package model

import "testing"

func TestContainsGroupMarker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "group JID", in: "40765261003-1601966684@g.us", want: true},
		{name: "broadcast list", in: "status@broadcast", want: true},
		{name: "individual JID", in: "40722123456@s.whatsapp.net", want: false},
		{name: "plain phone", in: "0722123456", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ContainsGroupMarker(tt.in); got != tt.want {
				t.Errorf("ContainsGroupMarker(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseWhatsAppGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		want   WhatsAppGroup
		wantOK bool
	}{
		{
			name:   "id and display name",
			raw:    "40765261003-1601966684@g.us Familia Mare",
			want:   WhatsAppGroup{GroupID: "40765261003-1601966684@g.us", GroupName: "Familia Mare"},
			wantOK: true,
		},
		{
			name:   "id only falls back to id as name",
			raw:    "40765261003-1601966684@g.us",
			want:   WhatsAppGroup{GroupID: "40765261003-1601966684@g.us", GroupName: "40765261003-1601966684@g.us"},
			wantOK: true,
		},
		{
			name:   "not a group string",
			raw:    "40722123456@s.whatsapp.net John",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseWhatsAppGroup(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseWhatsAppGroup(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseWhatsAppGroup(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCredentialIsEmpty(t *testing.T) {
	t.Parallel()

	empty := Credential{Application: "Chrome", Description: "label only"}
	if !empty.IsEmpty() {
		t.Error("credential without username, password, or URL should be empty")
	}

	withURL := Credential{URL: "https://example.com"}
	if withURL.IsEmpty() {
		t.Error("credential with URL should not be empty")
	}
}

func TestAccountHasIdentity(t *testing.T) {
	t.Parallel()

	if (&Account{Source: "Instagram"}).HasIdentity() {
		t.Error("account with only a source should not have identity")
	}
	if !(&Account{UserID: "12345"}).HasIdentity() {
		t.Error("account with a user id should have identity")
	}
}

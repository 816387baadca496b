package model

import "testing"

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		application string
		source      string
		username    string
		email       string
		password    string
		want        Category
	}{
		{
			name:        "email-shaped username wins over application text",
			application: "Facebook",
			username:    "x@gmail.com",
			want:        CategoryEmail,
		},
		{
			name:     "email-shaped password takes priority over username",
			username: "plainuser",
			password: "someone@yahoo.com",
			want:     CategoryEmail,
		},
		{
			name:     "unknown domain with dot still counts as email",
			username: "operator@firma.ro",
			want:     CategoryEmail,
		},
		{
			name:     "at-sign without dotted domain is not an email",
			username: "user@localhost",
			want:     CategoryOther,
		},
		{
			name:        "social media by application keyword",
			application: "Facebook",
			want:        CategorySocialMedia,
		},
		{
			name:   "source used when application empty",
			source: "Instagram",
			want:   CategorySocialMedia,
		},
		{
			name:        "messaging",
			application: "WhatsApp Business",
			want:        CategoryMessaging,
		},
		{
			name:        "mail application without at-sign fields",
			application: "Gmail",
			want:        CategoryEmail,
		},
		{
			name:        "banking",
			application: "Revolut",
			want:        CategoryBanking,
		},
		{
			name:        "shopping",
			application: "eMAG store",
			want:        CategoryShopping,
		},
		{
			name:        "streaming",
			application: "Netflix",
			want:        CategoryStreaming,
		},
		{
			name:        "google services when nothing else matches",
			application: "com.google.android.gms",
			want:        CategoryGoogleServices,
		},
		{
			name: "no signals falls back to Other",
			want: CategoryOther,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Categorize(tt.application, tt.source, tt.username, tt.email, tt.password)
			if got != tt.want {
				t.Errorf("Categorize(%q, %q, %q, %q, %q) = %q, want %q",
					tt.application, tt.source, tt.username, tt.email, tt.password, got, tt.want)
			}
		})
	}
}

func TestExtractEmailDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain email", in: "john@Gmail.com", want: "gmail.com"},
		{name: "no at-sign", in: "johndoe", want: ""},
		{name: "empty input", in: "", want: ""},
		{name: "trailing whitespace trimmed", in: "a@b.ro ", want: "b.ro"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractEmailDomain(tt.in); got != tt.want {
				t.Errorf("ExtractEmailDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

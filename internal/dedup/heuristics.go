package dedup

import (
	"strings"
	"unicode"

	"github.com/forensint/celltrace/internal/model"
)

// carrierServiceNames are display names used by Romanian carriers and
// service shortcodes. The photo matcher occasionally attaches a person's
// photo to these because shortcode digits collide with phone suffixes.
var carrierServiceNames = map[string]bool{
	"camel":     true,
	"digi":      true,
	"orange":    true,
	"vodafone":  true,
	"telekom":   true,
	"paypoint":  true,
	"payzone":   true,
	"info":      true,
	"service":   true,
	"mesagerie": true,
	"voicemail": true,
}

// minPlausibleNameLen is the shortest display name considered a real
// person rather than a shortcode label.
const minPlausibleNameLen = 3

// ShouldUnsetPhoto reports whether a contact's attached photo is likely a
// mismatch that the photo-cleanup maintenance operation should clear.
// Carrier service entries, very short names, and digit-only names are not
// people, so a photo on them is noise from suffix collisions.
func ShouldUnsetPhoto(c *model.Contact) bool {
	if c.PhotoPath == "" {
		return false
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return false
	}
	if carrierServiceNames[strings.ToLower(name)] {
		return true
	}
	if len([]rune(name)) < minPlausibleNameLen {
		return true
	}
	return isDigitsOnly(name)
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// importantServiceKeywords mark account sources worth surfacing in the
// suspect summary view. Everything else (system accounts, sync stubs,
// vendor bookkeeping entries) stays in the full listing only.
var importantServiceKeywords = []string{
	"whatsapp",
	"facebook",
	"instagram",
	"telegram",
	"tiktok",
	"snapchat",
	"twitter",
	"viber",
	"signal",
	"google",
	"gmail",
	"yahoo",
	"outlook",
	"netflix",
	"revolut",
	"paypal",
}

// IsImportantAccount reports whether an account belongs to a service an
// investigator will want in the summary view.
func IsImportantAccount(a *model.Account) bool {
	source := strings.ToLower(a.Source)
	for _, keyword := range importantServiceKeywords {
		if strings.Contains(source, keyword) {
			return true
		}
	}
	return false
}

// FilterImportantAccounts keeps the accounts IsImportantAccount accepts,
// preserving order.
func FilterImportantAccounts(accounts []model.Account) []model.Account {
	var important []model.Account
	for i := range accounts {
		if IsImportantAccount(&accounts[i]) {
			important = append(important, accounts[i])
		}
	}
	return important
}

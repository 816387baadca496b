package model

import "time"

// SessionWindow is the upsert threshold for suspect profiles. A new archive
// upload for an identical (case, person, device) triple within this window
// of the prior profile's creation time is treated as a retry of the same
// upload and updates the profile in place; beyond it, the upload is a
// genuinely new extraction of the same device and inserts a new profile row.
const SessionWindow = 5 * time.Minute

// IsSameSession is the session-boundary policy for profile upserts.
// It reports whether an upload at now belongs to the session that created
// a profile at prior. The comparison is symmetric so clock skew between
// stored and freshly generated timestamps cannot flip the decision.
func IsSameSession(prior, now time.Time) bool {
	diff := now.Sub(prior)
	if diff < 0 {
		diff = -diff
	}
	return diff <= SessionWindow
}

// AccountSummary is the denormalized account snapshot embedded in a
// SuspectProfile. It repeats the identifying account fields so the profile
// is self-contained for display without a join against raw accounts.
type AccountSummary struct {
	Username          string              `json:"username,omitempty"`
	Email             string              `json:"email,omitempty"`
	Name              string              `json:"name,omitempty"`
	UserID            string              `json:"user_id,omitempty"`
	Source            string              `json:"source,omitempty"`
	ServiceType       string              `json:"service_type,omitempty"`
	ServiceIdentifier string              `json:"service_identifier,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	TimeCreated       string              `json:"time_created,omitempty"`
	Metadata          map[string][]string `json:"metadata,omitempty"`
}

// SuspectProfile aggregates one ingestion session: the device owner's
// resolved phone, the union of all emails observed across accounts and
// usernames, a snapshot of the account records, and the resolved profile
// photo. One row exists per (case, person, device) session, subject to the
// SessionWindow upsert policy.
type SuspectProfile struct {
	ID               string            `json:"id"`
	CaseNumber       string            `json:"case_number"`
	PersonName       string            `json:"person_name"`
	DeviceInfo       string            `json:"device_info,omitempty"`
	ProfileImagePath string            `json:"profile_image_path,omitempty"`
	SuspectPhone     string            `json:"suspect_phone,omitempty"`
	Emails           []string          `json:"emails"`
	UserAccounts     []AccountSummary  `json:"user_accounts"`
	PhotoEXIF        map[string]string `json:"photo_exif,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

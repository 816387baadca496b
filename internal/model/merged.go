package model

// MergedContact is the output of contact deduplication: a representative
// contact plus everything observed across the contributing raw records.
// Merged views are derived at read time and never stored.
type MergedContact struct {
	Contact

	// DuplicateCount is the number of raw records in the group.
	DuplicateCount int `json:"duplicate_count"`

	// AllPhones lists the distinct phone variants observed, in first-seen
	// order. The representative's Phone is always AllPhones[0].
	AllPhones []string `json:"all_phones,omitempty"`

	// AllNames lists the distinct plausible display names observed.
	AllNames []string `json:"all_names,omitempty"`

	// Sources lists the distinct source systems; records without a source
	// are attributed to the device phone book.
	Sources []string `json:"sources,omitempty"`

	// SuspectPhotoPath is set when the owning session's device-owner phone
	// matches some contact's photo, for display next to the group.
	SuspectPhotoPath string `json:"suspect_photo_path,omitempty"`
}

// MergedCredential is a deduplicated credential or account view: the most
// recently created record of a (username, application) group plus the
// group size. Type distinguishes which collection the representative came
// from.
type MergedCredential struct {
	Credential *Credential `json:"credential,omitempty"`
	Account    *Account    `json:"account,omitempty"`

	// Type is "password" or "account".
	Type string `json:"type"`

	// DuplicateCount is the number of raw records in the group.
	DuplicateCount int `json:"duplicate_count"`
}

// ReuseUsage is one observed usage of a password value.
type ReuseUsage struct {
	ID         string `json:"id,omitempty"`
	Service    string `json:"service"`
	Username   string `json:"username"`
	CaseNumber string `json:"case_number"`
	Device     string `json:"device"`
	Suspect    string `json:"suspect,omitempty"`
	URL        string `json:"url,omitempty"`
	Category   string `json:"category,omitempty"`
	Type       string `json:"type"`
}

// PasswordReuse reports every distinct place a single password value was
// observed. UsageCount counts distinct (service, username, case, device)
// combinations, so re-ingesting the same archive does not inflate it.
type PasswordReuse struct {
	Password   string       `json:"password"`
	UsageCount int          `json:"usage_count"`
	Usages     []ReuseUsage `json:"usages"`
	IsReused   bool         `json:"is_reused"`
}

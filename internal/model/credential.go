package model

import "time"

// Credential is a stored password or secret extracted from a Passwords
// report. At most one Credential is emitted per source XML credential
// model; records with no username, no password, and no URL are dropped
// before persistence.
type Credential struct {
	ID              string    `json:"id"`
	CaseNumber      string    `json:"case_number,omitempty"`
	PersonName      string    `json:"person_name,omitempty"`
	DeviceInfo      string    `json:"device_info,omitempty"`
	UploadSessionID string    `json:"upload_session_id,omitempty"`
	Application     string    `json:"application,omitempty"`
	Username        string    `json:"username,omitempty"`
	Password        string    `json:"password,omitempty"`
	URL             string    `json:"url,omitempty"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	EmailDomain     string    `json:"email_domain,omitempty"`
	RawData         *RawData  `json:"raw_data,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsEmpty reports whether the credential carries none of the fields that
// make it worth persisting.
func (c *Credential) IsEmpty() bool {
	return c.Username == "" && c.Password == "" && c.URL == ""
}

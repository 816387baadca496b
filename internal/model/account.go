package model

import "time"

// Account is a service account extracted from a UserAccounts report.
// An account is persisted only when it carries at least one of username,
// email, or account id; anything less is an unattributable stub.
//
// Metadata is an open-ended mapping harvested from the XML: values tagged
// with a domain attribute collect under that domain, preceding Key/Value
// pairs collect under the key. Values are stored as lists uniformly since
// multiple values may share a domain.
type Account struct {
	ID                string              `json:"id"`
	CaseNumber        string              `json:"case_number,omitempty"`
	PersonName        string              `json:"person_name,omitempty"`
	DeviceInfo        string              `json:"device_info,omitempty"`
	Source            string              `json:"source,omitempty"`
	Username          string              `json:"username,omitempty"`
	UserID            string              `json:"user_id,omitempty"`
	Email             string              `json:"email,omitempty"`
	Name              string              `json:"name,omitempty"`
	ServiceIdentifier string              `json:"service_identifier,omitempty"`
	ServiceType       string              `json:"service_type,omitempty"`
	Category          string              `json:"category,omitempty"`
	EmailDomain       string              `json:"email_domain,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	TimeCreated       string              `json:"time_created,omitempty"`
	Metadata          map[string][]string `json:"metadata,omitempty"`
	ProfilePicPath    string              `json:"profile_pic_path,omitempty"`
	RawData           *RawData            `json:"raw_data,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// HasIdentity reports whether the account carries at least one identifying
// field and therefore qualifies for persistence.
func (a *Account) HasIdentity() bool {
	return a.Username != "" || a.Email != "" || a.UserID != ""
}

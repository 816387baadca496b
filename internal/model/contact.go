package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WhatsApp identifier markers. A contact whose phone or user id carries one
// of these denotes a group chat or broadcast list, not a person, and must
// never be materialized as a Contact.
const (
	// GroupMarker appears in WhatsApp group JIDs ("...@g.us").
	GroupMarker = "@g.us"
	// BroadcastMarker appears in WhatsApp broadcast-list JIDs.
	BroadcastMarker = "@broadcast"
)

// ContainsGroupMarker reports whether an identifier denotes a WhatsApp
// group or broadcast list rather than an individual.
func ContainsGroupMarker(s string) bool {
	return strings.Contains(s, GroupMarker) || strings.Contains(s, BroadcastMarker)
}

// NewRecordID returns a fresh opaque record identifier.
// All persisted records carry one so investigators can reference a single
// raw record even after deduplication hides it behind a merged view.
func NewRecordID() string {
	return uuid.NewString()
}

// RawData preserves everything the extractor saw in a source XML model,
// verbatim, for audit. The source schema is not fully known in advance, so
// records carry a fixed set of first-class fields plus this open capture;
// nothing is silently discarded when the targeted extraction misses a
// vendor variant.
type RawData struct {
	// XMLID is the id attribute of the source model element.
	XMLID string `json:"xml_id,omitempty"`

	// Fields maps every field name encountered to its value.
	Fields map[string]string `json:"fields,omitempty"`

	// Models maps sub-model types (PhoneNumber, Email, UserID, ...) to the
	// field maps of each occurrence, in document order.
	Models map[string][]map[string]string `json:"models,omitempty"`
}

// Contact is a person record extracted from a Contacts report.
// Every contact belongs to exactly one ingestion session identified by
// (case number, person name, device descriptor). Contacts are created once
// per archive ingestion and never mutated, except for the explicit
// photo-cleanup maintenance operation that unsets an incorrectly attached
// photo.
type Contact struct {
	ID              string    `json:"id"`
	CaseNumber      string    `json:"case_number,omitempty"`
	PersonName      string    `json:"person_name,omitempty"`
	DeviceInfo      string    `json:"device_info,omitempty"`
	UploadSessionID string    `json:"upload_session_id,omitempty"`
	Source          string    `json:"source,omitempty"`
	Account         string    `json:"account,omitempty"`
	Name            string    `json:"name,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	UserID          string    `json:"user_id,omitempty"`
	Category        string    `json:"category,omitempty"`
	DeletedState    string    `json:"deleted_state,omitempty"`
	ExtractionID    string    `json:"extraction_id,omitempty"`
	PhotoPath       string    `json:"photo_path,omitempty"`
	SuspectPhone    string    `json:"suspect_phone,omitempty"`
	WhatsAppGroups  []string  `json:"whatsapp_groups,omitempty"`
	RawData         *RawData  `json:"raw_data,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// WhatsAppGroup is a parsed group-membership entry. The wire form is
// "<groupId> <display name>" where the group id ends in @g.us.
type WhatsAppGroup struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}

// ParseWhatsAppGroup splits a raw group-membership string into its id and
// display name. Strings without the group marker yield ok=false. A missing
// display name falls back to the group id.
func ParseWhatsAppGroup(raw string) (WhatsAppGroup, bool) {
	if !strings.Contains(raw, GroupMarker) {
		return WhatsAppGroup{}, false
	}
	id, name, found := strings.Cut(raw, " ")
	if !found || name == "" {
		name = id
	}
	return WhatsAppGroup{GroupID: id, GroupName: name}, true
}

package extractor

import (
	"regexp"
	"strings"

	"github.com/forensint/celltrace/internal/model"
)

// whatsappJIDPattern matches an individual WhatsApp JID. The digit portion
// is the contact's phone number in international form without the plus.
var whatsappJIDPattern = regexp.MustCompile(`^(\d+)@s\.whatsapp\.net$`)

// groupInCommonKey is the AdditionalInfo key listing WhatsApp groups the
// device owner shares with the contact.
const groupInCommonKey = "Group in common"

// ExtractContacts walks a Contacts report document and returns one record
// per Contact model.
//
// Phone resolution is source-dependent: for WhatsApp contacts whose UserID
// is an individual JID, the phone is derived from the JID's digit portion
// (prefixed with "+") because WhatsApp JIDs are authoritative over legacy
// PhoneNumber sub-models for that source. All other contacts take the
// first PhoneNumber sub-model value.
//
// Records are dropped when they resolve no phone at all, or when the phone
// or user id carries a group/broadcast marker: those entries are WhatsApp
// groups or broadcast lists, not people, and must never be persisted as
// contacts.
func ExtractContacts(doc *Document) []model.Contact {
	var contacts []model.Contact

	for _, m := range doc.Models(ModelTypeContact) {
		contact := model.Contact{
			ExtractionID: m.Attr("extractionId"),
			DeletedState: m.Attr("deleted_state"),
			Source:       m.Field("Source"),
			Account:      m.Field("Account"),
			Name:         m.Field("Name"),
		}

		var phoneFromSubModel string
		if phones := m.SubModels("PhoneNumber"); len(phones) > 0 {
			phoneFromSubModel = phones[0].Field("Value")
		}
		if emails := m.SubModels("Email"); len(emails) > 0 {
			contact.Email = emails[0].Field("Value")
		}
		if userIDs := m.SubModels("UserID"); len(userIDs) > 0 {
			contact.UserID = userIDs[0].Field("Value")
			contact.Category = userIDs[0].Field("Category")
		}

		// WhatsApp JIDs win over legacy phone fields for that source.
		if jid := whatsappJIDPattern.FindStringSubmatch(contact.UserID); contact.Source == "WhatsApp" && jid != nil {
			contact.Phone = "+" + jid[1]
		} else if phoneFromSubModel != "" {
			contact.Phone = phoneFromSubModel
		}

		for _, kv := range m.MultiModelField("AdditionalInfo", "KeyValueModel") {
			if kv.Field("Key") == groupInCommonKey {
				if value := kv.Field("Value"); value != "" {
					contact.WhatsAppGroups = append(contact.WhatsAppGroups, value)
				}
			}
		}

		contact.RawData = &model.RawData{
			XMLID:  m.ID(),
			Fields: m.Fields(),
			Models: m.SubModelFields(ModelTypeContact),
		}

		if contact.Phone == "" {
			continue
		}
		if model.ContainsGroupMarker(contact.Phone) || model.ContainsGroupMarker(contact.UserID) {
			continue
		}
		contacts = append(contacts, contact)
	}

	return contacts
}

// whatsappOwnerFolderPattern matches extraction folder names that embed the
// device owner's WhatsApp JID, e.g. "WhatsApp_40752530087@s.whatsapp.net_Native".
var whatsappOwnerFolderPattern = regexp.MustCompile(`WhatsApp_(\d+)@s\.whatsapp\.net`)

// OwnerPhoneFromFolderName extracts the device owner's phone number from an
// extraction folder name, formatted with a leading "+". Returns "" when the
// name carries no owner JID. Absence is expected; folder naming is a
// best-effort signal that depends on what the source archive contains.
func OwnerPhoneFromFolderName(name string) string {
	match := whatsappOwnerFolderPattern.FindStringSubmatch(name)
	if match == nil {
		return ""
	}
	return "+" + match[1]
}

// LooksLikeURL reports whether a value is a URL or CDN image link rather
// than a display name. The UserAccount shape sometimes places parsing
// artifacts in Name fields.
func LooksLikeURL(value string) bool {
	return strings.HasPrefix(value, "http") ||
		strings.Contains(strings.ToLower(value), "cdninstagram")
}

package extractor

import (
	"strings"

	"github.com/forensint/celltrace/internal/model"
)

// metadataURLsKey collects multiField Url values in account metadata.
const metadataURLsKey = "URLs"

// labelFieldNames are field names whose value is not data itself but a
// label describing the next Value field in document order.
var labelFieldNames = map[string]bool{
	"Key":      true,
	"Category": true,
}

// ExtractAccounts walks a UserAccounts report document and returns one
// record per UserAccount model.
//
// Besides the first-class fields, the walk harvests an open-ended metadata
// mapping. Two shapes feed it: Value fields carrying a domain attribute
// collect under that domain, and Key/Value pairs collect under the key.
// The key shape is ordered: a Key (or Category) field labels the next
// unlabeled Value field, so it is handled with an explicit pending-label
// state that is consumed by the matching value and cleared after use.
//
// Name values that look like URLs or CDN image links are rejected; those
// are parsing artifacts, not display names. Identity filtering (username,
// email, or account id required) happens at persistence time.
func ExtractAccounts(doc *Document) []model.Account {
	var accounts []model.Account

	for _, m := range doc.Models(ModelTypeUserAccount) {
		account := model.Account{
			Metadata: make(map[string][]string),
		}

		// pendingLabel holds the text of the last label field awaiting its
		// value. It never survives past the next unlabeled Value field.
		pendingLabel := ""

		m.WalkFields(func(f FieldInfo) {
			if f.Value == "" {
				return
			}
			switch {
			case f.Name == "Source":
				setIfEmpty(&account.Source, f.Value)
			case f.Name == "Username":
				setIfEmpty(&account.Username, f.Value)
			case f.Name == "UserId":
				setIfEmpty(&account.UserID, f.Value)
			case f.Name == "ServiceIdentifier":
				setIfEmpty(&account.ServiceIdentifier, f.Value)
			case f.Name == "ServiceType":
				setIfEmpty(&account.ServiceType, f.Value)
			case f.Name == "Email":
				setIfEmpty(&account.Email, f.Value)
			case f.Name == "TimeCreated":
				setIfEmpty(&account.TimeCreated, f.Value)
			case f.Name == "Name":
				if !LooksLikeURL(f.Value) {
					setIfEmpty(&account.Name, f.Value)
				}
			case f.Name == "Value" && f.Domain != "":
				account.Metadata[f.Domain] = append(account.Metadata[f.Domain], f.Value)
			case labelFieldNames[f.Name]:
				pendingLabel = f.Value
			case f.Name == "Value" && pendingLabel != "":
				account.Metadata[pendingLabel] = append(account.Metadata[pendingLabel], f.Value)
				pendingLabel = ""
			}
		})

		if notes := m.MultiField("Notes"); len(notes) > 0 {
			account.Notes = strings.Join(notes, " | ")
		}
		if urls := m.MultiField("Url"); len(urls) > 0 {
			account.Metadata[metadataURLsKey] = append(account.Metadata[metadataURLsKey], urls...)
		}

		for _, photo := range m.SubModels("ContactPhoto") {
			if path := photo.Field("contactphoto_extracted_path"); path != "" {
				account.ProfilePicPath = strings.ReplaceAll(path, `\`, "/")
				break
			}
		}

		// The account id sometimes lives only in a nested Entries list.
		if account.UserID == "" {
			for _, entry := range m.MultiModelField("Entries", "UserID") {
				if value := entry.Field("Value"); value != "" {
					account.UserID = value
					break
				}
			}
		}

		if len(account.Metadata) == 0 {
			account.Metadata = nil
		}
		account.RawData = &model.RawData{
			XMLID:  m.ID(),
			Fields: m.Fields(),
		}
		accounts = append(accounts, account)
	}

	return accounts
}

// setIfEmpty assigns value to dst only when dst is still unset. The first
// occurrence of a field in document order wins, matching the raw-fields
// fallback so the two capture paths never diverge.
func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

package extractor

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/forensint/celltrace/internal/model"
)

const (
	// maxRawFieldLen bounds the length of any single value placed into the
	// raw-fields fallback. Credential documents can carry multi-kilobyte
	// token blobs; the fallback exists for audit, not bulk storage.
	maxRawFieldLen = 500

	// maxDecodedPasswordLen is the cutoff between "short decoded payload is
	// a clear-text password" and "long decoded payload is a token or key".
	maxDecodedPasswordLen = 100

	// maxDescriptionLen bounds descriptions built from long decoded
	// payloads. Tokens are retained for audit but truncated.
	maxDescriptionLen = 200
)

// ExtractCredentials walks a Passwords report document and returns one
// record per Password model.
//
// The application resolves from the Application field, falling back to
// Source. A secondary Data field may hold a base64-encoded payload: short
// decoded text is treated as the password itself (or, when a password is
// already known, as a description); long payloads are tokens or keys and
// are truncated into the description for audit. URL resolution tries Url,
// Service, then ServiceIdentifier in that order.
//
// Empty-record filtering happens at persistence time, not here, so callers
// can still inspect what a document carried.
func ExtractCredentials(doc *Document) []model.Credential {
	var credentials []model.Credential

	for _, m := range doc.Models(ModelTypePassword) {
		cred := model.Credential{
			Username: m.Field("UserName"),
			Password: m.Field("Password"),
		}

		cred.Application = m.Field("Application")
		if cred.Application == "" {
			cred.Application = m.Field("Source")
		}

		if data := m.Field("Data"); data != "" {
			applyDecodedData(&cred, data)
		}

		if cred.Description == "" {
			cred.Description = m.Field("Label")
		}

		for _, name := range []string{"Url", "Service", "ServiceIdentifier"} {
			if url := m.Field(name); url != "" {
				cred.URL = url
				break
			}
		}

		cred.RawData = &model.RawData{
			XMLID:  m.ID(),
			Fields: truncateFields(m.Fields()),
		}
		credentials = append(credentials, cred)
	}

	return credentials
}

// applyDecodedData interprets a base64 Data payload. Undecodable payloads
// are skipped silently; the raw value survives in the fields fallback.
func applyDecodedData(cred *model.Credential, data string) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}
	decoded := string(raw)

	if len(decoded) < maxDecodedPasswordLen {
		if cred.Password == "" {
			cred.Password = decoded
		} else if cred.Description == "" {
			cred.Description = decoded
		}
		return
	}
	if cred.Description == "" {
		cred.Description = truncateUTF8(decoded, maxDescriptionLen) + "..."
	}
}

// truncateFields bounds every raw field value to maxRawFieldLen.
func truncateFields(fields map[string]string) map[string]string {
	for name, value := range fields {
		if len(value) > maxRawFieldLen {
			fields[name] = truncateUTF8(value, maxRawFieldLen)
		}
	}
	return fields
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

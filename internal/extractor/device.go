package extractor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata item names holding the examined device's identity.
const (
	metadataManufacturer = "DeviceInfoSelectedManufacturer"
	metadataDeviceName   = "DeviceInfoSelectedDeviceName"
)

// titleCaser rewrites all-caps vendor strings ("SAMSUNG") into display
// form. Language-neutral casing is fine here; manufacturer names are ASCII.
var titleCaser = cases.Title(language.Und)

// DeviceLabel builds a human-readable label for the examined device from
// the document's metadata items. Manufacturer and device name combine when
// both are present; either alone is used as-is. When the document carries
// no device metadata at all, the report's project name stands in. Returns
// "" when nothing resolves; the caller owns any display placeholder.
func DeviceLabel(doc *Document) string {
	manufacturer := doc.MetadataItem(metadataManufacturer)
	name := doc.MetadataItem(metadataDeviceName)

	switch {
	case manufacturer != "" && name != "":
		return titleCaser.String(strings.ToLower(manufacturer)) + " " + name
	case name != "":
		return name
	case manufacturer != "":
		return titleCaser.String(strings.ToLower(manufacturer))
	}

	return doc.ProjectName()
}

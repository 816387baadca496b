// Package extractor walks Cellebrite-style report XML documents and emits
// typed records.
//
// The vendor schema is semi-structured: a namespaced report document holds
// model elements with a declared type (Contact, Password, UserAccount),
// each carrying named field/value pairs, multiField groupings, and nested
// sub-models. The shapes vary between extraction-tool versions and are not
// fully known in advance, so every extractor follows the same discipline:
// resolve the fields it understands into typed record fields, and capture
// everything it saw into a raw-data fallback so no information is silently
// lost when the targeted extraction misses a vendor variant.
//
// ParseDocument builds a navigable Document from raw XML; ExtractContacts,
// ExtractCredentials, and ExtractAccounts each walk one document shape.
// Device metadata and photo EXIF helpers round out the package.
//
// Extractors never abort an ingestion: a malformed document fails at
// ParseDocument, and the caller logs the failure and continues with
// whatever other documents were classified.
package extractor

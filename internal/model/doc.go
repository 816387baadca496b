// Package model defines the core data structures used throughout celltrace.
//
// This package contains the following main types:
//   - Contact: A person record extracted from a Contacts report
//   - Credential: A stored password/secret extracted from a Passwords report
//   - Account: A service account extracted from a UserAccounts report
//   - SuspectProfile: The per-(case, suspect, device) ingestion session summary
//   - MergedContact / MergedCredential: Deduplicated projections over raw records
//
// It also provides the two normalization primitives the rest of the system
// depends on: phone-number canonicalization (NormalizePhone and the
// PhonesEqual predicate) and credential categorization (Categorize).
//
// Design decision: Normalization lives in model rather than in the extractor
// or dedup packages because both ingestion and query-time grouping must apply
// the exact same rules. A single implementation here keeps the two halves of
// the system from drifting apart.
package model

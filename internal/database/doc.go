// Package database provides SQLite-based storage for extracted records.
//
// CaseDB holds four collections: contacts, credentials, accounts, and
// suspect profiles. Rows are written once per ingestion session and read
// many times by the query surface; the only mutations are the explicit
// maintenance operations (photo unset, legacy group cleanup, session and
// case deletion) and the session-window profile upsert.
//
// Open-ended record parts (raw capture, metadata, group lists, account
// snapshots) are stored as JSON columns. The filterable fields are
// first-class columns with indexes.
package database

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// CaseDB provides SQLite-based storage for ingested records.
//
// Design decision: all cases share a single database file rather than one
// file per case. Cross-case queries (password reuse, phone lookups) are
// the core of the analysis surface and would otherwise require merging.
type CaseDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CaseDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CaseDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CaseDB, error) {
	dbPath := filepath.Join(dbDir, "celltrace.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; ingestion is write-heavy so the
	// pool stays at a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CaseDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CaseDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CaseDB) createTables() error {
	schema := `
	-- Contacts store one row per extracted person record
	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		case_number TEXT NOT NULL,
		person_name TEXT NOT NULL,
		device_info TEXT,
		upload_session_id TEXT,
		source TEXT,
		account TEXT,
		name TEXT,
		phone TEXT,
		email TEXT,
		user_id TEXT,
		category TEXT,
		deleted_state TEXT,
		extraction_id TEXT,
		photo_path TEXT,
		suspect_phone TEXT,
		whatsapp_groups TEXT,
		raw_data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_case ON contacts(case_number);
	CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone);
	CREATE INDEX IF NOT EXISTS idx_contacts_session ON contacts(upload_session_id);
	CREATE INDEX IF NOT EXISTS idx_contacts_source ON contacts(source);

	-- Credentials store one row per extracted password record
	CREATE TABLE IF NOT EXISTS credentials (
		id TEXT PRIMARY KEY,
		case_number TEXT NOT NULL,
		person_name TEXT NOT NULL,
		device_info TEXT,
		upload_session_id TEXT,
		application TEXT,
		username TEXT,
		password TEXT,
		url TEXT,
		description TEXT,
		category TEXT,
		email_domain TEXT,
		raw_data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_credentials_case ON credentials(case_number);
	CREATE INDEX IF NOT EXISTS idx_credentials_session ON credentials(upload_session_id);
	CREATE INDEX IF NOT EXISTS idx_credentials_category ON credentials(category);

	-- Accounts store one row per extracted service account
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		case_number TEXT NOT NULL,
		person_name TEXT NOT NULL,
		device_info TEXT,
		source TEXT,
		username TEXT,
		user_id TEXT,
		email TEXT,
		name TEXT,
		service_identifier TEXT,
		service_type TEXT,
		category TEXT,
		email_domain TEXT,
		notes TEXT,
		time_created TEXT,
		metadata TEXT,
		profile_pic_path TEXT,
		raw_data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_case ON accounts(case_number);
	CREATE INDEX IF NOT EXISTS idx_accounts_source ON accounts(source);

	-- Suspect profiles aggregate one ingestion session each
	CREATE TABLE IF NOT EXISTS suspect_profiles (
		id TEXT PRIMARY KEY,
		case_number TEXT NOT NULL,
		person_name TEXT NOT NULL,
		device_info TEXT,
		profile_image_path TEXT,
		suspect_phone TEXT,
		emails TEXT,
		user_accounts TEXT,
		photo_exif TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_case ON suspect_profiles(case_number);
	CREATE INDEX IF NOT EXISTS idx_profiles_identity ON suspect_profiles(case_number, person_name, device_info);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// formatTimestamp renders a timestamp the way SQLite's CURRENT_TIMESTAMP
// does, so stored and generated values sort together.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/forensint/celltrace/internal/model"
)

// CredentialFilter narrows credential queries. Zero-valued fields are
// ignored.
type CredentialFilter struct {
	CaseNumber      string
	PersonName      string
	DeviceInfo      string
	UploadSessionID string
	Application     string
	Category        string

	// Search matches application, username, url, and description columns
	// case-insensitively as a substring. Passwords are deliberately not
	// searchable; reuse analysis covers that need without making the
	// password column a free-text index.
	Search string

	Limit  int
	Offset int
}

func (f CredentialFilter) where() (string, []any) {
	clause := " WHERE 1=1"
	args := make([]any, 0, 8)

	for _, cond := range []struct {
		column string
		value  string
	}{
		{"case_number", f.CaseNumber},
		{"person_name", f.PersonName},
		{"device_info", f.DeviceInfo},
		{"upload_session_id", f.UploadSessionID},
		{"application", f.Application},
		{"category", f.Category},
	} {
		if cond.value != "" {
			clause += " AND " + cond.column + " = ?"
			args = append(args, cond.value)
		}
	}
	if f.Search != "" {
		clause += " AND (application LIKE ? OR username LIKE ? OR url LIKE ? OR description LIKE ?)"
		pattern := "%" + f.Search + "%"
		for i := 0; i < 4; i++ {
			args = append(args, pattern)
		}
	}
	return clause, args
}

const credentialColumns = `id, case_number, person_name, device_info, upload_session_id,
	application, username, password, url, description, category, email_domain,
	raw_data, created_at`

// InsertCredentials stores the given credentials in a single transaction.
// Empty records (no username, password, or URL) are skipped; everything a
// document carried is still visible to the caller, but unattributable
// stubs never reach storage.
func (cdb *CaseDB) InsertCredentials(ctx context.Context, credentials []model.Credential) (int, error) {
	if len(credentials) == 0 {
		return 0, nil
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO credentials (`+credentialColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare credential insert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for i := range credentials {
		c := &credentials[i]
		if c.IsEmpty() {
			continue
		}
		ensureRecordDefaults(&c.ID, &c.CreatedAt)

		rawJSON, err := marshalJSONColumn(c.RawData)
		if err != nil {
			return stored, fmt.Errorf("failed to serialize raw data: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.CaseNumber, c.PersonName, c.DeviceInfo, c.UploadSessionID,
			c.Application, c.Username, c.Password, c.URL, c.Description,
			c.Category, c.EmailDomain, rawJSON, formatTimestamp(c.CreatedAt),
		); err != nil {
			return stored, fmt.Errorf("failed to insert credential: %w", err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("failed to commit credentials: %w", err)
	}
	return stored, nil
}

// ListCredentials returns credentials matching the filter, newest first.
func (cdb *CaseDB) ListCredentials(ctx context.Context, f CredentialFilter) ([]model.Credential, error) {
	clause, args := f.where()
	query := "SELECT " + credentialColumns + " FROM credentials" + clause + " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var credentials []model.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, *cred)
	}
	return credentials, rows.Err()
}

// GetCredential retrieves a credential by ID. Returns nil when not found.
func (cdb *CaseDB) GetCredential(ctx context.Context, id string) (*model.Credential, error) {
	row := cdb.db.QueryRowContext(ctx,
		"SELECT "+credentialColumns+" FROM credentials WHERE id = ?", id)
	cred, err := scanCredential(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cred, err
}

// CountCredentials returns the number of credentials matching the filter.
func (cdb *CaseDB) CountCredentials(ctx context.Context, f CredentialFilter) (int, error) {
	clause, args := f.where()
	var count int
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM credentials"+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count credentials: %w", err)
	}
	return count, nil
}

// credentialDistinctColumns whitelists the columns exposed for
// distinct-value queries on credentials.
var credentialDistinctColumns = map[string]bool{
	"case_number":  true,
	"person_name":  true,
	"device_info":  true,
	"application":  true,
	"category":     true,
	"email_domain": true,
}

// DistinctCredentialValues returns the sorted distinct non-empty values
// of a whitelisted credential column, optionally scoped to one case.
func (cdb *CaseDB) DistinctCredentialValues(ctx context.Context, column, caseNumber string) ([]string, error) {
	if !credentialDistinctColumns[column] {
		return nil, fmt.Errorf("column %s is not filterable", column)
	}
	return cdb.distinctValues(ctx, "credentials", column, caseNumber)
}

// DeleteCredentialsBySession removes every credential of one upload
// session.
func (cdb *CaseDB) DeleteCredentialsBySession(ctx context.Context, sessionID string) (int64, error) {
	return cdb.deleteWhere(ctx, "credentials", "upload_session_id = ?", sessionID)
}

// DeleteCredentialsByCase removes every credential of one case.
func (cdb *CaseDB) DeleteCredentialsByCase(ctx context.Context, caseNumber string) (int64, error) {
	return cdb.deleteWhere(ctx, "credentials", "case_number = ?", caseNumber)
}

func scanCredential(row rowScanner) (*model.Credential, error) {
	var c model.Credential
	var rawJSON, createdAt string

	err := row.Scan(
		&c.ID, &c.CaseNumber, &c.PersonName, &c.DeviceInfo, &c.UploadSessionID,
		&c.Application, &c.Username, &c.Password, &c.URL, &c.Description,
		&c.Category, &c.EmailDomain, &rawJSON, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan credential: %w", err)
	}

	c.CreatedAt = parseTimestamp(createdAt)
	if err := unmarshalJSONColumn(rawJSON, &c.RawData); err != nil {
		return nil, fmt.Errorf("failed to parse raw data: %w", err)
	}
	return &c, nil
}

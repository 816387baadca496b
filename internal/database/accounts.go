package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/forensint/celltrace/internal/model"
)

// AccountFilter narrows account queries. Zero-valued fields are ignored.
type AccountFilter struct {
	CaseNumber string
	PersonName string
	DeviceInfo string
	Source     string
	Category   string

	// Search matches source, username, email, name, and user id columns
	// case-insensitively as a substring.
	Search string

	Limit  int
	Offset int
}

func (f AccountFilter) where() (string, []any) {
	clause := " WHERE 1=1"
	args := make([]any, 0, 8)

	for _, cond := range []struct {
		column string
		value  string
	}{
		{"case_number", f.CaseNumber},
		{"person_name", f.PersonName},
		{"device_info", f.DeviceInfo},
		{"source", f.Source},
		{"category", f.Category},
	} {
		if cond.value != "" {
			clause += " AND " + cond.column + " = ?"
			args = append(args, cond.value)
		}
	}
	if f.Search != "" {
		clause += " AND (source LIKE ? OR username LIKE ? OR email LIKE ? OR name LIKE ? OR user_id LIKE ?)"
		pattern := "%" + f.Search + "%"
		for i := 0; i < 5; i++ {
			args = append(args, pattern)
		}
	}
	return clause, args
}

const accountColumns = `id, case_number, person_name, device_info, source,
	username, user_id, email, name, service_identifier, service_type,
	category, email_domain, notes, time_created, metadata, profile_pic_path,
	raw_data, created_at`

// InsertAccounts stores the given accounts in a single transaction.
// Accounts without any identity (username, email, or account id) are
// skipped as unattributable stubs. Returns the number actually stored.
func (cdb *CaseDB) InsertAccounts(ctx context.Context, accounts []model.Account) (int, error) {
	if len(accounts) == 0 {
		return 0, nil
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO accounts (`+accountColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare account insert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for i := range accounts {
		a := &accounts[i]
		if !a.HasIdentity() {
			continue
		}
		ensureRecordDefaults(&a.ID, &a.CreatedAt)

		metadataJSON, err := marshalJSONColumn(a.Metadata)
		if err != nil {
			return stored, fmt.Errorf("failed to serialize metadata: %w", err)
		}
		rawJSON, err := marshalJSONColumn(a.RawData)
		if err != nil {
			return stored, fmt.Errorf("failed to serialize raw data: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			a.ID, a.CaseNumber, a.PersonName, a.DeviceInfo, a.Source,
			a.Username, a.UserID, a.Email, a.Name, a.ServiceIdentifier,
			a.ServiceType, a.Category, a.EmailDomain, a.Notes, a.TimeCreated,
			metadataJSON, a.ProfilePicPath, rawJSON, formatTimestamp(a.CreatedAt),
		); err != nil {
			return stored, fmt.Errorf("failed to insert account: %w", err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("failed to commit accounts: %w", err)
	}
	return stored, nil
}

// ListAccounts returns accounts matching the filter, newest first.
func (cdb *CaseDB) ListAccounts(ctx context.Context, f AccountFilter) ([]model.Account, error) {
	clause, args := f.where()
	query := "SELECT " + accountColumns + " FROM accounts" + clause + " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// GetAccount retrieves an account by ID. Returns nil when not found.
func (cdb *CaseDB) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	row := cdb.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return account, err
}

// CountAccounts returns the number of accounts matching the filter.
func (cdb *CaseDB) CountAccounts(ctx context.Context, f AccountFilter) (int, error) {
	clause, args := f.where()
	var count int
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts"+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// accountDistinctColumns whitelists the columns exposed for
// distinct-value queries on accounts.
var accountDistinctColumns = map[string]bool{
	"case_number":  true,
	"person_name":  true,
	"device_info":  true,
	"source":       true,
	"category":     true,
	"service_type": true,
	"email_domain": true,
}

// DistinctAccountValues returns the sorted distinct non-empty values of
// a whitelisted account column, optionally scoped to one case.
func (cdb *CaseDB) DistinctAccountValues(ctx context.Context, column, caseNumber string) ([]string, error) {
	if !accountDistinctColumns[column] {
		return nil, fmt.Errorf("column %s is not filterable", column)
	}
	return cdb.distinctValues(ctx, "accounts", column, caseNumber)
}

// DeleteAccountsBySessionScope removes the accounts belonging to one
// ingestion session, identified by its (case, person, device) triple.
// Accounts carry no upload session id; the triple is the session identity
// they do carry.
func (cdb *CaseDB) DeleteAccountsBySessionScope(ctx context.Context, caseNumber, personName, deviceInfo string) (int64, error) {
	return cdb.deleteWhere(ctx, "accounts",
		"case_number = ? AND person_name = ? AND device_info = ?",
		caseNumber, personName, deviceInfo)
}

// DeleteAccountsByCase removes every account of one case.
func (cdb *CaseDB) DeleteAccountsByCase(ctx context.Context, caseNumber string) (int64, error) {
	return cdb.deleteWhere(ctx, "accounts", "case_number = ?", caseNumber)
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var a model.Account
	var metadataJSON, rawJSON, createdAt string

	err := row.Scan(
		&a.ID, &a.CaseNumber, &a.PersonName, &a.DeviceInfo, &a.Source,
		&a.Username, &a.UserID, &a.Email, &a.Name, &a.ServiceIdentifier,
		&a.ServiceType, &a.Category, &a.EmailDomain, &a.Notes, &a.TimeCreated,
		&metadataJSON, &a.ProfilePicPath, &rawJSON, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	a.CreatedAt = parseTimestamp(createdAt)
	if err := unmarshalJSONColumn(metadataJSON, &a.Metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := unmarshalJSONColumn(rawJSON, &a.RawData); err != nil {
		return nil, fmt.Errorf("failed to parse raw data: %w", err)
	}
	return &a, nil
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

// ContactFilter narrows contact queries. Zero-valued fields are ignored.
type ContactFilter struct {
	CaseNumber      string
	PersonName      string
	DeviceInfo      string
	UploadSessionID string
	Source          string
	Category        string

	// Search matches name, phone, email, user id, and account columns
	// case-insensitively as a substring.
	Search string

	// WithPhotoOnly restricts results to contacts with an attached photo.
	WithPhotoOnly bool

	Limit  int
	Offset int
}

func (f ContactFilter) where() (string, []any) {
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
		{"source", f.Source},
		{"category", f.Category},
	} {
		if cond.value != "" {
			clause += " AND " + cond.column + " = ?"
			args = append(args, cond.value)
		}
	}
	if f.Search != "" {
		clause += " AND (name LIKE ? OR phone LIKE ? OR email LIKE ? OR user_id LIKE ? OR account LIKE ?)"
		pattern := "%" + f.Search + "%"
		for i := 0; i < 5; i++ {
			args = append(args, pattern)
		}
	}
	if f.WithPhotoOnly {
		clause += " AND photo_path != ''"
	}
	return clause, args
}

const contactColumns = `id, case_number, person_name, device_info, upload_session_id,
	source, account, name, phone, email, user_id, category, deleted_state,
	extraction_id, photo_path, suspect_phone, whatsapp_groups, raw_data, created_at`

// InsertContacts stores the given contacts in a single transaction.
// Records without an ID are assigned one; records without a creation time
// get the current time. The slice is modified in place so callers see the
// assigned identifiers.
func (cdb *CaseDB) InsertContacts(ctx context.Context, contacts []model.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO contacts (`+contactColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare contact insert: %w", err)
	}
	defer stmt.Close()

	for i := range contacts {
		c := &contacts[i]
		ensureRecordDefaults(&c.ID, &c.CreatedAt)

		groupsJSON, err := marshalJSONColumn(c.WhatsAppGroups)
		if err != nil {
			return fmt.Errorf("failed to serialize whatsapp groups: %w", err)
		}
		rawJSON, err := marshalJSONColumn(c.RawData)
		if err != nil {
			return fmt.Errorf("failed to serialize raw data: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.CaseNumber, c.PersonName, c.DeviceInfo, c.UploadSessionID,
			c.Source, c.Account, c.Name, c.Phone, c.Email, c.UserID, c.Category,
			c.DeletedState, c.ExtractionID, c.PhotoPath, c.SuspectPhone,
			groupsJSON, rawJSON, formatTimestamp(c.CreatedAt),
		); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}
	return nil
}

// ListContacts returns contacts matching the filter, newest first.
func (cdb *CaseDB) ListContacts(ctx context.Context, f ContactFilter) ([]model.Contact, error) {
	clause, args := f.where()
	query := "SELECT " + contactColumns + " FROM contacts" + clause + " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

// GetContact retrieves a contact by ID. Returns nil when not found.
func (cdb *CaseDB) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	row := cdb.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = ?", id)
	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return contact, err
}

// CountContacts returns the number of contacts matching the filter.
func (cdb *CaseDB) CountContacts(ctx context.Context, f ContactFilter) (int, error) {
	clause, args := f.where()
	var count int
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts"+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// contactDistinctColumns whitelists the columns exposed for distinct-value
// queries. The column name is interpolated into SQL and must never come
// from user input unchecked.
var contactDistinctColumns = map[string]bool{
	"case_number": true,
	"person_name": true,
	"device_info": true,
	"source":      true,
	"category":    true,
}

// DistinctContactValues returns the sorted distinct non-empty values of a
// whitelisted contact column, optionally scoped to one case.
func (cdb *CaseDB) DistinctContactValues(ctx context.Context, column, caseNumber string) ([]string, error) {
	if !contactDistinctColumns[column] {
		return nil, fmt.Errorf("column %s is not filterable", column)
	}
	return cdb.distinctValues(ctx, "contacts", column, caseNumber)
}

// distinctValues runs the shared distinct-value query. Callers must
// whitelist table and column; both are interpolated into SQL.
func (cdb *CaseDB) distinctValues(ctx context.Context, table, column, caseNumber string) ([]string, error) {
	query := "SELECT DISTINCT " + column + " FROM " + table + " WHERE " + column + " != ''"
	args := []any{}
	if caseNumber != "" {
		query += " AND case_number = ?"
		args = append(args, caseNumber)
	}
	query += " ORDER BY " + column

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DeleteContactsBySession removes every contact of one upload session and
// reports how many rows went away.
func (cdb *CaseDB) DeleteContactsBySession(ctx context.Context, sessionID string) (int64, error) {
	return cdb.deleteWhere(ctx, "contacts", "upload_session_id = ?", sessionID)
}

// DeleteContactsByCase removes every contact of one case.
func (cdb *CaseDB) DeleteContactsByCase(ctx context.Context, caseNumber string) (int64, error) {
	return cdb.deleteWhere(ctx, "contacts", "case_number = ?", caseNumber)
}

// DeleteGroupArtifacts removes legacy contact rows whose phone or user id
// carries a WhatsApp group or broadcast marker. Current ingestions drop
// those records up front; this cleans up databases written before the
// drop rule existed.
func (cdb *CaseDB) DeleteGroupArtifacts(ctx context.Context) (int64, error) {
	result, err := cdb.db.ExecContext(ctx, `
	DELETE FROM contacts
	WHERE phone LIKE '%'||?||'%' OR phone LIKE '%'||?||'%'
	   OR user_id LIKE '%'||?||'%' OR user_id LIKE '%'||?||'%'
	`, model.GroupMarker, model.BroadcastMarker, model.GroupMarker, model.BroadcastMarker)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group artifacts: %w", err)
	}
	return result.RowsAffected()
}

// UnsetContactPhotos clears the photo path of the given contacts and
// reports how many rows changed.
func (cdb *CaseDB) UnsetContactPhotos(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := cdb.db.ExecContext(ctx,
		"UPDATE contacts SET photo_path = '' WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to unset contact photos: %w", err)
	}
	return result.RowsAffected()
}

// rowScanner abstracts sql.Row and sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*model.Contact, error) {
	var c model.Contact
	var groupsJSON, rawJSON, createdAt string

	err := row.Scan(
		&c.ID, &c.CaseNumber, &c.PersonName, &c.DeviceInfo, &c.UploadSessionID,
		&c.Source, &c.Account, &c.Name, &c.Phone, &c.Email, &c.UserID, &c.Category,
		&c.DeletedState, &c.ExtractionID, &c.PhotoPath, &c.SuspectPhone,
		&groupsJSON, &rawJSON, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	c.CreatedAt = parseTimestamp(createdAt)
	if err := unmarshalJSONColumn(groupsJSON, &c.WhatsAppGroups); err != nil {
		return nil, fmt.Errorf("failed to parse whatsapp groups: %w", err)
	}
	if err := unmarshalJSONColumn(rawJSON, &c.RawData); err != nil {
		return nil, fmt.Errorf("failed to parse raw data: %w", err)
	}
	return &c, nil
}

// deleteWhere runs a DELETE with one condition and reports affected rows.
func (cdb *CaseDB) deleteWhere(ctx context.Context, table, condition string, args ...any) (int64, error) {
	result, err := cdb.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+condition, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return result.RowsAffected()
}

// marshalJSONColumn serializes v for storage, mapping nil to the empty
// string so absent data stays absent instead of becoming "null".
func marshalJSONColumn(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	switch concrete := v.(type) {
	case []string:
		if len(concrete) == 0 {
			return "", nil
		}
	case *model.RawData:
		if concrete == nil {
			return "", nil
		}
	case map[string][]string:
		if len(concrete) == 0 {
			return "", nil
		}
	case map[string]string:
		if len(concrete) == 0 {
			return "", nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSONColumn(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}

// ensureRecordDefaults fills in the identifier and creation time of a
// record about to be persisted.
func ensureRecordDefaults(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = model.NewRecordID()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now()
	}
}

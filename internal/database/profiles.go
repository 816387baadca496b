package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

const profileColumns = `id, case_number, person_name, device_info,
	profile_image_path, suspect_phone, emails, user_accounts, photo_exif,
	created_at, updated_at`

// UpsertProfile stores a suspect profile under the session-window policy:
// when the latest profile for the same (case, person, device) triple was
// created within the session window of now, the upload is a retry of the
// same ingestion and the row is updated in place; otherwise a new row is
// inserted. Returns the ID of the row written.
func (cdb *CaseDB) UpsertProfile(ctx context.Context, profile *model.SuspectProfile, now time.Time) (string, error) {
	existing, err := cdb.latestProfile(ctx, profile.CaseNumber, profile.PersonName, profile.DeviceInfo)
	if err != nil {
		return "", err
	}

	emailsJSON, err := marshalJSONColumn(profile.Emails)
	if err != nil {
		return "", fmt.Errorf("failed to serialize emails: %w", err)
	}
	accountsJSON, err := marshalAccountSummaries(profile.UserAccounts)
	if err != nil {
		return "", err
	}
	exifJSON, err := marshalJSONColumn(profile.PhotoEXIF)
	if err != nil {
		return "", fmt.Errorf("failed to serialize photo EXIF: %w", err)
	}

	if existing != nil && model.IsSameSession(existing.CreatedAt, now) {
		_, err := cdb.db.ExecContext(ctx, `
		UPDATE suspect_profiles
		SET profile_image_path = ?, suspect_phone = ?, emails = ?,
			user_accounts = ?, photo_exif = ?, updated_at = ?
		WHERE id = ?
		`,
			profile.ProfileImagePath, profile.SuspectPhone, emailsJSON,
			accountsJSON, exifJSON, formatTimestamp(now), existing.ID,
		)
		if err != nil {
			return "", fmt.Errorf("failed to update suspect profile: %w", err)
		}
		return existing.ID, nil
	}

	if profile.ID == "" {
		profile.ID = model.NewRecordID()
	}
	_, err = cdb.db.ExecContext(ctx, `
	INSERT INTO suspect_profiles (`+profileColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		profile.ID, profile.CaseNumber, profile.PersonName, profile.DeviceInfo,
		profile.ProfileImagePath, profile.SuspectPhone, emailsJSON,
		accountsJSON, exifJSON, formatTimestamp(now), formatTimestamp(now),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert suspect profile: %w", err)
	}
	return profile.ID, nil
}

// latestProfile returns the most recently created profile for the triple,
// or nil.
func (cdb *CaseDB) latestProfile(ctx context.Context, caseNumber, personName, deviceInfo string) (*model.SuspectProfile, error) {
	row := cdb.db.QueryRowContext(ctx, `
	SELECT `+profileColumns+` FROM suspect_profiles
	WHERE case_number = ? AND person_name = ? AND device_info = ?
	ORDER BY created_at DESC
	LIMIT 1
	`, caseNumber, personName, deviceInfo)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return profile, err
}

// ProfileFilter narrows profile queries. Zero-valued fields are ignored.
type ProfileFilter struct {
	CaseNumber string
	PersonName string
	DeviceInfo string
}

// ListProfiles returns suspect profiles matching the filter, newest first.
func (cdb *CaseDB) ListProfiles(ctx context.Context, f ProfileFilter) ([]model.SuspectProfile, error) {
	query := "SELECT " + profileColumns + " FROM suspect_profiles WHERE 1=1"
	args := make([]any, 0, 3)
	for _, cond := range []struct {
		column string
		value  string
	}{
		{"case_number", f.CaseNumber},
		{"person_name", f.PersonName},
		{"device_info", f.DeviceInfo},
	} {
		if cond.value != "" {
			query += " AND " + cond.column + " = ?"
			args = append(args, cond.value)
		}
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suspect profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.SuspectProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

// DeleteProfilesBySessionScope removes the profiles of one ingestion
// session triple.
func (cdb *CaseDB) DeleteProfilesBySessionScope(ctx context.Context, caseNumber, personName, deviceInfo string) (int64, error) {
	return cdb.deleteWhere(ctx, "suspect_profiles",
		"case_number = ? AND person_name = ? AND device_info = ?",
		caseNumber, personName, deviceInfo)
}

// DeleteProfilesByCase removes every suspect profile of one case.
func (cdb *CaseDB) DeleteProfilesByCase(ctx context.Context, caseNumber string) (int64, error) {
	return cdb.deleteWhere(ctx, "suspect_profiles", "case_number = ?", caseNumber)
}

func scanProfile(row rowScanner) (*model.SuspectProfile, error) {
	var p model.SuspectProfile
	var emailsJSON, accountsJSON, exifJSON, createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.CaseNumber, &p.PersonName, &p.DeviceInfo,
		&p.ProfileImagePath, &p.SuspectPhone, &emailsJSON, &accountsJSON,
		&exifJSON, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan suspect profile: %w", err)
	}

	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	if err := unmarshalJSONColumn(emailsJSON, &p.Emails); err != nil {
		return nil, fmt.Errorf("failed to parse emails: %w", err)
	}
	if err := unmarshalJSONColumn(accountsJSON, &p.UserAccounts); err != nil {
		return nil, fmt.Errorf("failed to parse user accounts: %w", err)
	}
	if err := unmarshalJSONColumn(exifJSON, &p.PhotoEXIF); err != nil {
		return nil, fmt.Errorf("failed to parse photo EXIF: %w", err)
	}
	return &p, nil
}

func marshalAccountSummaries(summaries []model.AccountSummary) (string, error) {
	if len(summaries) == 0 {
		return "", nil
	}
	data, err := marshalJSONColumn(summaries)
	if err != nil {
		return "", fmt.Errorf("failed to serialize user accounts: %w", err)
	}
	return data, nil
}

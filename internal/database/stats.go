package database

import (
	"context"
	"fmt"
)

// Stats summarizes the database contents for the overview endpoint.
type Stats struct {
	Contacts    int `json:"contacts"`
	Credentials int `json:"credentials"`
	Accounts    int `json:"accounts"`
	Profiles    int `json:"suspect_profiles"`
	Cases       int `json:"cases"`
}

// GetStats counts the stored records and distinct cases, optionally scoped
// to one case number.
func (cdb *CaseDB) GetStats(ctx context.Context, caseNumber string) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		table string
		dest  *int
	}{
		{"contacts", &stats.Contacts},
		{"credentials", &stats.Credentials},
		{"accounts", &stats.Accounts},
		{"suspect_profiles", &stats.Profiles},
	}
	for _, c := range counts {
		query := "SELECT COUNT(*) FROM " + c.table
		args := []any{}
		if caseNumber != "" {
			query += " WHERE case_number = ?"
			args = append(args, caseNumber)
		}
		if err := cdb.db.QueryRowContext(ctx, query, args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	caseQuery := `
	SELECT COUNT(*) FROM (
		SELECT case_number FROM contacts
		UNION
		SELECT case_number FROM credentials
		UNION
		SELECT case_number FROM accounts
	)`
	if err := cdb.db.QueryRowContext(ctx, caseQuery).Scan(&stats.Cases); err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}
	if caseNumber != "" {
		stats.Cases = 1
	}
	return stats, nil
}

// Wipe deletes every record from every collection. The schema stays in
// place; only the wipe endpoint, gated by the configured wipe key, calls
// this.
func (cdb *CaseDB) Wipe(ctx context.Context) error {
	for _, table := range []string{"contacts", "credentials", "accounts", "suspect_profiles"} {
		if _, err := cdb.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}
	return nil
}

// ListCases returns the distinct case numbers present in any collection,
// sorted.
func (cdb *CaseDB) ListCases(ctx context.Context) ([]string, error) {
	query := `
	SELECT case_number FROM contacts
	UNION
	SELECT case_number FROM credentials
	UNION
	SELECT case_number FROM accounts
	UNION
	SELECT case_number FROM suspect_profiles
	ORDER BY case_number
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan case number: %w", err)
		}
		if c != "" {
			cases = append(cases, c)
		}
	}
	return cases, rows.Err()
}

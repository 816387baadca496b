package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/dedup"
	"github.com/forensint/celltrace/internal/report"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export case records as a report",
		Long: `Export writes the stored records of a case (or of all cases) in one
of the report formats:

  csv       flat spreadsheet of credentials and accounts
  wordlist  distinct extracted passwords, one per line
  markdown  investigator-facing summary report
  json      full structured dump

Examples:
  # Print a markdown summary of one case
  celltrace export --case 2026-0142

  # Write a wordlist for password cracking tools
  celltrace export --case 2026-0142 --format wordlist -o case.wordlist

  # Dump everything as JSON
  celltrace export --format json -o all-cases.json`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", "markdown", "Report format: csv, wordlist, markdown, or json")
	cmd.Flags().StringP("case", "n", "", "Limit the export to one case number")
	cmd.Flags().StringP("output", "o", "", "Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	caseNumber, err := cmd.Flags().GetString("case")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	export, err := buildExport(cmd.Context(), db, caseNumber)
	if err != nil {
		return err
	}

	output, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	if output != os.Stdout {
		defer output.Close()
	}

	var writer report.Writer
	switch format {
	case "csv":
		writer = report.NewCSVWriter(output)
	case "wordlist":
		writer = report.NewWordlistWriter(output)
	case "markdown":
		writer = report.NewMarkdownWriter(output)
	case "json":
		writer = report.NewJSONWriter(output)
	default:
		return fmt.Errorf("unknown export format %q (use csv, wordlist, markdown, or json)", format)
	}

	if _, err := writer.Write(export); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// buildExport loads every collection of the case into one export.
func buildExport(ctx context.Context, db *database.CaseDB, caseNumber string) (*report.Export, error) {
	contacts, err := db.ListContacts(ctx, database.ContactFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	credentials, err := db.ListCredentials(ctx, database.CredentialFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	accounts, err := db.ListAccounts(ctx, database.AccountFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	profiles, err := db.ListProfiles(ctx, database.ProfileFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}

	return &report.Export{
		CaseNumber:  caseNumber,
		GeneratedAt: time.Now(),
		Contacts:    contacts,
		Credentials: credentials,
		Accounts:    accounts,
		Profiles:    profiles,
		Reuse:       dedup.AnalyzePasswordReuse(credentials),
	}, nil
}

// openOutput opens the report destination, defaulting to stdout.
func openOutput(outputPath string) (*os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports carry extracted credentials; keep them owner-readable only.
	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

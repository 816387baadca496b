package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/dedup"
	"github.com/forensint/celltrace/internal/report"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	caseNumber := r.URL.Query().Get("case")

	export, err := s.buildExport(r, caseNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var (
		writer      report.Writer
		contentType string
		extension   string
	)
	switch format {
	case "csv":
		writer = report.NewCSVWriter(w)
		contentType = "text/csv; charset=utf-8"
		extension = "csv"
	case "wordlist":
		writer = report.NewWordlistWriter(w)
		contentType = "text/plain; charset=utf-8"
		extension = "txt"
	case "markdown":
		writer = report.NewMarkdownWriter(w)
		contentType = "text/markdown; charset=utf-8"
		extension = "md"
	case "json":
		writer = report.NewJSONWriter(w)
		contentType = "application/json"
		extension = "json"
	default:
		writeError(w, http.StatusNotFound, "unknown export format "+format)
		return
	}

	name := "export"
	if caseNumber != "" {
		name = "case_" + caseNumber
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", name+"."+extension))

	if _, err := writer.Write(export); err != nil {
		// Headers are already sent; all that remains is the log line.
		s.logger.Error("export failed", "format", format, "err", err)
	}
}

func (s *Server) buildExport(r *http.Request, caseNumber string) (*report.Export, error) {
	ctx := r.Context()

	contacts, err := s.db.ListContacts(ctx, database.ContactFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	credentials, err := s.db.ListCredentials(ctx, database.CredentialFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	accounts, err := s.db.ListAccounts(ctx, database.AccountFilter{CaseNumber: caseNumber})
	if err != nil {
		return nil, err
	}
	profiles, err := s.db.ListProfiles(ctx, database.ProfileFilter{CaseNumber: caseNumber})
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

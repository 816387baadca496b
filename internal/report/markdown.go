package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/forensint/celltrace/internal/dedup"
	"github.com/forensint/celltrace/internal/model"
)

// maxReuseRows caps the reused-password table so a case with heavy reuse
// still produces a readable report.
const maxReuseRows = 20

// MarkdownWriter renders the export as a case report in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that writes to the given output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the export as a Markdown case report.
func (w *MarkdownWriter) Write(export *Export) (int, error) {
	md := markdown.NewMarkdown(w.output)

	title := "Extraction Report"
	if export.CaseNumber != "" {
		title = fmt.Sprintf("Extraction Report: Case %s", export.CaseNumber)
	}
	md.H1(title)
	if !export.GeneratedAt.IsZero() {
		md.PlainText(fmt.Sprintf("Generated at %s", export.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	}
	md.PlainText("")

	md.H2("Summary")
	md.Table(markdown.TableSet{
		Header: []string{"Records", "Count"},
		Rows: [][]string{
			{"Contacts", strconv.Itoa(len(export.Contacts))},
			{"Credentials", strconv.Itoa(len(export.Credentials))},
			{"Accounts", strconv.Itoa(len(export.Accounts))},
			{"Suspect profiles", strconv.Itoa(len(export.Profiles))},
		},
	})
	md.PlainText("")

	if len(export.Profiles) > 0 {
		md.H2("Suspect Profiles")
		rows := make([][]string, 0, len(export.Profiles))
		for i := range export.Profiles {
			p := &export.Profiles[i]
			rows = append(rows, []string{
				p.PersonName,
				p.DeviceInfo,
				p.SuspectPhone,
				strings.Join(p.Emails, ", "),
				strconv.Itoa(len(p.UserAccounts)),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Suspect", "Device", "Phone", "Emails", "Accounts"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if rows := reuseRows(export.Reuse); len(rows) > 0 {
		md.H2("Reused Passwords")
		md.Table(markdown.TableSet{
			Header: []string{"Password", "Usage Count", "Services"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if rows := categoryRows(export.Credentials, export.Accounts); len(rows) > 0 {
		md.H2("Records by Category")
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Credentials", "Accounts"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if rows := sourceRows(export.Contacts); len(rows) > 0 {
		md.H2("Contacts by Source")
		md.Table(markdown.TableSet{
			Header: []string{"Source", "Contacts"},
			Rows:   rows,
		})
	}

	return len(md.String()), md.Build()
}

// reuseRows keeps only genuinely reused passwords, up to maxReuseRows.
func reuseRows(reuse []model.PasswordReuse) [][]string {
	rows := make([][]string, 0, maxReuseRows)
	for i := range reuse {
		r := &reuse[i]
		if !r.IsReused {
			continue
		}
		services := make([]string, 0, len(r.Usages))
		for _, u := range r.Usages {
			services = append(services, u.Service)
		}
		rows = append(rows, []string{
			r.Password,
			strconv.Itoa(r.UsageCount),
			strings.Join(services, ", "),
		})
		if len(rows) == maxReuseRows {
			break
		}
	}
	return rows
}

func categoryRows(credentials []model.Credential, accounts []model.Account) [][]string {
	type counts struct{ credentials, accounts int }
	byCategory := make(map[string]*counts)
	bump := func(category string, isAccount bool) {
		if category == "" {
			category = "uncategorized"
		}
		c := byCategory[category]
		if c == nil {
			c = &counts{}
			byCategory[category] = c
		}
		if isAccount {
			c.accounts++
		} else {
			c.credentials++
		}
	}
	for i := range credentials {
		bump(credentials[i].Category, false)
	}
	for i := range accounts {
		bump(accounts[i].Category, true)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		c := byCategory[name]
		rows = append(rows, []string{name, strconv.Itoa(c.credentials), strconv.Itoa(c.accounts)})
	}
	return rows
}

func sourceRows(contacts []model.Contact) [][]string {
	bySource := make(map[string]int)
	for i := range contacts {
		source := contacts[i].Source
		if source == "" {
			source = dedup.DefaultSource
		}
		bySource[source]++
	}

	names := make([]string, 0, len(bySource))
	for name := range bySource {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(bySource[name])})
	}
	return rows
}

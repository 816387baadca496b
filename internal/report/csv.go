package report

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

// csvHeader is the fixed column set shared by credential and account rows.
// Columns that mean different things per record type carry both names.
var csvHeader = []string{
	"Type",
	"Case Number",
	"Suspect",
	"Device",
	"Source/App",
	"Username/Email",
	"Password/Data",
	"Category",
	"Service Type",
	"Description/Notes",
	"URL",
	"Created At",
}

// CSVWriter renders credentials and accounts as a flat CSV table.
// Contacts and profiles are not included; CSV export exists for
// spreadsheet review of harvested secrets.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that writes to the given output.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the export as CSV. Credentials come first, then
// accounts, each in input order.
func (w *CSVWriter) Write(export *Export) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}
	for i := range export.Credentials {
		if err := cw.Write(credentialRow(&export.Credentials[i])); err != nil {
			return counter.n, err
		}
	}
	for i := range export.Accounts {
		if err := cw.Write(accountRow(&export.Accounts[i])); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

func credentialRow(c *model.Credential) []string {
	serviceType := ""
	if c.RawData != nil {
		serviceType = c.RawData.Fields["ServiceType"]
	}
	return []string{
		"password",
		c.CaseNumber,
		c.PersonName,
		c.DeviceInfo,
		c.Application,
		c.Username,
		c.Password,
		c.Category,
		serviceType,
		c.Description,
		c.URL,
		formatCSVTime(c.CreatedAt),
	}
}

func accountRow(a *model.Account) []string {
	identity := a.Username
	if identity == "" {
		identity = a.Email
	}
	url := ""
	if urls := a.Metadata["URLs"]; len(urls) > 0 {
		url = urls[0]
	}
	created := a.TimeCreated
	if created == "" {
		created = formatCSVTime(a.CreatedAt)
	}
	return []string{
		"account",
		a.CaseNumber,
		a.PersonName,
		a.DeviceInfo,
		a.Source,
		identity,
		a.UserID,
		a.Category,
		a.ServiceType,
		a.Notes,
		url,
		created,
	}
}

func formatCSVTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// countingWriter counts bytes passing through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

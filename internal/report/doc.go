// Package report renders case exports for investigators.
//
// An Export bundles everything known about one case (or all cases) at a
// point in time. Writers render it as CSV for spreadsheet review, as a
// plain wordlist for password-audit tooling, as Markdown for case
// documentation, or as JSON for machine consumption.
package report

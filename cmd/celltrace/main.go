// Package main provides the entry point for the celltrace CLI.
//
// celltrace ingests mobile-device extraction archives, normalizes the
// contacts, credentials, and accounts they contain, and serves the
// results to investigators over a CLI and a thin HTTP API.
//
// Usage:
//
//	celltrace ingest --case <number> --person <name> <archive.zip>...
//	celltrace serve
//	celltrace export --format csv
//
// See --help for all available options.
package main

// main is the entry point for celltrace.
func main() {
	Execute()
}

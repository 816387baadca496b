// Package config provides configuration structures and utilities for the
// extraction ingestion service. It defines storage and database locations,
// HTTP server settings, admin credentials, and batch ingestion tuning.
package config

// Package server exposes the ingestion and query surface over HTTP.
//
// The API is a thin shell: handlers parse requests, call into the
// database, dedup, pipeline, and report packages, and encode JSON. No
// domain logic lives here. Everything mounts under /api and is guarded
// by a CORS middleware configured from config.Config.
package server

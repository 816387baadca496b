// Package dedup implements read-time entity resolution over persisted
// records.
//
// Nothing here mutates storage: ingestion writes raw records exactly as
// extracted, possibly including duplicates from re-ingested archives, and
// this package groups and merges them into representative views whenever
// a query asks for the deduplicated picture. Merges are deterministic and
// explainable; every merged view carries the contributing variants and a
// duplicate count so an investigator can always see what was folded
// together.
//
// The matching heuristics (photo cleanup, important-account filtering)
// are pure predicate functions so they can be tuned and tested without
// touching ingestion or query control flow.
package dedup

// Package pipeline orchestrates archive ingestion.
//
// One ingestion is a sequence of steps over a shared Ingestion state:
// unpack and classify the archive, resolve device metadata, run the three
// extractors, assemble the suspect profile, and persist everything in one
// bulk write per record type. Steps never partially persist: everything
// accumulates in memory until the persist step runs, so a failed step
// leaves no stray rows behind.
//
// Parse failures of individual documents do not fail a step; they are
// recorded on the Ingestion and ingestion continues with the documents
// that did parse. BatchProcessor runs several archive ingestions
// concurrently with a bounded limit.
package pipeline

// Package ingest orchestrates one ingestion request end to end: content
// normalization, chunking, and parallel topic extraction with per-unit
// failure isolation.
package ingest

// Package ingest implements bulk content import and export: reconciling flat
// question batches into modules, sets and questions, archiving raw payloads
// to object storage, and rendering the re-importable CSV export.
package ingest

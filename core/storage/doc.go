// Package storage provides the object storage client used to archive raw
// import batches and CSV exports. It wraps minio-go behind a small Client
// interface so handlers and the ingest archiver can be tested with mocks.
package storage

// Package apperr defines the error taxonomy shared by the content store,
// the ingest engine and the HTTP handlers: InvalidFormat, NotFound, Conflict
// and StoreFailure. Handlers translate these into 400/404/409/500 responses
// via HTTPStatus.
package apperr

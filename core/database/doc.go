// Package database provides the GORM connection layer for the content store.
//
// It supports the mysql (default), postgres and sqlite drivers. The sqlite
// driver with ":memory:" as the database name is used throughout the test
// suite so that store-backed logic runs against a real GORM connection.
package database

// Package middleware groups the HTTP middlewares shared by all features:
// request ID assignment (requestid) and JWT bearer authentication (auth).
package middleware

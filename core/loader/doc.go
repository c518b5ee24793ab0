// Package loader wires features into the HTTP server. Each feature bundles
// its service, handler and routes behind the Feature interface; the Manager
// loads them in registration order at startup.
package loader

// Package tfasdk provides the shared request/response types for the
// two-factor service API and a typed HTTP client for it. The server handlers
// and consumers use the same definitions, so the wire contract lives in one
// place.
package tfasdk

// Package storage declares persistence interfaces for the web query cache.
//
// Cached payloads are always derived from backend reads and can be discarded
// at any time.
package storage

// Package blob provides ports.BlobStore implementations: a directory of
// files, a single-table SQLite database, and an in-memory map for tests.
package blob

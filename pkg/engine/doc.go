// Package engine provides the connection facade over the pluggable storage
// layer: schema slots, file-control plumbing, header introspection, the
// page-backup primitive, and the serialize/deserialize bridge that swaps a
// slot's native file for a hooked in-memory record.
//
// The engine is storage-side only. It manages database images as byte
// buffers; executing SQL against an image is the job of a SQL engine, which
// the integration tests exercise separately.
package engine

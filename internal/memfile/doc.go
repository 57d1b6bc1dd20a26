// Package memfile implements the hooked in-memory file that replaces the
// default driver's file on a schema slot. A File wraps a reference-counted
// Buffer; the reference count is the only write-exclusivity mechanism:
// while more than one reference exists every write and truncate fails with
// a read-only code, and the exclusive owner regains write access once the
// extra references are released.
package memfile

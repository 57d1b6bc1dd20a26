// Package vfs defines the pluggable storage contract of the engine: the
// native status codes, the file method table, the file-control opcodes, and
// the process-wide driver registry. The built-in "memvfs" driver backs every
// schema slot until a hooked file replaces it.
package vfs

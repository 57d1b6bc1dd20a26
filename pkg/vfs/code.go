package vfs

import "fmt"

// Code is a native status code returned by File entry points. The numeric
// values match the host engine's wire contract and must not change: the
// engine interprets them to choose its recovery behavior (a short read is
// zero-filled and retried at a higher layer, Busy triggers the caller's own
// retry policy, and so on).
type Code int

// Status codes understood by the engine.
const (
	OK       Code = 0
	Error    Code = 1
	Busy     Code = 5
	Locked   Code = 6
	ReadOnly Code = 8
	IOErr    Code = 10
	NotFound Code = 12
	Full     Code = 13

	// IOErrShortRead reports a read past the end of the file. Not fatal:
	// the engine keeps the zero-filled tail of the output buffer.
	IOErrShortRead Code = IOErr | 2<<8
)

var codeNames = map[Code]string{
	OK:             "ok",
	Error:          "error",
	Busy:           "busy",
	Locked:         "locked",
	ReadOnly:       "read-only",
	IOErr:          "I/O error",
	NotFound:       "not found",
	Full:           "database or disk is full",
	IOErrShortRead: "short read",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error makes non-OK codes usable as error values. OK should never be
// returned as an error; callers use Errno to convert.
func (c Code) Error() string {
	return c.String()
}

// Errno converts a status code to an error: nil for OK, the code itself
// otherwise.
func Errno(c Code) error {
	if c == OK {
		return nil
	}
	return c
}

package vfs

// LockLevel is the strength of a file lock requested through Lock and
// released through Unlock. Levels are ordered; a request is "stronger than
// shared" when it exceeds LockShared.
type LockLevel int

const (
	LockNone LockLevel = iota
	LockShared
	LockReserved
	LockPending
	LockExclusive
)

// Fcntl is a file-control opcode passed to FileControl. Values match the
// host engine's opcode numbering.
type Fcntl int

const (
	// FcntlFilePointer asks for the underlying File of a schema slot. The
	// argument is a *File. Handled by the connection layer, never by the
	// file itself.
	FcntlFilePointer Fcntl = 7

	// FcntlVFSName asks for a descriptive driver name. The argument is a
	// *string.
	FcntlVFSName Fcntl = 12

	// FcntlSizeLimit negotiates the maximum file size. The argument is a
	// *int64 holding the requested limit; on return it holds the adopted
	// one. A negative request reads back the current limit unchanged; a
	// request below the current length clamps to the current length.
	FcntlSizeLimit Fcntl = 36
)

// IOCap is a bitmask of device characteristics reported by a File.
type IOCap int

const (
	IOCapAtomic             IOCap = 0x1
	IOCapSafeAppend         IOCap = 0x200
	IOCapSequential         IOCap = 0x400
	IOCapPowersafeOverwrite IOCap = 0x1000
)

// DefaultSizeMax is the size limit a freshly opened in-memory file starts
// with, before any FcntlSizeLimit negotiation.
const DefaultSizeMax int64 = 1 << 30

// File is the method table the engine calls for every page operation on a
// schema slot. It matches the engine's version 3 storage contract: no
// shared-memory slots (in-memory files are not WAL-capable), with the
// optional Fetch/Unfetch pair present.
//
// Every method is a boundary function. Implementations must convert any
// internal abnormal termination into IOErr rather than letting a panic
// cross back into the engine.
type File interface {
	// Close releases the file. The engine calls it exactly once, when the
	// schema slot is detached or the connection closes.
	Close() Code

	// ReadAt copies len(p) bytes starting at off into p. A range past the
	// current length zero-fills the remainder of p and returns
	// IOErrShortRead.
	ReadAt(p []byte, off int64) Code

	// WriteAt copies p into the file at off, growing it as needed.
	WriteAt(p []byte, off int64) Code

	// Truncate shrinks the file to size. Growing through Truncate is not
	// part of the contract and returns Full.
	Truncate(size int64) Code

	// Sync flushes to durable storage. A no-op for memory-backed files.
	Sync(flags int) Code

	// FileSize reports the current length.
	FileSize() (int64, Code)

	Lock(level LockLevel) Code
	Unlock(level LockLevel) Code

	// FileControl performs op with an opcode-specific argument, returning
	// NotFound for unrecognized opcodes.
	FileControl(op Fcntl, arg any) Code

	DeviceCharacteristics() IOCap

	// Fetch returns a direct view into the backing storage for the range
	// [off, off+amt), or nil (with OK) when the range is out of bounds and
	// the engine should fall back to ReadAt. A non-nil view is a lease:
	// the file must not relocate its storage until the matching Unfetch.
	Fetch(off int64, amt int) ([]byte, Code)

	// Unfetch releases the lease taken by Fetch at off.
	Unfetch(off int64) Code
}

// VFS opens files for schema slots. Drivers are registered process-wide
// under a unique name.
type VFS interface {
	// Name returns the registered driver name.
	Name() string

	// Open creates a file for the slot identified by name. In-memory
	// drivers use the name only for diagnostics.
	Open(name string) (File, Code)
}

package memfile

import (
	"fmt"

	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

// File is the hooked file record installed on a schema slot in place of the
// default driver's file. It satisfies vfs.File.
//
// sizeMax caps growth: a write is never allowed to push the buffer capacity
// beyond it. memoryMapped counts outstanding Fetch leases; while any lease
// is held, a write that would relocate the backing storage fails, because
// the engine may still dereference the leased views.
type File struct {
	s            *shared
	sizeMax      int64
	memoryMapped int
}

var _ vfs.File = (*File)(nil)

// New wraps buf in a file record with the given size limit. The limit is
// captured from the slot being replaced, preserving any earlier
// FcntlSizeLimit negotiation.
func New(buf *Buffer, sizeMax int64) *File {
	return &File{s: newShared(buf), sizeMax: sizeMax}
}

// Retain returns a new reference to the shared buffer without copying. The
// mere existence of the reference restricts this file to read-only.
func (f *File) Retain() *Ref {
	f.s.mu.Lock()
	f.s.refs++
	f.s.mu.Unlock()
	return &Ref{s: f.s}
}

// CloneBytes copies the current contents into a fresh owned slice. Cloning,
// not moving: the shared handle may still be referenced elsewhere.
func (f *File) CloneBytes() []byte {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return append([]byte(nil), f.s.buf.Bytes()...)
}

// ioGuard converts a panic escaping an entry point into a generic I/O error
// code. No control flow other than a plain return may cross back into the
// engine; unwinding through the callback boundary is undefined behavior on
// the engine's side.
func ioGuard(rc *vfs.Code) {
	if r := recover(); r != nil {
		*rc = vfs.IOErr
	}
}

// Close releases this record's reference to the buffer. The engine calls it
// exactly once, on detach or connection close. For a borrowed buffer the
// external caller's slice already reflects the final length.
func (f *File) Close() (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	f.s.refs--
	f.s.mu.Unlock()
	f.s = nil
	return vfs.OK
}

func (f *File) ReadAt(p []byte, off int64) (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	data := f.s.buf.Bytes()
	if off >= int64(len(data)) {
		clear(p)
		return vfs.IOErrShortRead
	}
	n := copy(p, data[off:])
	if n < len(p) {
		clear(p[n:])
		return vfs.IOErrShortRead
	}
	return vfs.OK
}

func (f *File) WriteAt(p []byte, off int64) (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	buf := f.s.buf
	if f.s.refs != 1 || !buf.Writable() {
		return vfs.ReadOnly
	}
	end := off + int64(len(p))
	if end > int64(buf.Len()) {
		if end > f.sizeMax {
			return vfs.Full
		}
		if end > int64(buf.Cap()) {
			if f.memoryMapped > 0 {
				// Growth may relocate storage under a live lease.
				return vfs.Full
			}
			if !buf.Reserve(int(end) - buf.Len()) {
				return vfs.Full
			}
			if int64(buf.Cap()) > f.sizeMax {
				return vfs.Full
			}
		}
		buf.SetLen(int(end))
	}
	copy(buf.Mutable()[off:], p)
	return vfs.OK
}

// Truncate only shrinks. In rollback journaling mode the engine never uses
// truncate to extend a file, so growth requests return Full, matching the
// disk-file contract.
func (f *File) Truncate(size int64) (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	buf := f.s.buf
	if f.s.refs != 1 || !buf.Writable() {
		return vfs.ReadOnly
	}
	if size > int64(buf.Len()) {
		return vfs.Full
	}
	buf.SetLen(int(size))
	return vfs.OK
}

// Sync is a no-op: in-memory storage has no durability boundary.
func (f *File) Sync(int) vfs.Code { return vfs.OK }

func (f *File) FileSize() (size int64, rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(f.s.buf.Len()), vfs.OK
}

// Lock rejects anything stronger than a shared lock on read-only data. No
// actual interprocess locking is meaningful for a private in-memory file.
func (f *File) Lock(level vfs.LockLevel) (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if level > vfs.LockShared && !f.s.buf.Writable() {
		return vfs.ReadOnly
	}
	return vfs.OK
}

func (f *File) Unlock(vfs.LockLevel) vfs.Code { return vfs.OK }

func (f *File) FileControl(op vfs.Fcntl, arg any) (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	switch op {
	case vfs.FcntlVFSName:
		s, ok := arg.(*string)
		if !ok {
			return vfs.Error
		}
		data := f.s.buf.Bytes()
		*s = fmt.Sprintf("memdb(%p,%d)", data, len(data))
		return vfs.OK
	case vfs.FcntlSizeLimit:
		limit, ok := arg.(*int64)
		if !ok {
			return vfs.Error
		}
		want := *limit
		if want < int64(f.s.buf.Len()) {
			if want < 0 {
				// Negative request restores the previous cap.
				want = f.sizeMax
			} else {
				// Below current length clamps to current length.
				want = int64(f.s.buf.Len())
			}
		}
		f.sizeMax = want
		*limit = want
		return vfs.OK
	}
	return vfs.NotFound
}

// DeviceCharacteristics reports properties trivially true for memory.
func (f *File) DeviceCharacteristics() vfs.IOCap {
	return vfs.IOCapAtomic | vfs.IOCapPowersafeOverwrite |
		vfs.IOCapSafeAppend | vfs.IOCapSequential
}

// Fetch hands out a direct view into the backing storage and takes a lease
// on it. Out-of-bounds ranges return a nil view so the engine falls back to
// ReadAt.
func (f *File) Fetch(off int64, amt int) (p []byte, rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	data := f.s.buf.Bytes()
	if off+int64(amt) > int64(len(data)) {
		return nil, vfs.OK
	}
	f.memoryMapped++
	return data[off : off+int64(amt)], vfs.OK
}

func (f *File) Unfetch(int64) (rc vfs.Code) {
	defer ioGuard(&rc)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.memoryMapped--
	return vfs.OK
}

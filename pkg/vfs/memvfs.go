package vfs

import "fmt"

// memVFS is the built-in in-memory driver. Every file it opens is owned and
// growable; the serialization layer replaces these files with hooked records
// when a caller attaches its own bytes.
type memVFS struct{}

func (memVFS) Name() string { return DefaultName }

func (memVFS) Open(name string) (File, Code) {
	return &memFile{name: name, sizeMax: DefaultSizeMax}, OK
}

// memFile is the driver's native file: a plain growable byte buffer.
type memFile struct {
	name    string
	buf     []byte
	sizeMax int64
	mapped  int
}

func (f *memFile) Close() Code {
	f.buf = nil
	return OK
}

func (f *memFile) ReadAt(p []byte, off int64) Code {
	if off >= int64(len(f.buf)) {
		clear(p)
		return IOErrShortRead
	}
	n := copy(p, f.buf[off:])
	if n < len(p) {
		clear(p[n:])
		return IOErrShortRead
	}
	return OK
}

func (f *memFile) WriteAt(p []byte, off int64) Code {
	end := off + int64(len(p))
	if end > int64(len(f.buf)) {
		if end > f.sizeMax {
			return Full
		}
		old := len(f.buf)
		if end <= int64(cap(f.buf)) {
			f.buf = f.buf[:end]
		} else {
			if f.mapped > 0 {
				return Full
			}
			grown := make([]byte, end)
			copy(grown, f.buf)
			f.buf = grown
		}
		clear(f.buf[old:])
	}
	copy(f.buf[off:], p)
	return OK
}

func (f *memFile) Truncate(size int64) Code {
	if size > int64(len(f.buf)) {
		return Full
	}
	f.buf = f.buf[:size]
	return OK
}

func (f *memFile) Sync(int) Code { return OK }

func (f *memFile) FileSize() (int64, Code) {
	return int64(len(f.buf)), OK
}

func (f *memFile) Lock(LockLevel) Code   { return OK }
func (f *memFile) Unlock(LockLevel) Code { return OK }

func (f *memFile) FileControl(op Fcntl, arg any) Code {
	switch op {
	case FcntlVFSName:
		s, ok := arg.(*string)
		if !ok {
			return Error
		}
		*s = fmt.Sprintf("%s(%p,%d)", DefaultName, f.buf, len(f.buf))
		return OK
	case FcntlSizeLimit:
		limit, ok := arg.(*int64)
		if !ok {
			return Error
		}
		want := *limit
		if want < int64(len(f.buf)) {
			if want < 0 {
				want = f.sizeMax
			} else {
				want = int64(len(f.buf))
			}
		}
		f.sizeMax = want
		*limit = want
		return OK
	}
	return NotFound
}

func (f *memFile) DeviceCharacteristics() IOCap {
	return IOCapAtomic | IOCapPowersafeOverwrite | IOCapSafeAppend | IOCapSequential
}

func (f *memFile) Fetch(off int64, amt int) ([]byte, Code) {
	if off+int64(amt) > int64(len(f.buf)) {
		return nil, OK
	}
	f.mapped++
	return f.buf[off : off+int64(amt)], OK
}

func (f *memFile) Unfetch(int64) Code {
	f.mapped--
	return OK
}

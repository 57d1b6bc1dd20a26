package memfile

type bufKind int8

const (
	bufOwned bufKind = iota
	bufResizable
	bufReadOnly
)

// Buffer holds the raw bytes of one in-memory database file, in one of
// three ownership modes:
//
//   - owned: a growable buffer wholly owned by the file record
//   - resizable borrow: a growable buffer owned by an external caller,
//     mutated in place through the caller's slice pointer so the caller
//     always observes the current length
//   - read-only borrow: an immutable view owned by an external caller
//
// Invariant: Len ≤ Cap; a read-only borrow has Cap == Len and never permits
// mutation.
type Buffer struct {
	kind bufKind
	data []byte  // owned storage, or the read-only view
	ext  *[]byte // the caller's slice, resizable-borrow mode only
}

// NewOwned wraps data as an owned buffer. The caller hands over ownership.
func NewOwned(data []byte) *Buffer {
	return &Buffer{kind: bufOwned, data: data}
}

// NewResizable borrows the caller's slice mutably. All growth, truncation,
// and writes go through ext, so the slice reflects the file contents at all
// times, including after the file record is closed.
func NewResizable(ext *[]byte) *Buffer {
	return &Buffer{kind: bufResizable, ext: ext}
}

// NewReadOnly borrows view immutably.
func NewReadOnly(view []byte) *Buffer {
	return &Buffer{kind: bufReadOnly, data: view}
}

func (b *Buffer) slice() []byte {
	if b.kind == bufResizable {
		return *b.ext
	}
	return b.data
}

func (b *Buffer) store(s []byte) {
	if b.kind == bufResizable {
		*b.ext = s
		return
	}
	b.data = s
}

// Bytes returns the current contents as a view, not a copy.
func (b *Buffer) Bytes() []byte {
	return b.slice()
}

// Mutable returns a writable view of the current contents. Calling it on a
// read-only borrow is a programming-contract violation and panics.
func (b *Buffer) Mutable() []byte {
	if b.kind == bufReadOnly {
		panic("memfile: Mutable on read-only buffer")
	}
	return b.slice()
}

// Len returns the current length.
func (b *Buffer) Len() int {
	return len(b.slice())
}

// Cap returns the capacity of the backing allocation. For a read-only
// borrow the capacity is the length.
func (b *Buffer) Cap() int {
	if b.kind == bufReadOnly {
		return len(b.data)
	}
	return cap(b.slice())
}

// SetLen changes the length to n, which must not exceed Cap. Growing
// zero-fills the newly exposed bytes; shrinking truncates in place. Panics
// on a read-only borrow.
func (b *Buffer) SetLen(n int) {
	if b.kind == bufReadOnly {
		panic("memfile: SetLen on read-only buffer")
	}
	s := b.slice()
	if n > cap(s) {
		panic("memfile: SetLen beyond capacity")
	}
	old := len(s)
	s = s[:n]
	if n > old {
		clear(s[old:])
	}
	b.store(s)
}

// Reserve grows the backing allocation so at least additional more bytes
// fit beyond the current length, possibly relocating the storage. Returns
// false for a read-only borrow, which can never grow.
func (b *Buffer) Reserve(additional int) bool {
	if b.kind == bufReadOnly {
		return false
	}
	s := b.slice()
	if cap(s)-len(s) >= additional {
		return true
	}
	need := len(s) + additional
	newCap := 2 * cap(s)
	if newCap < need {
		newCap = need
	}
	grown := make([]byte, len(s), newCap)
	copy(grown, s)
	b.store(grown)
	return true
}

// Writable reports whether the buffer mode permits mutation at all. It does
// not consider reference counts; that policy lives in File.
func (b *Buffer) Writable() bool {
	return b.kind != bufReadOnly
}

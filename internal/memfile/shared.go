package memfile

import "sync"

// shared is the reference-counted handle around a Buffer. The count starts
// at one (held by the File) and grows by one for every outstanding Ref.
// Write and truncate entry points require the count to be exactly one.
type shared struct {
	mu   sync.Mutex
	refs int
	buf  *Buffer
}

func newShared(buf *Buffer) *shared {
	return &shared{refs: 1, buf: buf}
}

// Ref is an extra reference to a file's shared buffer, obtained without
// copying. While a Ref is alive, the file it came from rejects writes and
// truncation with a read-only code.
type Ref struct {
	s        *shared
	released bool
}

// Bytes returns a view of the current contents. The view must be treated as
// read-only; the reference count keeps the owning file from mutating it,
// and the holder of the Ref must do the same.
func (r *Ref) Bytes() []byte {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.buf.Bytes()
}

// Len returns the current length.
func (r *Ref) Len() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.buf.Len()
}

// Release drops the reference. Releasing twice is a no-op; after the last
// extra reference is gone the owning file regains write access.
func (r *Ref) Release() {
	if r.released {
		return
	}
	r.released = true
	r.s.mu.Lock()
	r.s.refs--
	r.s.mu.Unlock()
}

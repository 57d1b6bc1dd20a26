package engine

import (
	"github.com/mesh-intelligence/memdb/internal/memfile"
)

// Snapshot is a reference-counted view of a hooked buffer obtained without
// copying. While it is alive, every write and truncate on the originating
// schema fails with a read-only code. Release it to hand write access back.
type Snapshot struct {
	ref *memfile.Ref
}

// Bytes returns the snapshot contents as a read-only view.
func (s *Snapshot) Bytes() []byte { return s.ref.Bytes() }

// Len returns the snapshot length.
func (s *Snapshot) Len() int { return s.ref.Len() }

// Release drops the reference. Safe to call more than once.
func (s *Snapshot) Release() { s.ref.Release() }

// BorrowingConn ties the lifetime of borrowed buffers to the connection's
// lifetime: attachments made through it reference caller-owned storage, and
// the wrapper keeps that storage pinned until Close detaches every slot.
// The caller must not free, reuse, or (for read-only views) mutate a
// borrowed buffer while the wrapper is open.
type BorrowingConn struct {
	*Conn
	pins []any
}

// IntoBorrowing wraps the connection for borrowed-buffer serialization.
func (c *Conn) IntoBorrowing() *BorrowingConn {
	return &BorrowingConn{Conn: c}
}

// DeserializeReadOnly reopens the schema slot as a read-only in-memory
// database over the caller's view. All writes on the schema fail with a
// read-only code, as does any lock stronger than shared.
func (bc *BorrowingConn) DeserializeReadOnly(schema string, view []byte) error {
	if err := bc.deserializeHook(schema, memfile.NewReadOnly(view)); err != nil {
		return err
	}
	bc.pins = append(bc.pins, view)
	return nil
}

// DeserializeResizable reopens the schema slot as an in-memory database
// borrowing the caller's slice mutably. The slice tracks the file contents
// for the lifetime of the attachment, including the final length when the
// slot is detached or the connection closes.
func (bc *BorrowingConn) DeserializeResizable(schema string, buf *[]byte) error {
	if err := bc.deserializeHook(schema, memfile.NewResizable(buf)); err != nil {
		return err
	}
	bc.pins = append(bc.pins, buf)
	return nil
}

// SerializeShared returns a zero-copy snapshot of the schema's hooked
// buffer, or nil when the slot is not hooked.
func (bc *BorrowingConn) SerializeShared(schema string) (*Snapshot, error) {
	f, err := bc.file(schema)
	if err != nil {
		return nil, err
	}
	hooked, ok := f.(*memfile.File)
	if !ok {
		return nil, nil
	}
	return &Snapshot{ref: hooked.Retain()}, nil
}

// Close detaches every slot, writing final lengths back to borrowed
// buffers, and releases the pins. After Close the caller has sole use of
// its buffers again.
func (bc *BorrowingConn) Close() error {
	err := bc.Conn.Close()
	bc.pins = nil
	return err
}

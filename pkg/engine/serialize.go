package engine

import (
	"fmt"

	"github.com/mesh-intelligence/memdb/internal/memfile"
	"github.com/mesh-intelligence/memdb/pkg/types"
	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

// Serialize produces the schema's database image as a byte slice.
//
// If the slot is hooked, the shared bytes are cloned into a fresh owned
// copy; cloning, not moving, since the shared handle may still be
// referenced elsewhere. Otherwise the image size is pre-queried from the
// header and the backup primitive copies the image in bounded steps into a
// scratch connection whose main slot writes directly into the output.
func (c *Conn) Serialize(schema string) ([]byte, error) {
	f, err := c.file(schema)
	if err != nil {
		return nil, err
	}
	if hooked, ok := f.(*memfile.File); ok {
		return hooked.CloneBytes(), nil
	}

	want, err := c.imageSize(schema)
	if err != nil {
		return nil, fmt.Errorf("serialize %q: %w", schema, err)
	}
	out := make([]byte, 0, want)

	scratch, err := Open(types.Config{VFS: c.cfg.VFS})
	if err != nil {
		return nil, fmt.Errorf("serialize %q: scratch connection: %w", schema, err)
	}
	defer scratch.Close()
	if err := scratch.hookSlot(types.SchemaMain, memfile.NewResizable(&out), want); err != nil {
		return nil, fmt.Errorf("serialize %q: %w", schema, err)
	}

	b, err := NewBackup(scratch, types.SchemaMain, c, schema)
	if err != nil {
		return nil, fmt.Errorf("serialize %q: %w", schema, err)
	}
	step := c.cfg.StepPages
	if step <= 0 {
		step = types.DefaultStepPages
	}
loop:
	for {
		r, err := b.Step(step)
		if err != nil {
			return nil, fmt.Errorf("serialize %q: %w", schema, err)
		}
		switch r {
		case More:
		case Done:
			break loop
		case Busy:
			return nil, types.ErrBackupBusy
		case Locked:
			return nil, types.ErrBackupLocked
		}
	}

	if int64(len(out)) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", types.ErrSizeMismatch, len(out), want)
	}
	return out, nil
}

// Deserialize disconnects the schema slot and reopens it as an in-memory
// database owning data. The slot's previous file is closed exactly once.
func (c *Conn) Deserialize(schema string, data []byte) error {
	return c.deserializeHook(schema, memfile.NewOwned(data))
}

// deserializeHook installs a hooked file wrapping buf at the schema slot.
// A fresh default-driver file confirms the slot is of the hookable kind and
// supplies the size limit the hooked file inherits.
func (c *Conn) deserializeHook(schema string, buf *memfile.Buffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return types.ErrConnClosed
	}

	probe, rc := c.vfs.Open(c.id + "/" + schema)
	if rc != vfs.OK {
		return fmt.Errorf("deserialize %q: %w", schema, rc)
	}
	limit := int64(-1)
	rc = probe.FileControl(vfs.FcntlSizeLimit, &limit)
	probe.Close()
	if rc != vfs.OK {
		return fmt.Errorf("%w: driver %q", types.ErrSlotNotHookable, c.vfs.Name())
	}

	return c.replaceSlot(schema, memfile.New(buf, limit))
}

// hookSlot installs a hooked file with an explicit size limit, bypassing
// the probe. Used for the backup scratch destination.
func (c *Conn) hookSlot(schema string, buf *memfile.Buffer, sizeMax int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return types.ErrConnClosed
	}
	return c.replaceSlot(schema, memfile.New(buf, sizeMax))
}

// Hooked reports whether the schema slot carries a hooked in-memory file
// rather than the default driver's file.
func (c *Conn) Hooked(schema string) (bool, error) {
	var f vfs.File
	if err := c.FileControl(schema, vfs.FcntlFilePointer, &f); err != nil {
		return false, err
	}
	_, ok := f.(*memfile.File)
	return ok, nil
}

package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/memdb/pkg/types"
	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

// Conn is a connection: a set of named schema slots, each backed by a file
// from the configured driver. Execution is synchronous; no method suspends.
type Conn struct {
	mu     sync.Mutex
	id     string
	cfg    types.Config
	vfs    vfs.VFS
	slots  map[string]vfs.File
	closed bool
}

// Open creates a connection with its main schema slot on the configured
// driver.
func Open(cfg types.Config) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := vfs.Find(cfg.VFS)
	if v == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrVFSUnknown, cfg.VFS)
	}
	c := &Conn{
		id:    uuid.NewString(),
		cfg:   cfg,
		vfs:   v,
		slots: make(map[string]vfs.File),
	}
	if err := c.openSlot(types.SchemaMain); err != nil {
		return nil, err
	}
	return c, nil
}

// openSlot opens a fresh driver file for schema. Caller holds no locks or
// the mutex; the map write is safe either way during construction and under
// mu otherwise.
func (c *Conn) openSlot(schema string) error {
	f, rc := c.vfs.Open(c.id + "/" + schema)
	if rc != vfs.OK {
		return fmt.Errorf("open slot %q: %w", schema, rc)
	}
	c.slots[schema] = f
	return nil
}

// Attach creates a new empty schema slot under the given name.
func (c *Conn) Attach(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return types.ErrConnClosed
	}
	if _, ok := c.slots[schema]; ok {
		return fmt.Errorf("%w: %q", types.ErrSchemaExists, schema)
	}
	return c.openSlot(schema)
}

// Detach removes a schema slot, invoking its file's close entry point
// exactly once. The main schema cannot be detached.
func (c *Conn) Detach(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return types.ErrConnClosed
	}
	if schema == types.SchemaMain {
		return types.ErrDetachMain
	}
	f, ok := c.slots[schema]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrSchemaNotFound, schema)
	}
	delete(c.slots, schema)
	return vfs.Errno(f.Close())
}

// Close detaches every slot and marks the connection closed. Idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	var firstErr error
	for name, f := range c.slots {
		if rc := f.Close(); rc != vfs.OK && firstErr == nil {
			firstErr = fmt.Errorf("close slot %q: %w", name, rc)
		}
	}
	c.slots = make(map[string]vfs.File)
	c.closed = true
	return firstErr
}

// Schemas returns the attached schema names, sorted.
func (c *Conn) Schemas() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.slots))
	for name := range c.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the current length of the schema's file.
func (c *Conn) Size(schema string) (int64, error) {
	f, err := c.file(schema)
	if err != nil {
		return 0, err
	}
	size, rc := f.FileSize()
	return size, vfs.Errno(rc)
}

// FileControl performs a file-control operation on the schema's file. The
// FcntlFilePointer opcode is handled here, not by the file: it reveals the
// underlying vfs.File of the slot, which is how callers discover whether a
// slot is already hooked or still on the default driver.
func (c *Conn) FileControl(schema string, op vfs.Fcntl, arg any) error {
	f, err := c.file(schema)
	if err != nil {
		return err
	}
	if op == vfs.FcntlFilePointer {
		p, ok := arg.(*vfs.File)
		if !ok {
			return vfs.Error
		}
		*p = f
		return nil
	}
	return vfs.Errno(f.FileControl(op, arg))
}

// file returns the slot file for schema.
func (c *Conn) file(schema string) (vfs.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrConnClosed
	}
	f, ok := c.slots[schema]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrSchemaNotFound, schema)
	}
	return f, nil
}

// replaceSlot swaps the slot's file for repl, closing the old file exactly
// once. Caller must hold c.mu.
func (c *Conn) replaceSlot(schema string, repl vfs.File) error {
	old, ok := c.slots[schema]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrSchemaNotFound, schema)
	}
	if rc := old.Close(); rc != vfs.OK {
		return fmt.Errorf("close slot %q: %w", schema, rc)
	}
	c.slots[schema] = repl
	return nil
}

package engine

import (
	"fmt"

	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

// StepResult is the outcome of one backup step.
type StepResult int

const (
	// More means pages remain; call Step again.
	More StepResult = iota
	// Done means the destination holds a complete copy.
	Done
	// Busy and Locked report source contention for this step. Both are
	// retryable; they become errors only if the caller gives up.
	Busy
	Locked
)

func (r StepResult) String() string {
	switch r {
	case More:
		return "more"
	case Done:
		return "done"
	case Busy:
		return "busy"
	case Locked:
		return "locked"
	}
	return fmt.Sprintf("stepresult(%d)", int(r))
}

// Backup copies a source schema's image page by page into a destination
// schema. It is the fallback path for serialization when no hooked buffer
// is available to clone directly.
type Backup struct {
	src, dst  vfs.File
	pagesDone int64
}

// NewBackup prepares a backup from src's schema into dst's schema. The
// destination slot should be empty; it is overwritten from offset zero.
func NewBackup(dst *Conn, dstSchema string, src *Conn, srcSchema string) (*Backup, error) {
	srcFile, err := src.file(srcSchema)
	if err != nil {
		return nil, fmt.Errorf("backup source: %w", err)
	}
	dstFile, err := dst.file(dstSchema)
	if err != nil {
		return nil, fmt.Errorf("backup destination: %w", err)
	}
	return &Backup{src: srcFile, dst: dstFile}, nil
}

// Step copies up to nPages pages and reports progress. The source geometry
// is re-read every step under a shared lock, since the source may change
// between steps.
func (b *Backup) Step(nPages int) (StepResult, error) {
	switch rc := b.src.Lock(vfs.LockShared); rc {
	case vfs.OK:
	case vfs.Busy:
		return Busy, nil
	case vfs.Locked:
		return Locked, nil
	default:
		return More, fmt.Errorf("lock source: %w", rc)
	}
	defer b.src.Unlock(vfs.LockNone)

	size, rc := b.src.FileSize()
	if rc != vfs.OK {
		return More, fmt.Errorf("source size: %w", rc)
	}
	if size == 0 {
		if rc := b.dst.Truncate(0); rc != vfs.OK {
			return More, fmt.Errorf("truncate destination: %w", rc)
		}
		return Done, nil
	}

	pgsz, err := pageSizeOf(b.src)
	if err != nil {
		return More, fmt.Errorf("source page size: %w", err)
	}
	pages := (size + int64(pgsz) - 1) / int64(pgsz)

	page := make([]byte, pgsz)
	for i := 0; i < nPages && b.pagesDone < pages; i++ {
		off := b.pagesDone * int64(pgsz)
		n := int64(pgsz)
		if off+n > size {
			n = size - off
		}
		if rc := b.src.ReadAt(page[:n], off); rc != vfs.OK {
			return More, fmt.Errorf("read page %d: %w", b.pagesDone, rc)
		}
		if rc := b.dst.WriteAt(page[:n], off); rc != vfs.OK {
			return More, fmt.Errorf("write page %d: %w", b.pagesDone, rc)
		}
		b.pagesDone++
	}

	if b.pagesDone >= pages {
		// The source may have shrunk since an earlier step.
		if dstSize, rc := b.dst.FileSize(); rc == vfs.OK && dstSize > size {
			if rc := b.dst.Truncate(size); rc != vfs.OK {
				return More, fmt.Errorf("truncate destination: %w", rc)
			}
		}
		return Done, nil
	}
	return More, nil
}

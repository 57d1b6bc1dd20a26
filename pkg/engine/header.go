package engine

import (
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/memdb/pkg/types"
	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

// Database image header geometry. The first 100 bytes of an image carry the
// magic string, the page size at offset 16 (big-endian, where the value 1
// encodes 65536), and the page count at offset 28.
const (
	headerSize      = 100
	headerMagic     = "SQLite format 3\x00"
	offsetPageSize  = 16
	offsetPageCount = 28
)

// readHeader returns the first 100 bytes of the schema's file, or nil for
// an empty file.
func readHeader(f vfs.File) ([]byte, error) {
	size, rc := f.FileSize()
	if rc != vfs.OK {
		return nil, rc
	}
	if size == 0 {
		return nil, nil
	}
	if size < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", types.ErrBadImage, size)
	}
	hdr := make([]byte, headerSize)
	if rc := f.ReadAt(hdr, 0); rc != vfs.OK {
		return nil, rc
	}
	if string(hdr[:len(headerMagic)]) != headerMagic {
		return nil, fmt.Errorf("%w: bad magic", types.ErrBadImage)
	}
	return hdr, nil
}

// PageSize returns the page size of the schema's image, or 0 for an empty
// slot. This is the introspection the serialization fallback pre-sizes its
// output with.
func (c *Conn) PageSize(schema string) (int, error) {
	f, err := c.file(schema)
	if err != nil {
		return 0, err
	}
	return pageSizeOf(f)
}

func pageSizeOf(f vfs.File) (int, error) {
	hdr, err := readHeader(f)
	if err != nil || hdr == nil {
		return 0, err
	}
	raw := binary.BigEndian.Uint16(hdr[offsetPageSize:])
	if raw == 1 {
		return 65536, nil
	}
	return int(raw), nil
}

// PageCount returns the number of pages in the schema's image, or 0 for an
// empty slot.
func (c *Conn) PageCount(schema string) (int64, error) {
	f, err := c.file(schema)
	if err != nil {
		return 0, err
	}
	return pageCountOf(f)
}

func pageCountOf(f vfs.File) (int64, error) {
	hdr, err := readHeader(f)
	if err != nil || hdr == nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint32(hdr[offsetPageCount:])), nil
}

// imageSize returns page count times page size for the schema's image.
func (c *Conn) imageSize(schema string) (int64, error) {
	f, err := c.file(schema)
	if err != nil {
		return 0, err
	}
	pgsz, err := pageSizeOf(f)
	if err != nil {
		return 0, err
	}
	count, err := pageCountOf(f)
	if err != nil {
		return 0, err
	}
	return count * int64(pgsz), nil
}

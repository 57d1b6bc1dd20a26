package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// xzMagic is the xz container header.
var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// readImage loads a database image from path, transparently decompressing
// xz-compressed files.
func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, xzMagic) {
		return data, nil
	}
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress image: %w", err)
	}
	return out, nil
}

// writeImage stores a database image at path, optionally xz-compressed.
func writeImage(path string, data []byte, compress bool) error {
	if !compress {
		return os.WriteFile(path, data, 0o644)
	}
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("open xz stream: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("compress image: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flush xz stream: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memdb/internal/paths"
)

// testImage builds a minimal database image: a valid 100-byte header
// followed by page payloads.
func testImage(t *testing.T, pages, pageSize int) []byte {
	t.Helper()
	img := make([]byte, pages*pageSize)
	copy(img, "SQLite format 3\x00")
	binary.BigEndian.PutUint16(img[16:], uint16(pageSize))
	binary.BigEndian.PutUint32(img[28:], uint32(pages))
	for i := 100; i < len(img); i++ {
		img[i] = byte(i % 251)
	}
	return img
}

// runCmd executes the root command with args and returns captured stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func setupConfigDir(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
}

func TestVersionCmd(t *testing.T) {
	out := runCmd(t, "version")
	assert.Contains(t, out, "memdbctl v")
	assert.Contains(t, out, modulePath)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)

	out := runCmd(t, "init")
	assert.Contains(t, out, "initialized successfully")

	// A default config.yaml is written on first run.
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "step_pages")
}

func TestInspectCmd(t *testing.T) {
	setupConfigDir(t)
	img := testImage(t, 3, 512)
	path := filepath.Join(t.TempDir(), "db.img")
	require.NoError(t, os.WriteFile(path, img, 0o644))

	out := runCmd(t, "inspect", path)
	assert.Contains(t, out, "page size:  512")
	assert.Contains(t, out, "page count: 3")
	assert.Contains(t, out, "blake3:")
}

func TestInspectCmdJSON(t *testing.T) {
	setupConfigDir(t)
	img := testImage(t, 2, 512)
	path := filepath.Join(t.TempDir(), "db.img")
	require.NoError(t, os.WriteFile(path, img, 0o644))

	out := runCmd(t, "--json", "inspect", path)

	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, path, report.Path)
	assert.Equal(t, int64(len(img)), report.Size)
	assert.Equal(t, 512, report.PageSize)
	assert.Equal(t, int64(2), report.PageCount)
	assert.Len(t, report.Digest, 64)
}

func TestInspectCmdBadImage(t *testing.T) {
	setupConfigDir(t)
	path := filepath.Join(t.TempDir(), "junk.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o644))

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"inspect", path})
	assert.Error(t, root.Execute())
}

func TestCloneCmd(t *testing.T) {
	setupConfigDir(t)
	img := testImage(t, 4, 512)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.img")
	dst := filepath.Join(dir, "dst.img")
	require.NoError(t, os.WriteFile(src, img, 0o644))

	out := runCmd(t, "clone", src, dst)
	assert.Contains(t, out, "cloned")

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, img, got, "clone output must be byte-identical")
}

func TestCloneCmdCompressed(t *testing.T) {
	setupConfigDir(t)
	img := testImage(t, 4, 512)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.img")
	dst := filepath.Join(dir, "dst.img.xz")
	require.NoError(t, os.WriteFile(src, img, 0o644))

	runCmd(t, "clone", "--compress", src, dst)

	compressed, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(compressed, xzMagic))

	// The compressed output is readable back through the same path.
	round := filepath.Join(dir, "round.img")
	runCmd(t, "clone", dst, round)
	got, err := os.ReadFile(round)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestImageRoundTrip(t *testing.T) {
	img := testImage(t, 2, 512)
	path := filepath.Join(t.TempDir(), "img.xz")

	require.NoError(t, writeImage(path, img, true))
	got, err := readImage(path)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memdb/pkg/types"
	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

func readAll(t *testing.T, c *Conn, schema string) []byte {
	t.Helper()
	size, err := c.Size(schema)
	require.NoError(t, err)
	out := make([]byte, size)
	if size > 0 {
		require.Equal(t, vfs.OK, slotFile(t, c, schema).ReadAt(out, 0))
	}
	return out
}

func TestBackupCopiesImage(t *testing.T) {
	img := makeImage(t, 5, 512)
	src := mustOpen(t)
	loadImage(t, src, types.SchemaMain, img)
	dst := mustOpen(t)

	b, err := NewBackup(dst, types.SchemaMain, src, types.SchemaMain)
	require.NoError(t, err)

	// Two pages per step forces several More results before Done.
	steps := 0
	for {
		r, err := b.Step(2)
		require.NoError(t, err)
		steps++
		if r == Done {
			break
		}
		require.Equal(t, More, r)
	}
	assert.Equal(t, 3, steps)
	assert.Equal(t, img, readAll(t, dst, types.SchemaMain))
}

func TestBackupEmptySource(t *testing.T) {
	src := mustOpen(t)
	dst := mustOpen(t)

	b, err := NewBackup(dst, types.SchemaMain, src, types.SchemaMain)
	require.NoError(t, err)

	r, err := b.Step(10)
	require.NoError(t, err)
	assert.Equal(t, Done, r)
	assert.Empty(t, readAll(t, dst, types.SchemaMain))
}

func TestBackupUnknownSchemas(t *testing.T) {
	src := mustOpen(t)
	dst := mustOpen(t)

	_, err := NewBackup(dst, types.SchemaMain, src, "nope")
	assert.ErrorIs(t, err, types.ErrSchemaNotFound)

	_, err = NewBackup(dst, "nope", src, types.SchemaMain)
	assert.ErrorIs(t, err, types.ErrSchemaNotFound)
}

func TestStepResultString(t *testing.T) {
	assert.Equal(t, "more", More.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "busy", Busy.String())
	assert.Equal(t, "locked", Locked.String())
}

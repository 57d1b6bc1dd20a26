package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memdb/pkg/types"
	"github.com/mesh-intelligence/memdb/pkg/vfs"
)

func TestSerializeSharedExclusivity(t *testing.T) {
	img := makeImage(t, 2, 512)
	bc := mustOpen(t).IntoBorrowing()
	require.NoError(t, bc.Deserialize(types.SchemaMain, img))

	snap, err := bc.SerializeShared(types.SchemaMain)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, len(img), snap.Len())

	f := slotFile(t, bc.Conn, types.SchemaMain)
	assert.Equal(t, vfs.ReadOnly, f.WriteAt([]byte{1}, 0),
		"writes must fail while the snapshot is alive")

	snap.Release()
	assert.Equal(t, vfs.OK, f.WriteAt([]byte{1}, 0),
		"writes succeed once the snapshot is dropped")
}

func TestSerializeSharedNotHooked(t *testing.T) {
	bc := mustOpen(t).IntoBorrowing()

	snap, err := bc.SerializeShared(types.SchemaMain)
	require.NoError(t, err)
	assert.Nil(t, snap, "a slot on the default driver has no shared buffer")

	_, err = bc.SerializeShared("nope")
	assert.ErrorIs(t, err, types.ErrSchemaNotFound)
}

func TestDeserializeReadOnlyPolicy(t *testing.T) {
	img := makeImage(t, 2, 512)
	bc := mustOpen(t).IntoBorrowing()
	require.NoError(t, bc.DeserializeReadOnly(types.SchemaMain, img))

	f := slotFile(t, bc.Conn, types.SchemaMain)
	assert.Equal(t, vfs.ReadOnly, f.WriteAt([]byte{1}, 0))
	assert.Equal(t, vfs.ReadOnly, f.Truncate(0))
	assert.Equal(t, vfs.ReadOnly, f.Lock(vfs.LockReserved))
	assert.Equal(t, vfs.OK, f.Lock(vfs.LockShared))

	out, err := bc.Serialize(types.SchemaMain)
	require.NoError(t, err)
	assert.Equal(t, img, out, "read-only attachments still serialize by clone")
}

func TestDeserializeResizableWriteback(t *testing.T) {
	img := makeImage(t, 2, 512)
	buf := append([]byte(nil), img...)

	bc := mustOpen(t).IntoBorrowing()
	require.NoError(t, bc.DeserializeResizable(types.SchemaMain, &buf))

	// Grow the file past the original capacity.
	f := slotFile(t, bc.Conn, types.SchemaMain)
	payload := []byte{1, 2, 3, 4}
	require.Equal(t, vfs.OK, f.WriteAt(payload, int64(len(img))))

	require.Len(t, buf, len(img)+len(payload), "caller slice tracks growth immediately")
	assert.Equal(t, payload, buf[len(img):])

	require.NoError(t, bc.Close())
	assert.Equal(t, img, buf[:len(img)], "original bytes intact after close")
	assert.Equal(t, payload, buf[len(img):], "final contents written back")
}

func TestDeserializeResizableDetach(t *testing.T) {
	img := makeImage(t, 2, 512)
	buf := append([]byte(nil), img...)

	bc := mustOpen(t).IntoBorrowing()
	require.NoError(t, bc.Attach("d"))
	require.NoError(t, bc.DeserializeResizable("d", &buf))
	require.NoError(t, bc.Detach("d"))

	assert.Equal(t, img, buf, "detach leaves the borrowed buffer intact")
}

func TestBorrowedRoundTripThroughSnapshot(t *testing.T) {
	img := makeImage(t, 3, 512)

	bc := mustOpen(t).IntoBorrowing()
	require.NoError(t, bc.Deserialize(types.SchemaMain, img))

	snap, err := bc.SerializeShared(types.SchemaMain)
	require.NoError(t, err)
	require.NotNil(t, snap)

	// A second connection can mount the snapshot read-only without any copy.
	other := mustOpen(t).IntoBorrowing()
	require.NoError(t, other.DeserializeReadOnly(types.SchemaMain, snap.Bytes()))
	out, err := other.Serialize(types.SchemaMain)
	require.NoError(t, err)
	assert.Equal(t, img, out)

	require.NoError(t, other.Close())
	snap.Release()
}

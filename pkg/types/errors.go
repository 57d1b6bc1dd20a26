package types

import "errors"

// Connection and serialization errors.
var (
	// ErrConnClosed is returned by operations on a closed connection.
	ErrConnClosed = errors.New("connection is closed")

	// ErrSchemaNotFound is returned when a schema name resolves to no slot.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrSchemaExists is returned by Attach for a name already in use.
	ErrSchemaExists = errors.New("schema already attached")

	// ErrDetachMain is returned by Detach on the main schema.
	ErrDetachMain = errors.New("cannot detach main schema")

	// ErrSlotNotHookable is returned by the deserialize family when the
	// schema slot is not on a driver whose files can be replaced.
	ErrSlotNotHookable = errors.New("schema slot is not hookable")

	// ErrBackupBusy and ErrBackupLocked surface backup contention that
	// persisted until the backup gave up. Callers may retry.
	ErrBackupBusy   = errors.New("backup source is busy")
	ErrBackupLocked = errors.New("backup source is locked")

	// ErrSizeMismatch is returned when the backup fallback produces an
	// image whose length differs from the pre-queried database size.
	ErrSizeMismatch = errors.New("serialized size does not match database size")

	// ErrBadImage is returned when a database image is too short or has a
	// malformed header where one is required.
	ErrBadImage = errors.New("malformed database image")
)

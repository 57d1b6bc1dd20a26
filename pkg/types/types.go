// Package types defines the connection configuration, schema naming, and
// standard error values shared across the memdb packages.
package types

import "errors"

// SchemaMain is the schema slot every connection opens on creation.
// Additional slots are created with Conn.Attach under caller-chosen names.
const SchemaMain = "main"

// DefaultStepPages is how many pages one backup step copies when the
// configuration does not say otherwise.
const DefaultStepPages = 100

// Config holds parameters for opening a connection.
type Config struct {
	// VFS selects the storage driver by registered name. Empty selects the
	// built-in in-memory driver.
	VFS string `json:"vfs" yaml:"vfs"`

	// StepPages is the page batch size the serialization fallback uses when
	// driving the backup primitive. Zero means DefaultStepPages.
	StepPages int `json:"step_pages" yaml:"step_pages"`
}

// Config validation errors.
var (
	ErrVFSUnknown       = errors.New("unknown vfs driver")
	ErrStepPagesInvalid = errors.New("step pages must not be negative")
)

// Validate checks that the Config is well-formed. Driver existence is
// checked at Open, not here, since registration may happen later.
func (c Config) Validate() error {
	if c.StepPages < 0 {
		return ErrStepPagesInvalid
	}
	return nil
}

package fortfile

import (
	"github.com/ssargent/fortrec/pkg/dtype"
)

// Mode selects the direction of an open file. Reading and writing are
// never mixed on one handle, matching the sequential-file convention.
type Mode int

const (
	// Read opens an existing file for sequential record reads
	Read Mode = iota
	// Write creates or truncates a file for sequential record writes
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "invalid"
	}
}

// Options holds the per-handle configuration. MarkerWidth and Order are
// fixed for the lifetime of the handle; they must match the convention
// the file was produced under.
type Options struct {
	Mode        Mode
	MarkerWidth int         // 4 or 8; 0 means 4
	Order       dtype.Order // byte order for markers and elements
	BufferSize  int         // I/O buffer size; 0 means 64KB
}

// Errors
var (
	ErrInvalidMode    = &FileError{"invalid open mode"}
	ErrMode           = &FileError{"operation not valid for this open mode"}
	ErrClosed         = &FileError{"file is closed"}
	ErrLengthMismatch = &FileError{"values and type specs differ in length"}
)

// FileError represents a record file handle error
type FileError struct {
	Message string
}

func (e *FileError) Error() string {
	return e.Message
}

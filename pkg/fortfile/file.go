// Package fortfile provides the file handle for Fortran-style unformatted
// sequential record files and the public read and write operations over
// them.
package fortfile

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/layout"
)

const defaultBufferSize = 64 * 1024

// File is an open record file. A handle is either a reader or a writer,
// never both. The codec keeps no state across records; the handle owns
// only the stream position. Concurrent use of one handle must be
// serialized by the caller; the internal mutex protects the buffered
// writer, not the caller's record ordering.
type File struct {
	path   string
	opts   Options
	file   *os.File
	reader *bufio.Reader
	writer *bufio.Writer
	framer codec.Framer
	offset int64
	mutex  sync.Mutex
	closed bool
}

// Open opens path for sequential record access. Missing files,
// permission problems and invalid modes fail immediately; nothing is
// deferred to the first read or write.
func Open(path string, opts Options) (*File, error) {
	framer, err := codec.NewFramer(opts.MarkerWidth, opts.Order)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = defaultBufferSize
	}

	f := &File{path: path, opts: opts, framer: framer}
	switch opts.Mode {
	case Read:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		f.file = file
		f.reader = bufio.NewReaderSize(file, opts.BufferSize)
	case Write:
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		f.file = file
		f.writer = bufio.NewWriterSize(file, opts.BufferSize)
	default:
		return nil, fmt.Errorf("open %s: %w: %d", path, ErrInvalidMode, opts.Mode)
	}

	return f, nil
}

// With opens path, runs fn on the handle and closes it on every exit
// path, flushing buffered marker and body bytes first. The scoped form is
// the recommended way to consume or produce whole files.
func With(path string, opts Options, fn func(*File) error) error {
	f, err := Open(path, opts)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Path returns the file path the handle was opened with
func (f *File) Path() string {
	return f.path
}

// applyOrder threads the handle's byte order into a descriptor that does
// not carry a per-spec override. A descriptor resolved with an explicit
// non-native order keeps it, for the rare mixed-endianness record.
func (f *File) applyOrder(d dtype.Descriptor) dtype.Descriptor {
	if d.Order == dtype.Native {
		return d.WithOrder(f.opts.Order)
	}
	return d
}

func (f *File) applyOrderAll(descs []dtype.Descriptor) []dtype.Descriptor {
	out := make([]dtype.Descriptor, len(descs))
	for i, d := range descs {
		out[i] = f.applyOrder(d)
	}
	return out
}

func (f *File) applyOrderFields(fields []layout.StructField) []layout.StructField {
	out := make([]layout.StructField, len(fields))
	for i, fld := range fields {
		fld.Desc = f.applyOrder(fld.Desc)
		out[i] = fld
	}
	return out
}

// MarkerWidth returns the marker width the handle was opened with
func (f *File) MarkerWidth() int {
	return f.framer.MarkerWidth()
}

// Tell returns the current byte position in the underlying file,
// accounting for buffered data.
func (f *File) Tell() int64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.offset
}

// Sync flushes buffered writes and fsyncs the file
func (f *File) Sync() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.closed {
		return ErrClosed
	}
	if f.writer == nil {
		return nil
	}
	return f.sync()
}

func (f *File) sync() error {
	if err := f.writer.Flush(); err != nil {
		return err
	}
	return f.file.Sync()
}

// Close flushes any buffered record bytes and releases the handle. It is
// idempotent; closing a closed handle is a no-op.
func (f *File) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if f.writer != nil {
		if err := f.writer.Flush(); err != nil {
			_ = f.file.Close()
			return err
		}
	}
	return f.file.Close()
}

// Package index maintains a persistent record offset index for
// unformatted sequential files. Sequential files offer no random access;
// the index scans a file once and stores each record's byte offset and
// body length so tools can seek straight to a record ordinal.
package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/fortfile"
)

const (
	recPrefix = "rec/"
	metaKey   = "meta"
)

// Entry locates one record in the source file
type Entry struct {
	Offset int64 // byte position of the leading marker
	Length int64 // body length in bytes, framing excluded
}

// Meta describes one completed index build
type Meta struct {
	BuildID     string `json:"build_id"`
	Source      string `json:"source"`
	MarkerWidth int    `json:"marker_width"`
	ByteOrder   string `json:"byte_order"`
	Records     int64  `json:"records"`
}

// Index is a pebble-backed offset index for one record file
type Index struct {
	db *pebble.DB
}

// Open opens (or creates) an index store at path
func Open(path string) (*Index, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Index{db: db}, nil
}

// Close releases the underlying store
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Build scans the record file at source and replaces the index contents
// with one entry per record. Scanning stops at the clean end-of-file
// sentinel; framing errors abort the build and leave no partial meta.
func (ix *Index) Build(source string, opts fortfile.Options) (Meta, error) {
	opts.Mode = fortfile.Read

	meta := Meta{
		BuildID:     ksuid.New().String(),
		Source:      source,
		MarkerWidth: opts.MarkerWidth,
		ByteOrder:   opts.Order.String(),
	}
	if meta.MarkerWidth == 0 {
		meta.MarkerWidth = codec.DefaultMarkerWidth
	}

	err := fortfile.With(source, opts, func(f *fortfile.File) error {
		batch := ix.db.NewBatch()
		defer batch.Close()

		// Drop the previous build's entries so a rebuild over a shorter
		// file leaves no stale ordinals behind.
		if err := batch.DeleteRange([]byte(recPrefix), recKeyspaceEnd(), nil); err != nil {
			return err
		}

		for {
			offset := f.Tell()
			v, err := f.ReadRecord()
			if errors.Is(err, codec.ErrEndOfFile) {
				break
			}
			if err != nil {
				return err
			}

			entry := Entry{Offset: offset, Length: v.Nbytes()}
			if err := batch.Set(recKey(meta.Records), entry.encode(), nil); err != nil {
				return err
			}
			meta.Records++
		}

		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := batch.Set([]byte(metaKey), raw, nil); err != nil {
			return err
		}
		return batch.Commit(pebble.Sync)
	})
	if err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// Lookup returns the entry for record ordinal n
func (ix *Index) Lookup(n int64) (Entry, error) {
	raw, closer, err := ix.db.Get(recKey(n))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Entry{}, fmt.Errorf("%w: record %d", ErrNotIndexed, n)
		}
		return Entry{}, err
	}
	defer closer.Close()

	if len(raw) != 16 {
		return Entry{}, fmt.Errorf("%w: entry is %d bytes", ErrNotIndexed, len(raw))
	}
	return Entry{
		Offset: int64(binary.BigEndian.Uint64(raw[:8])),
		Length: int64(binary.BigEndian.Uint64(raw[8:])),
	}, nil
}

// Meta returns the metadata of the last completed build
func (ix *Index) Meta() (Meta, error) {
	raw, closer, err := ix.db.Get([]byte(metaKey))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Meta{}, fmt.Errorf("%w: no build metadata", ErrNotIndexed)
		}
		return Meta{}, err
	}
	defer closer.Close()

	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// Options reconstructs the read options the index was built with
func (m Meta) Options() fortfile.Options {
	order := dtype.Native
	switch m.ByteOrder {
	case "little":
		order = dtype.Little
	case "big":
		order = dtype.Big
	}
	return fortfile.Options{Mode: fortfile.Read, MarkerWidth: m.MarkerWidth, Order: order}
}

// recKeyspaceEnd returns the exclusive upper bound of the rec/ keyspace
func recKeyspaceEnd() []byte {
	end := []byte(recPrefix)
	end[len(end)-1]++
	return end
}

// recKey encodes an ordinal big-endian so entries sort in record order
func recKey(n int64) []byte {
	key := make([]byte, len(recPrefix)+8)
	copy(key, recPrefix)
	binary.BigEndian.PutUint64(key[len(recPrefix):], uint64(n))
	return key
}

func (e Entry) encode() []byte {
	raw := make([]byte, 16)
	binary.BigEndian.PutUint64(raw[:8], uint64(e.Offset))
	binary.BigEndian.PutUint64(raw[8:], uint64(e.Length))
	return raw
}

// Errors
var (
	ErrNotIndexed = &IndexError{"record not in index"}
)

// IndexError represents an offset index error
type IndexError struct {
	Message string
}

func (e *IndexError) Error() string {
	return e.Message
}

// Package codec implements the record codec for Fortran-style unformatted
// sequential files: record framing, value packing and unpacking.
//
// # Record Format
//
// Every record is framed by two identical byte-count markers:
//
//	[marker: 4 or 8 bytes, signed][body: marker bytes][marker: 4 or 8 bytes]
//
// The marker encodes the body length as a signed integer in the configured
// byte order. The producing runtime writes the length twice; the trailing
// copy is the convention's built-in self-check, and a mismatch is reported
// as ErrRecordFraming rather than trusted.
//
// # Body Layout
//
// Record bodies are packed with no padding between fields. The layout
// package computes the offset table; Pack and Unpack serialize values at
// those offsets using each field's element descriptor (kind, byte width,
// byte order).
//
// # Result Shape
//
// Unpack returns a Value, a closed scalar-or-collection variant. A record
// of exactly one element collapses to a bare scalar; a single-field record
// of several elements becomes an Array; multi-field and named layouts
// become a StructArray.
//
// # Error Handling
//
// ErrEndOfFile signals a clean end of stream at a record boundary and is
// the one condition callers handle routinely. ErrMalformedRecord,
// ErrRecordFraming and ErrTypeMismatch indicate corruption, a wrong
// marker-width or byte-order assumption, or a value outside its element
// range; none of them are retried or downgraded internally.
package codec

package codec

import (
	"fmt"
	"io"
	"math"

	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/layout"
)

// Framer reads and writes the length-delimited record boundary. It keeps
// no state beyond its configuration; every call is a complete protocol
// exchange over the supplied stream.
type Framer struct {
	markerWidth int
	order       dtype.Order
}

// NewFramer creates a framer for the given marker width (4 or 8 bytes)
// and byte order.
func NewFramer(markerWidth int, order dtype.Order) (Framer, error) {
	switch markerWidth {
	case 0:
		markerWidth = DefaultMarkerWidth
	case 4, 8:
	default:
		return Framer{}, fmt.Errorf("%w: marker width %d, want 4 or 8", ErrMalformedRecord, markerWidth)
	}
	return Framer{markerWidth: markerWidth, order: order}, nil
}

// DefaultMarkerWidth is the conventional 4-byte record marker
const DefaultMarkerWidth = 4

// MarkerWidth returns the configured marker width in bytes
func (f Framer) MarkerWidth() int {
	return f.markerWidth
}

// MarkerMax returns the largest body length the marker can represent
func (f Framer) MarkerMax() int64 {
	if f.markerWidth == 8 {
		return math.MaxInt64
	}
	return math.MaxInt32
}

// Overhead returns the framing bytes added per record
func (f Framer) Overhead() int64 {
	return 2 * int64(f.markerWidth)
}

// WriteRecord frames body and writes it to w: a leading marker encoding
// len(body), the body verbatim, and the identical trailing marker.
func (f Framer) WriteRecord(w io.Writer, body []byte) error {
	n := int64(len(body))
	if n > f.MarkerMax() {
		return fmt.Errorf("%w: body is %d bytes, marker limit is %d", layout.ErrRecordTooLarge, n, f.MarkerMax())
	}

	marker := make([]byte, f.markerWidth)
	putUint(marker, uint64(n), f.markerWidth, f.order)

	if _, err := w.Write(marker); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if _, err := w.Write(marker); err != nil {
		return err
	}
	return nil
}

// ReadRecord reads one framed record from r and returns its body. A clean
// end of stream at the leading-marker position yields ErrEndOfFile; a
// negative or truncated record yields ErrMalformedRecord; a trailing
// marker that does not match the leading one yields ErrRecordFraming. The
// double marker is the convention's built-in self-check, so a mismatch is
// a hard error rather than a value to trust.
func (f Framer) ReadRecord(r io.Reader) ([]byte, error) {
	head, err := f.readMarker(r, true)
	if err != nil {
		return nil, err
	}
	if head < 0 {
		return nil, fmt.Errorf("%w: negative record length %d", ErrMalformedRecord, head)
	}

	body := make([]byte, head)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated body, wanted %d bytes", ErrMalformedRecord, head)
		}
		return nil, err
	}

	tail, err := f.readMarker(r, false)
	if err != nil {
		return nil, err
	}
	if tail != head {
		return nil, fmt.Errorf("%w: leading marker %d, trailing marker %d", ErrRecordFraming, head, tail)
	}

	return body, nil
}

// readMarker reads one marker. atBoundary distinguishes the clean
// end-of-stream sentinel from a truncated record: zero bytes where a
// leading marker belongs is normal EOF, anywhere else it is corruption.
func (f Framer) readMarker(r io.Reader, atBoundary bool) (int64, error) {
	buf := make([]byte, f.markerWidth)
	if _, err := io.ReadFull(r, buf); err != nil {
		switch {
		case err == io.EOF && atBoundary:
			return 0, ErrEndOfFile
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			return 0, fmt.Errorf("%w: truncated record marker", ErrMalformedRecord)
		default:
			return 0, err
		}
	}
	return getInt(buf, f.markerWidth, f.order), nil
}

// Errors
var (
	// ErrEndOfFile is the clean end-of-stream sentinel: zero bytes were
	// available where a leading marker was expected. Callers use it for
	// loop termination; it is not a corruption condition.
	ErrEndOfFile = &CodecError{"end of file"}

	// ErrMalformedRecord marks an impossible leading marker or a record
	// truncated mid-body or mid-marker.
	ErrMalformedRecord = &CodecError{"malformed record"}

	// ErrRecordFraming marks a trailing marker that disagrees with the
	// leading one: corruption, or the wrong marker width or byte order
	// was assumed for the file.
	ErrRecordFraming = &CodecError{"record framing mismatch"}

	// ErrTypeMismatch marks a value outside its descriptor's
	// representable range during packing.
	ErrTypeMismatch = &CodecError{"value does not fit element type"}
)

// CodecError represents a record codec error
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}

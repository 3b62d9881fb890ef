package fortfile

import (
	"fmt"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/layout"
)

// rawByte is the element type records are read with when no spec is given
var rawByte = dtype.Descriptor{Kind: dtype.Uint, Width: 1}

// ReadRecord reads the next record and interprets its body with the given
// type specs. No spec reads raw 1-byte elements; one spec reads a
// homogeneous record whose element count is derived from the body length;
// two or more specs read a heterogeneous record of one value each. The
// result follows the collapsing rule: one element of one field comes back
// as a bare scalar, everything else as a collection. codec.ErrEndOfFile
// signals a clean end of stream and terminates read loops.
func (f *File) ReadRecord(specs ...dtype.Spec) (codec.Value, error) {
	body, err := f.readBody()
	if err != nil {
		return codec.Value{}, err
	}

	var plan layout.Plan
	switch len(specs) {
	case 0:
		plan, err = homogeneousFor(rawByte, len(body))
	case 1:
		var desc dtype.Descriptor
		desc, err = dtype.Resolve(specs[0])
		if err == nil {
			plan, err = homogeneousFor(f.applyOrder(desc), len(body))
		}
	default:
		var descs []dtype.Descriptor
		descs, err = dtype.ResolveAll(specs)
		if err == nil {
			plan, err = layout.Heterogeneous(f.applyOrderAll(descs))
		}
	}
	if err != nil {
		return codec.Value{}, err
	}

	return codec.Unpack(body, plan)
}

// ReadStruct reads the next record as an array of named multi-field
// elements. The repetition count is derived from the body length; a body
// that is not a whole number of elements fails with ErrMalformedRecord.
func (f *File) ReadStruct(fields []layout.StructField) (codec.Value, error) {
	body, err := f.readBody()
	if err != nil {
		return codec.Value{}, err
	}

	fields = f.applyOrderFields(fields)
	one, err := layout.Structured(fields, 1)
	if err != nil {
		return codec.Value{}, err
	}
	if one.ElemSize == 0 || int64(len(body))%one.ElemSize != 0 {
		return codec.Value{}, fmt.Errorf("%w: %d-byte body is not a whole number of %d-byte elements",
			codec.ErrMalformedRecord, len(body), one.ElemSize)
	}

	plan, err := layout.Structured(fields, int(int64(len(body))/one.ElemSize))
	if err != nil {
		return codec.Value{}, err
	}
	return codec.Unpack(body, plan)
}

// readBody reads one framed record body and advances the position
func (f *File) readBody() ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if f.reader == nil {
		return nil, fmt.Errorf("%w: not open for reading", ErrMode)
	}

	body, err := f.framer.ReadRecord(f.reader)
	if err != nil {
		return nil, err
	}
	f.offset += f.framer.Overhead() + int64(len(body))
	return body, nil
}

// homogeneousFor derives the element count of a homogeneous record from
// its body length. Bodies that are not a whole number of elements are
// rejected.
func homogeneousFor(desc dtype.Descriptor, bodyLen int) (layout.Plan, error) {
	if desc.Width <= 0 {
		return layout.Plan{}, fmt.Errorf("%w: non-positive width %d", dtype.ErrUnresolvedType, desc.Width)
	}
	if bodyLen%desc.Width != 0 {
		return layout.Plan{}, fmt.Errorf("%w: %d-byte body is not a whole number of %s elements",
			codec.ErrMalformedRecord, bodyLen, desc)
	}
	return layout.Homogeneous(desc, bodyLen/desc.Width)
}

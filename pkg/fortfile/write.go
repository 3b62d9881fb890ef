package fortfile

import (
	"fmt"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/layout"
)

// WriteValue writes one value of the given type as a single record
func (f *File) WriteValue(v any, spec dtype.Spec) error {
	desc, err := dtype.Resolve(spec)
	if err != nil {
		return err
	}
	plan, err := layout.Homogeneous(f.applyOrder(desc), 1)
	if err != nil {
		return err
	}
	return f.writePlanned([]any{v}, plan)
}

// WriteValues writes several values of differing types as one
// heterogeneous record, one spec per value. The values and specs must be
// equal-length sequences.
func (f *File) WriteValues(values []any, specs []dtype.Spec) error {
	if len(values) != len(specs) {
		return fmt.Errorf("%w: %d values, %d specs", ErrLengthMismatch, len(values), len(specs))
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: no values", ErrLengthMismatch)
	}
	descs, err := dtype.ResolveAll(specs)
	if err != nil {
		return err
	}
	plan, err := layout.Heterogeneous(f.applyOrderAll(descs))
	if err != nil {
		return err
	}
	return f.writePlanned(values, plan)
}

// WriteSlice writes a homogeneous record of n values sharing one type
func (f *File) WriteSlice(values any, spec dtype.Spec) error {
	desc, err := dtype.Resolve(spec)
	if err != nil {
		return err
	}
	arr, err := codec.NewArray(f.applyOrder(desc), values)
	if err != nil {
		return err
	}
	return f.WriteArray(arr)
}

// WriteArray writes a typed array as one homogeneous record. The element
// type is taken from the array itself.
func (f *File) WriteArray(a *codec.Array) error {
	plan, err := layout.Homogeneous(f.applyOrder(a.Desc()), a.Len())
	if err != nil {
		return err
	}
	return f.writePlanned([]any{a}, plan)
}

// WriteArrays writes several typed arrays back-to-back as one record.
// Arrays sharing one element type concatenate into a plain homogeneous
// record; mixed element types produce a heterogeneous body, each array
// packed per its own type with no padding in between.
func (f *File) WriteArrays(arrays []*codec.Array) error {
	if len(arrays) == 0 {
		return fmt.Errorf("%w: no arrays", ErrLengthMismatch)
	}

	var total int64
	bodies := make([][]byte, len(arrays))
	for i, a := range arrays {
		plan, err := layout.Homogeneous(f.applyOrder(a.Desc()), a.Len())
		if err != nil {
			return err
		}
		body, err := codec.Pack([]any{a}, plan)
		if err != nil {
			return err
		}
		bodies[i] = body
		total += int64(len(body))
	}

	if total > f.framer.MarkerMax() {
		return fmt.Errorf("%w: body is %d bytes, marker limit is %d",
			layout.ErrRecordTooLarge, total, f.framer.MarkerMax())
	}

	full := make([]byte, 0, total)
	for _, b := range bodies {
		full = append(full, b...)
	}
	return f.writeBody(full)
}

// WriteStruct writes a structured record: per row, each named field's
// elements in declaration order. values carries one entry per field per
// row, row-major.
func (f *File) WriteStruct(fields []layout.StructField, rows int, values []any) error {
	plan, err := layout.Structured(f.applyOrderFields(fields), rows)
	if err != nil {
		return err
	}
	return f.writePlanned(values, plan)
}

// writePlanned packs values per plan and writes them as one record
func (f *File) writePlanned(values []any, plan layout.Plan) error {
	if err := plan.Fit(f.framer.MarkerMax()); err != nil {
		return err
	}
	body, err := codec.Pack(values, plan)
	if err != nil {
		return err
	}
	return f.writeBody(body)
}

// writeBody frames and writes one record body, advancing the position
func (f *File) writeBody(body []byte) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return ErrClosed
	}
	if f.writer == nil {
		return fmt.Errorf("%w: not open for writing", ErrMode)
	}

	if err := f.framer.WriteRecord(f.writer, body); err != nil {
		return err
	}
	f.offset += f.framer.Overhead() + int64(len(body))
	return nil
}

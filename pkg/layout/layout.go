// Package layout computes packed byte layouts for record bodies. A plan
// assigns every field a byte offset with no alignment padding between
// heterogeneous fields, matching the packed convention of unformatted
// sequential files.
package layout

import (
	"fmt"

	"github.com/ssargent/fortrec/pkg/dtype"
)

// Field is one run of equally-typed elements within a record body
type Field struct {
	Name   string // empty outside structured mode
	Desc   dtype.Descriptor
	Count  int
	Offset int64 // relative to the start of one repetition
}

// StructField declares one named sub-field of a structured element type
type StructField struct {
	Name  string
	Desc  dtype.Descriptor
	Count int // elements per record row; 0 means 1
}

// Plan is the byte layout of a record body: an ordered offset table over
// one repetition of the field sequence, repeated Reps times. Offsets are
// strictly increasing and contiguous; ElemSize*Reps equals the body length
// exactly.
type Plan struct {
	Fields   []Field
	ElemSize int64 // bytes per repetition
	Reps     int
}

// Size returns the total byte length of the record body
func (p Plan) Size() int64 {
	return p.ElemSize * int64(p.Reps)
}

// Scalar reports whether the plan describes exactly one element of one
// field, i.e. a result that collapses to a bare scalar on unpack.
func (p Plan) Scalar() bool {
	return p.Reps == 1 && len(p.Fields) == 1 && p.Fields[0].Count == 1
}

// Structured reports whether the plan carries named sub-fields
func (p Plan) Structured() bool {
	return len(p.Fields) > 0 && p.Fields[0].Name != ""
}

// Fit fails with ErrRecordTooLarge when the body length exceeds max, the
// largest length the record marker can represent.
func (p Plan) Fit(max int64) error {
	if p.Size() > max {
		return fmt.Errorf("%w: body is %d bytes, marker limit is %d", ErrRecordTooLarge, p.Size(), max)
	}
	return nil
}

// Homogeneous plans a single-field record of n elements of one type
func Homogeneous(desc dtype.Descriptor, n int) (Plan, error) {
	if n < 0 {
		return Plan{}, fmt.Errorf("%w: negative element count %d", ErrBadPlan, n)
	}
	return Plan{
		Fields:   []Field{{Desc: desc, Count: n, Offset: 0}},
		ElemSize: int64(desc.Width) * int64(n),
		Reps:     1,
	}, nil
}

// Heterogeneous plans a record of one value per descriptor, packed in
// order with no padding.
func Heterogeneous(descs []dtype.Descriptor) (Plan, error) {
	if len(descs) == 0 {
		return Plan{}, fmt.Errorf("%w: no descriptors", ErrBadPlan)
	}
	fields := make([]Field, len(descs))
	var offset int64
	for i, d := range descs {
		fields[i] = Field{Desc: d, Count: 1, Offset: offset}
		offset += int64(d.Width)
	}
	return Plan{Fields: fields, ElemSize: offset, Reps: 1}, nil
}

// Structured plans n repetitions of a named multi-field element type, in
// declaration order. The full body is n back-to-back copies of the
// one-element layout.
func Structured(fields []StructField, n int) (Plan, error) {
	if len(fields) == 0 {
		return Plan{}, fmt.Errorf("%w: no fields", ErrBadPlan)
	}
	if n <= 0 {
		return Plan{}, fmt.Errorf("%w: non-positive repetition count %d", ErrBadPlan, n)
	}

	planned := make([]Field, len(fields))
	seen := make(map[string]bool, len(fields))
	var offset int64
	for i, f := range fields {
		if f.Name == "" {
			return Plan{}, fmt.Errorf("%w: unnamed struct field at index %d", ErrBadPlan, i)
		}
		if seen[f.Name] {
			return Plan{}, fmt.Errorf("%w: duplicate field name %q", ErrBadPlan, f.Name)
		}
		seen[f.Name] = true

		count := f.Count
		if count == 0 {
			count = 1
		}
		if count < 0 {
			return Plan{}, fmt.Errorf("%w: negative count for field %q", ErrBadPlan, f.Name)
		}
		planned[i] = Field{Name: f.Name, Desc: f.Desc, Count: count, Offset: offset}
		offset += int64(f.Desc.Width) * int64(count)
	}

	return Plan{Fields: planned, ElemSize: offset, Reps: n}, nil
}

// Errors
var (
	ErrRecordTooLarge = &PlanError{"record size exceeds marker range"}
	ErrBadPlan        = &PlanError{"invalid layout plan"}
)

// PlanError represents a layout planning error
type PlanError struct {
	Message string
}

func (e *PlanError) Error() string {
	return e.Message
}

package codec

import (
	"fmt"

	"github.com/ssargent/fortrec/pkg/dtype"
)

// Array is a one-dimensional typed array: the element descriptor travels
// with the data. Elements are held in canonical form (int64, uint64,
// float64 or []byte per element) regardless of the on-disk width.
type Array struct {
	desc   dtype.Descriptor
	ints   []int64
	uints  []uint64
	floats []float64
	raw    [][]byte
}

// NewArray builds an array from a descriptor and a slice of values. The
// slice may use any Go integer or float element type for numeric kinds,
// or []byte / string elements for the Bytes kind; values are canonicalized
// and range-checked against the descriptor.
func NewArray(desc dtype.Descriptor, values any) (*Array, error) {
	elems, err := elements(values)
	if err != nil {
		return nil, err
	}
	a := &Array{desc: desc}
	switch desc.Kind {
	case dtype.Int:
		a.ints = make([]int64, len(elems))
		for i, v := range elems {
			n, err := toInt64(v)
			if err != nil {
				return nil, err
			}
			if n > desc.MaxInt() || n < desc.MinInt() {
				return nil, fmt.Errorf("%w: %d out of range for %s", ErrTypeMismatch, n, desc)
			}
			a.ints[i] = n
		}
	case dtype.Uint:
		a.uints = make([]uint64, len(elems))
		for i, v := range elems {
			n, err := toUint64(v)
			if err != nil {
				return nil, err
			}
			if n > desc.MaxUint() {
				return nil, fmt.Errorf("%w: %d out of range for %s", ErrTypeMismatch, n, desc)
			}
			a.uints[i] = n
		}
	case dtype.Float:
		a.floats = make([]float64, len(elems))
		for i, v := range elems {
			f, err := toFloat64(v)
			if err != nil {
				return nil, err
			}
			a.floats[i] = f
		}
	case dtype.Bytes:
		a.raw = make([][]byte, len(elems))
		for i, v := range elems {
			s, err := toBytes(v)
			if err != nil {
				return nil, err
			}
			if len(s) > desc.Width {
				return nil, fmt.Errorf("%w: %d bytes exceed %s element", ErrTypeMismatch, len(s), desc)
			}
			a.raw[i] = s
		}
	}
	return a, nil
}

// Desc returns the element descriptor
func (a *Array) Desc() dtype.Descriptor {
	return a.desc
}

// Len returns the number of elements
func (a *Array) Len() int {
	switch a.desc.Kind {
	case dtype.Int:
		return len(a.ints)
	case dtype.Uint:
		return len(a.uints)
	case dtype.Float:
		return len(a.floats)
	default:
		return len(a.raw)
	}
}

// Nbytes returns the packed size of the array in bytes
func (a *Array) Nbytes() int64 {
	return int64(a.desc.Width) * int64(a.Len())
}

// Elem returns element i in canonical form
func (a *Array) Elem(i int) any {
	switch a.desc.Kind {
	case dtype.Int:
		return a.ints[i]
	case dtype.Uint:
		return a.uints[i]
	case dtype.Float:
		return a.floats[i]
	default:
		return a.raw[i]
	}
}

// Ints returns the elements of a signed integer array
func (a *Array) Ints() []int64 {
	return a.ints
}

// Uints returns the elements of an unsigned integer array
func (a *Array) Uints() []uint64 {
	return a.uints
}

// Floats returns the elements of a float array
func (a *Array) Floats() []float64 {
	return a.floats
}

// Raw returns the elements of a byte-string array
func (a *Array) Raw() [][]byte {
	return a.raw
}

// append adds one canonical element produced by unpackElem
func (a *Array) append(v any) {
	switch a.desc.Kind {
	case dtype.Int:
		a.ints = append(a.ints, v.(int64))
	case dtype.Uint:
		a.uints = append(a.uints, v.(uint64))
	case dtype.Float:
		a.floats = append(a.floats, v.(float64))
	default:
		a.raw = append(a.raw, v.([]byte))
	}
}

// StructArray is the structured result: an array whose elements carry
// multiple named, typed sub-fields. Data is held column-wise; the column
// for a field with per-row count c has Len()*c elements.
type StructArray struct {
	names []string
	cols  map[string]*Array
	rows  int
}

// Len returns the number of rows (outer array elements)
func (s *StructArray) Len() int {
	return s.rows
}

// Names returns the field names in declaration order
func (s *StructArray) Names() []string {
	return s.names
}

// Field returns the column for the named field, or nil if absent
func (s *StructArray) Field(name string) *Array {
	return s.cols[name]
}

// Index returns the column for the i-th declared field
func (s *StructArray) Index(i int) *Array {
	return s.cols[s.names[i]]
}

// elements expands a values argument into individual element values
func elements(values any) ([]any, error) {
	switch vs := values.(type) {
	case []any:
		return vs, nil
	case []int:
		return box(vs), nil
	case []int8:
		return box(vs), nil
	case []int16:
		return box(vs), nil
	case []int32:
		return box(vs), nil
	case []int64:
		return box(vs), nil
	case []uint16:
		return box(vs), nil
	case []uint32:
		return box(vs), nil
	case []uint64:
		return box(vs), nil
	case []float32:
		return box(vs), nil
	case []float64:
		return box(vs), nil
	case []string:
		return box(vs), nil
	case [][]byte:
		return box(vs), nil
	default:
		return nil, fmt.Errorf("%w: unsupported values type %T", ErrTypeMismatch, values)
	}
}

func box[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

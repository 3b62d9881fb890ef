package codec

// Value is the result of unpacking a record body. It is a closed
// two-variant type: either a bare scalar (a record of exactly one element
// of one field) or a collection (a typed array, or a structured array for
// named multi-field records). Callers branch on the variant explicitly
// instead of guessing the shape.
type Value struct {
	scalar any
	arr    *Array
	str    *StructArray
	size   int64
}

// Nbytes returns the packed byte length of the record body the value was
// decoded from.
func (v Value) Nbytes() int64 {
	return v.size
}

func scalarValue(v any) Value {
	return Value{scalar: v}
}

func arrayValue(a *Array) Value {
	return Value{arr: a}
}

func structValue(s *StructArray) Value {
	return Value{str: s}
}

// IsScalar reports whether the value is the bare-scalar variant
func (v Value) IsScalar() bool {
	return v.scalar != nil
}

// Scalar returns the bare scalar in canonical form (int64, uint64,
// float64 or []byte), or nil for collection variants.
func (v Value) Scalar() any {
	return v.scalar
}

// Int returns the scalar as a signed integer
func (v Value) Int() (int64, bool) {
	n, ok := v.scalar.(int64)
	return n, ok
}

// Uint returns the scalar as an unsigned integer
func (v Value) Uint() (uint64, bool) {
	n, ok := v.scalar.(uint64)
	return n, ok
}

// Float returns the scalar as a float
func (v Value) Float() (float64, bool) {
	f, ok := v.scalar.(float64)
	return f, ok
}

// Bytes returns the scalar as a byte string
func (v Value) Bytes() ([]byte, bool) {
	b, ok := v.scalar.([]byte)
	return b, ok
}

// Array returns the homogeneous array variant, or nil
func (v Value) Array() *Array {
	return v.arr
}

// Struct returns the structured variant, or nil. Heterogeneous records
// unpack to this variant with positional field names f0, f1, ...
func (v Value) Struct() *StructArray {
	return v.str
}

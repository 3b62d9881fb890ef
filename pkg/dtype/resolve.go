package dtype

import (
	"fmt"
	"strconv"
)

// Spec is a type specification accepted by the resolver. The grammar is
// closed: a Spec is either an already-resolved Descriptor, a Code string,
// or one of the category markers DefaultInt and DefaultFloat. Sequences of
// specs are expressed as []Spec at the call sites that accept them.
type Spec interface {
	isSpec()
}

func (Descriptor) isSpec() {}

// Code is a string type spec: a kind letter (i, u, f or S) followed by a
// decimal byte width, e.g. "i4", "u2", "f8", "S16". "S" with no width
// means one byte per element. The long aliases int8..int64, uint8..uint64,
// float32, float64, double, byte, int and float are also accepted.
type Code string

func (Code) isSpec() {}

// Category markers for unqualified integer and float specs. The integer
// default is 4 bytes, the conventional Fortran default integer, not the
// host's native int width.
var (
	DefaultInt   = Descriptor{Kind: Int, Width: 4}
	DefaultFloat = Descriptor{Kind: Float, Width: 8}
)

var aliases = map[string]Descriptor{
	"int":     DefaultInt,
	"float":   DefaultFloat,
	"double":  {Kind: Float, Width: 8},
	"byte":    {Kind: Uint, Width: 1},
	"int8":    {Kind: Int, Width: 1},
	"int16":   {Kind: Int, Width: 2},
	"int32":   {Kind: Int, Width: 4},
	"int64":   {Kind: Int, Width: 8},
	"uint8":   {Kind: Uint, Width: 1},
	"uint16":  {Kind: Uint, Width: 2},
	"uint32":  {Kind: Uint, Width: 4},
	"uint64":  {Kind: Uint, Width: 8},
	"float32": {Kind: Float, Width: 4},
	"float64": {Kind: Float, Width: 8},
}

// Resolve maps a type spec to its concrete Descriptor. It fails with
// ErrUnresolvedType for unknown kind letters and invalid widths.
func Resolve(spec Spec) (Descriptor, error) {
	switch s := spec.(type) {
	case Descriptor:
		if s.Width <= 0 {
			return Descriptor{}, fmt.Errorf("%w: non-positive width %d", ErrUnresolvedType, s.Width)
		}
		if err := checkWidth(s.Kind, s.Width); err != nil {
			return Descriptor{}, fmt.Errorf("%w: %s", err, s)
		}
		return s, nil
	case Code:
		return parseCode(string(s))
	default:
		return Descriptor{}, fmt.Errorf("%w: %T", ErrUnresolvedType, spec)
	}
}

// ResolveAll resolves a sequence of specs, preserving input order
func ResolveAll(specs []Spec) ([]Descriptor, error) {
	descs := make([]Descriptor, len(specs))
	for i, s := range specs {
		d, err := Resolve(s)
		if err != nil {
			return nil, err
		}
		descs[i] = d
	}
	return descs, nil
}

func parseCode(code string) (Descriptor, error) {
	if d, ok := aliases[code]; ok {
		return d, nil
	}
	if code == "" {
		return Descriptor{}, fmt.Errorf("%w: empty code", ErrUnresolvedType)
	}

	var kind Kind
	switch code[0] {
	case 'i':
		kind = Int
	case 'u':
		kind = Uint
	case 'f':
		kind = Float
	case 'S':
		kind = Bytes
	default:
		return Descriptor{}, fmt.Errorf("%w: unknown kind letter in %q", ErrUnresolvedType, code)
	}

	// Bare "S" means a 1-byte string element
	if kind == Bytes && len(code) == 1 {
		return Descriptor{Kind: Bytes, Width: 1}, nil
	}

	width, err := strconv.Atoi(code[1:])
	if err != nil || width <= 0 {
		return Descriptor{}, fmt.Errorf("%w: invalid width in %q", ErrUnresolvedType, code)
	}

	if err := checkWidth(kind, width); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %q", err, code)
	}

	return Descriptor{Kind: kind, Width: width}, nil
}

// checkWidth rejects widths the packed encoding cannot represent. Byte
// strings may have any positive width.
func checkWidth(kind Kind, width int) error {
	switch kind {
	case Int, Uint:
		switch width {
		case 1, 2, 4, 8:
			return nil
		}
	case Float:
		switch width {
		case 4, 8:
			return nil
		}
	case Bytes:
		return nil
	}
	return fmt.Errorf("%w: unsupported width %d", ErrUnresolvedType, width)
}

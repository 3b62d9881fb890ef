package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind identifies the element category of a descriptor
type Kind uint8

const (
	// Int is a signed two's-complement integer
	Int Kind = iota
	// Uint is an unsigned integer
	Uint
	// Float is an IEEE 754 floating point number
	Float
	// Bytes is a fixed-width byte string
	Bytes
)

var kindLetters = [...]string{"i", "u", "f", "S"}

// Letter returns the single-letter type code for the kind
func (k Kind) Letter() string {
	if int(k) >= len(kindLetters) {
		return "?"
	}
	return kindLetters[k]
}

// Order selects the byte order elements are encoded with
type Order uint8

const (
	// Native is the byte order of the host
	Native Order = iota
	// Little is little-endian byte order
	Little
	// Big is big-endian byte order
	Big
)

// Endian returns the concrete binary.ByteOrder for this order
func (o Order) Endian() binary.ByteOrder {
	switch o {
	case Little:
		return binary.LittleEndian
	case Big:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

func (o Order) String() string {
	switch o {
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return "native"
	}
}

// Descriptor is the resolved element type of one value or array element:
// kind, byte width and byte order. Descriptors are immutable values; they
// are produced by Resolve and never constructed field-by-field by callers.
type Descriptor struct {
	Kind  Kind
	Width int
	Order Order
}

// Size returns the byte width of a single element
func (d Descriptor) Size() int {
	return d.Width
}

// String returns the canonical type code, e.g. "i4", "f8" or "S16"
func (d Descriptor) String() string {
	return fmt.Sprintf("%s%d", d.Kind.Letter(), d.Width)
}

// WithOrder returns a copy of the descriptor with the byte order replaced.
// Used for the rare mixed-endianness record where one field deviates from
// the handle's configured order.
func (d Descriptor) WithOrder(o Order) Descriptor {
	d.Order = o
	return d
}

// MaxInt returns the largest value representable by an integer descriptor
func (d Descriptor) MaxInt() int64 {
	return math.MaxInt64 >> (64 - 8*d.Width)
}

// MinInt returns the smallest value representable by a signed descriptor
func (d Descriptor) MinInt() int64 {
	return -d.MaxInt() - 1
}

// MaxUint returns the largest value representable by an unsigned descriptor
func (d Descriptor) MaxUint() uint64 {
	if d.Width >= 8 {
		return math.MaxUint64
	}
	return 1<<(8*d.Width) - 1
}

// Errors
var (
	ErrUnresolvedType = &TypeError{"unresolved type spec"}
)

// TypeError represents a type resolution error
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return e.Message
}

package codec

import (
	"fmt"
	"math"

	"github.com/ssargent/fortrec/pkg/dtype"
)

// putUint writes an unsigned integer of the given width into b
func putUint(b []byte, v uint64, width int, order dtype.Order) {
	bo := order.Endian()
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		bo.PutUint16(b, uint16(v))
	case 4:
		bo.PutUint32(b, uint32(v))
	case 8:
		bo.PutUint64(b, v)
	}
}

// getUint reads an unsigned integer of the given width from b
func getUint(b []byte, width int, order dtype.Order) uint64 {
	bo := order.Endian()
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(bo.Uint16(b))
	case 4:
		return uint64(bo.Uint32(b))
	default:
		return bo.Uint64(b)
	}
}

// getInt reads a signed integer of the given width, sign-extended to int64
func getInt(b []byte, width int, order dtype.Order) int64 {
	u := getUint(b, width, order)
	shift := 64 - 8*width
	return int64(u<<shift) >> shift
}

// packElem serializes one value into buf, which is exactly d.Width bytes.
// Values that cannot be represented in the descriptor's range fail with
// ErrTypeMismatch; nothing is silently truncated.
func packElem(buf []byte, v any, d dtype.Descriptor) error {
	switch d.Kind {
	case dtype.Int:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		if n > d.MaxInt() || n < d.MinInt() {
			return fmt.Errorf("%w: %d out of range for %s", ErrTypeMismatch, n, d)
		}
		putUint(buf, uint64(n), d.Width, d.Order)

	case dtype.Uint:
		n, err := toUint64(v)
		if err != nil {
			return err
		}
		if n > d.MaxUint() {
			return fmt.Errorf("%w: %d out of range for %s", ErrTypeMismatch, n, d)
		}
		putUint(buf, n, d.Width, d.Order)

	case dtype.Float:
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		if d.Width == 4 {
			if !math.IsInf(f, 0) && math.IsInf(float64(float32(f)), 0) {
				return fmt.Errorf("%w: %g out of range for %s", ErrTypeMismatch, f, d)
			}
			putUint(buf, uint64(math.Float32bits(float32(f))), 4, d.Order)
		} else {
			putUint(buf, math.Float64bits(f), 8, d.Order)
		}

	case dtype.Bytes:
		s, err := toBytes(v)
		if err != nil {
			return err
		}
		if len(s) > d.Width {
			return fmt.Errorf("%w: %d bytes exceed %s element", ErrTypeMismatch, len(s), d)
		}
		n := copy(buf, s)
		for i := n; i < d.Width; i++ {
			buf[i] = 0
		}
	}
	return nil
}

// unpackElem deserializes one element from buf into its canonical Go type:
// int64 for signed, uint64 for unsigned, float64 for floats, []byte for
// byte strings.
func unpackElem(buf []byte, d dtype.Descriptor) any {
	switch d.Kind {
	case dtype.Int:
		return getInt(buf, d.Width, d.Order)
	case dtype.Uint:
		return getUint(buf, d.Width, d.Order)
	case dtype.Float:
		if d.Width == 4 {
			return float64(math.Float32frombits(uint32(getUint(buf, 4, d.Order))))
		}
		return math.Float64frombits(getUint(buf, 8, d.Order))
	default:
		out := make([]byte, d.Width)
		copy(out, buf)
		return out
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows signed range", ErrTypeMismatch, n)
		}
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows signed range", ErrTypeMismatch, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
	}
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case int, int8, int16, int32, int64:
		i, _ := toInt64(v)
		if i < 0 {
			return 0, fmt.Errorf("%w: negative value %d for unsigned element", ErrTypeMismatch, i)
		}
		return uint64(i), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch f := v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	case int, int8, int16, int32, int64:
		i, _ := toInt64(v)
		return float64(i), nil
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(v)
		return float64(u), nil
	default:
		return 0, fmt.Errorf("%w: %T is not a number", ErrTypeMismatch, v)
	}
}

func toBytes(v any) ([]byte, error) {
	switch s := v.(type) {
	case []byte:
		return s, nil
	case string:
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("%w: %T is not a byte string", ErrTypeMismatch, v)
	}
}

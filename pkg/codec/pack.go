package codec

import (
	"fmt"

	"github.com/ssargent/fortrec/pkg/layout"
)

// Pack serializes values into a record body laid out by plan. values
// carries one entry per field per repetition, in body order: a scalar for
// a one-element field, or a slice (or *Array) of exactly Count elements
// otherwise. The returned buffer is exactly plan.Size() bytes.
func Pack(values []any, plan layout.Plan) ([]byte, error) {
	want := plan.Reps * len(plan.Fields)
	if len(values) != want {
		return nil, fmt.Errorf("%w: have %d field values, layout wants %d", ErrTypeMismatch, len(values), want)
	}

	body := make([]byte, plan.Size())
	vi := 0
	for rep := 0; rep < plan.Reps; rep++ {
		base := int64(rep) * plan.ElemSize
		for _, fld := range plan.Fields {
			if err := packField(body[base+fld.Offset:], values[vi], fld); err != nil {
				return nil, err
			}
			vi++
		}
	}
	return body, nil
}

func packField(buf []byte, v any, fld layout.Field) error {
	elems, err := fieldElements(v, fld.Count)
	if err != nil {
		return err
	}
	w := fld.Desc.Width
	for i, e := range elems {
		if err := packElem(buf[i*w:(i+1)*w], e, fld.Desc); err != nil {
			return err
		}
	}
	return nil
}

// fieldElements normalizes one field value to its individual elements
func fieldElements(v any, count int) ([]any, error) {
	if a, ok := v.(*Array); ok {
		if a.Len() != count {
			return nil, fmt.Errorf("%w: array has %d elements, field wants %d", ErrTypeMismatch, a.Len(), count)
		}
		elems := make([]any, a.Len())
		for i := range elems {
			elems[i] = a.Elem(i)
		}
		return elems, nil
	}

	if elems, err := elements(v); err == nil {
		if len(elems) != count {
			return nil, fmt.Errorf("%w: have %d elements, field wants %d", ErrTypeMismatch, len(elems), count)
		}
		return elems, nil
	}

	// A bare scalar covers exactly one element.
	if count != 1 {
		return nil, fmt.Errorf("%w: scalar %T for a %d-element field", ErrTypeMismatch, v, count)
	}
	return []any{v}, nil
}

package codec

import (
	"fmt"

	"github.com/ssargent/fortrec/pkg/layout"
)

// Unpack deserializes a record body per plan. The result shape follows
// the collapsing rule: a layout of exactly one field with exactly one
// element yields the bare scalar; a single-field layout yields a typed
// Array; named or multi-field layouts yield a StructArray (heterogeneous
// fields are named positionally f0, f1, ...). The rule is applied
// uniformly regardless of which planning mode produced the layout.
func Unpack(body []byte, plan layout.Plan) (Value, error) {
	if int64(len(body)) != plan.Size() {
		return Value{}, fmt.Errorf("%w: body is %d bytes, layout wants %d", ErrMalformedRecord, len(body), plan.Size())
	}

	if plan.Scalar() {
		d := plan.Fields[0].Desc
		v := scalarValue(unpackElem(body[:d.Width], d))
		v.size = plan.Size()
		return v, nil
	}

	if plan.Structured() || len(plan.Fields) > 1 {
		v := structValue(unpackStruct(body, plan))
		v.size = plan.Size()
		return v, nil
	}

	// Homogeneous: one unnamed field, one repetition.
	fld := plan.Fields[0]
	arr := &Array{desc: fld.Desc}
	w := fld.Desc.Width
	for i := 0; i < fld.Count; i++ {
		arr.append(unpackElem(body[i*w:(i+1)*w], fld.Desc))
	}
	v := arrayValue(arr)
	v.size = plan.Size()
	return v, nil
}

func unpackStruct(body []byte, plan layout.Plan) *StructArray {
	names := make([]string, len(plan.Fields))
	cols := make(map[string]*Array, len(plan.Fields))
	for i, fld := range plan.Fields {
		name := fld.Name
		if name == "" {
			name = fmt.Sprintf("f%d", i)
		}
		names[i] = name
		cols[name] = &Array{desc: fld.Desc}
	}

	for rep := 0; rep < plan.Reps; rep++ {
		base := int64(rep) * plan.ElemSize
		for i, fld := range plan.Fields {
			w := fld.Desc.Width
			for e := 0; e < fld.Count; e++ {
				off := base + fld.Offset + int64(e*w)
				cols[names[i]].append(unpackElem(body[off:off+int64(w)], fld.Desc))
			}
		}
	}

	return &StructArray{names: names, cols: cols, rows: plan.Reps}
}

package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/layout"
)

func mustPlan(t *testing.T) func(layout.Plan, error) layout.Plan {
	t.Helper()
	return func(p layout.Plan, err error) layout.Plan {
		t.Helper()
		if err != nil {
			t.Fatalf("plan failed: %v", err)
		}
		return p
	}
}

func TestPackUnpack_ScalarRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		code string
		in   any
		want any
	}{
		{"i1", "i1", int8(-5), int64(-5)},
		{"i2", "i2", int16(-30000), int64(-30000)},
		{"i4", "i4", 1, int64(1)},
		{"i8", "i8", int64(math.MinInt64), int64(math.MinInt64)},
		{"u1", "u1", uint8(200), uint64(200)},
		{"u4", "u4", uint32(4000000000), uint64(4000000000)},
		{"u8", "u8", uint64(math.MaxUint64), uint64(math.MaxUint64)},
		{"f4", "f4", float32(1.5), float64(1.5)},
		{"f8", "f8", 3.141592653589793, 3.141592653589793},
		{"S1", "S1", "x", []byte("x")},
		{"S8 padded", "S8", "abc", []byte("abc\x00\x00\x00\x00\x00")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := dtype.Resolve(dtype.Code(tc.code))
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			plan := mustPlan(t)(layout.Homogeneous(d, 1))

			body, err := Pack([]any{tc.in}, plan)
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}
			if int64(len(body)) != plan.Size() {
				t.Fatalf("body length: got %d, want %d", len(body), plan.Size())
			}

			v, err := Unpack(body, plan)
			if err != nil {
				t.Fatalf("Unpack failed: %v", err)
			}
			if !v.IsScalar() {
				t.Fatal("single-element record must collapse to a scalar")
			}
			if b, ok := tc.want.([]byte); ok {
				got, _ := v.Bytes()
				if !bytes.Equal(got, b) {
					t.Errorf("got %q, want %q", got, b)
				}
			} else if v.Scalar() != tc.want {
				t.Errorf("got %v (%T), want %v (%T)", v.Scalar(), v.Scalar(), tc.want, tc.want)
			}
		})
	}
}

func TestPackUnpack_ArrayCollapsingRule(t *testing.T) {
	d, err := dtype.Resolve(dtype.Code("f4"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// N>1 values of one type come back as an array, never a scalar.
	plan := mustPlan(t)(layout.Homogeneous(d, 2))
	body, err := Pack([]any{[]float64{1.0, 2.0}}, plan)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if len(body) != 8 {
		t.Fatalf("two f4 values must pack to 8 bytes, got %d", len(body))
	}

	v, err := Unpack(body, plan)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if v.IsScalar() {
		t.Fatal("two-element record must not collapse to a scalar")
	}
	arr := v.Array()
	if arr == nil || arr.Len() != 2 {
		t.Fatalf("expected a 2-element array, got %+v", arr)
	}
	if arr.Floats()[0] != 1.0 || arr.Floats()[1] != 2.0 {
		t.Errorf("elements: got %v, want [1 2]", arr.Floats())
	}
}

func TestPackUnpack_HeterogeneousNoPadding(t *testing.T) {
	f8, err := dtype.Resolve(dtype.Code("f8"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	s1, err := dtype.Resolve(dtype.Code("S1"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	plan := mustPlan(t)(layout.Heterogeneous([]dtype.Descriptor{f8, s1}))
	if plan.Size() != 9 {
		t.Fatalf("heterogeneous (f8, S1) must be 9 bytes, got %d", plan.Size())
	}

	body, err := Pack([]any{1.5, "x"}, plan)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if len(body) != 9 {
		t.Fatalf("body length: got %d, want 9", len(body))
	}

	v, err := Unpack(body, plan)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	s := v.Struct()
	if s == nil {
		t.Fatal("heterogeneous record must unpack to a structured result")
	}
	if got := s.Index(0).Floats()[0]; got != 1.5 {
		t.Errorf("first field: got %v, want 1.5", got)
	}
	if got := s.Index(1).Raw()[0]; !bytes.Equal(got, []byte("x")) {
		t.Errorf("second field: got %q, want %q", got, "x")
	}
}

func TestPackUnpack_Structured(t *testing.T) {
	i4, _ := dtype.Resolve(dtype.Code("i4"))
	f8, _ := dtype.Resolve(dtype.Code("f8"))

	fields := []layout.StructField{
		{Name: "id", Desc: i4},
		{Name: "pos", Desc: f8, Count: 3},
	}
	plan := mustPlan(t)(layout.Structured(fields, 2))

	values := []any{
		int32(7), []float64{1, 2, 3},
		int32(8), []float64{4, 5, 6},
	}
	body, err := Pack(values, plan)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if int64(len(body)) != 56 {
		t.Fatalf("body length: got %d, want 56", len(body))
	}

	v, err := Unpack(body, plan)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	s := v.Struct()
	if s == nil || s.Len() != 2 {
		t.Fatalf("expected a 2-row structured array, got %+v", s)
	}
	if ids := s.Field("id").Ints(); ids[0] != 7 || ids[1] != 8 {
		t.Errorf("id column: got %v", ids)
	}
	pos := s.Field("pos").Floats()
	want := []float64{1, 2, 3, 4, 5, 6}
	for i := range want {
		if pos[i] != want[i] {
			t.Fatalf("pos column: got %v, want %v", pos, want)
		}
	}
}

func TestPack_RangeChecks(t *testing.T) {
	testCases := []struct {
		name string
		code string
		v    any
	}{
		{"i1 overflow", "i1", 300},
		{"i1 underflow", "i1", -200},
		{"i4 overflow", "i4", int64(1) << 40},
		{"u2 overflow", "u2", 70000},
		{"negative unsigned", "u4", -1},
		{"f4 overflow", "f4", 1e300},
		{"S2 overlong", "S2", "abc"},
		{"string into int", "i4", "12"},
		{"float into int", "i4", 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := dtype.Resolve(dtype.Code(tc.code))
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			plan := mustPlan(t)(layout.Homogeneous(d, 1))
			if _, err := Pack([]any{tc.v}, plan); !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("got %v, want ErrTypeMismatch", err)
			}
		})
	}
}

func TestPack_FloatSpecialValues(t *testing.T) {
	f4, _ := dtype.Resolve(dtype.Code("f4"))
	plan := mustPlan(t)(layout.Homogeneous(f4, 1))

	for _, f := range []float64{math.Inf(1), math.Inf(-1)} {
		body, err := Pack([]any{f}, plan)
		if err != nil {
			t.Fatalf("Pack(%v) failed: %v", f, err)
		}
		v, err := Unpack(body, plan)
		if err != nil {
			t.Fatalf("Unpack failed: %v", err)
		}
		if got, _ := v.Float(); got != f {
			t.Errorf("got %v, want %v", got, f)
		}
	}

	body, err := Pack([]any{math.NaN()}, plan)
	if err != nil {
		t.Fatalf("Pack(NaN) failed: %v", err)
	}
	v, err := Unpack(body, plan)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if got, _ := v.Float(); !math.IsNaN(got) {
		t.Errorf("got %v, want NaN", got)
	}
}

func TestPack_ByteOrderOverride(t *testing.T) {
	d := dtype.Descriptor{Kind: dtype.Uint, Width: 2, Order: dtype.Big}
	plan := mustPlan(t)(layout.Homogeneous(d, 1))

	body, err := Pack([]any{uint16(0x0102)}, plan)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !bytes.Equal(body, []byte{0x01, 0x02}) {
		t.Errorf("big-endian encoding: got %v", body)
	}

	little := mustPlan(t)(layout.Homogeneous(d.WithOrder(dtype.Little), 1))
	body, err = Pack([]any{uint16(0x0102)}, little)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !bytes.Equal(body, []byte{0x02, 0x01}) {
		t.Errorf("little-endian encoding: got %v", body)
	}
}

func TestUnpack_BodyLengthMismatch(t *testing.T) {
	i4, _ := dtype.Resolve(dtype.Code("i4"))
	plan := mustPlan(t)(layout.Homogeneous(i4, 2))
	if _, err := Unpack(make([]byte, 7), plan); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}
}

func TestPack_ValueCountMismatch(t *testing.T) {
	i4, _ := dtype.Resolve(dtype.Code("i4"))
	plan := mustPlan(t)(layout.Homogeneous(i4, 3))

	if _, err := Pack([]any{1, 2}, plan); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("wrong value count: got %v", err)
	}
	if _, err := Pack([]any{[]int{1, 2}}, plan); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("short slice: got %v", err)
	}
}

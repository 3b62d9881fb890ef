package fortfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/layout"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "records.dat")
}

func TestFile_ScalarRoundTrip(t *testing.T) {
	// Writing the single 4-byte int 1 produces a 4-byte body framed by
	// two markers each encoding 4, and reads back as the bare scalar 1.
	path := tempPath(t)

	w, err := Open(path, Options{Mode: Write, Order: dtype.Little})
	if err != nil {
		t.Fatalf("Open for write failed: %v", err)
	}
	if err := w.WriteValue(1, dtype.Code("int32")); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}
	if got := w.Tell(); got != 12 {
		t.Errorf("Tell after one record: got %d, want 12", got)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := []byte{4, 0, 0, 0, 1, 0, 0, 0, 4, 0, 0, 0}
	if !bytes.Equal(raw, want) {
		t.Fatalf("on-disk bytes: got %v, want %v", raw, want)
	}

	r, err := Open(path, Options{Mode: Read, Order: dtype.Little})
	if err != nil {
		t.Fatalf("Open for read failed: %v", err)
	}
	defer r.Close()

	v, err := r.ReadRecord(dtype.Code("int32"))
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if !v.IsScalar() {
		t.Fatal("single int32 record must collapse to a scalar")
	}
	if n, _ := v.Int(); n != 1 {
		t.Errorf("got %d, want 1", n)
	}
}

func TestFile_TwoFloatsComeBackAsArray(t *testing.T) {
	path := tempPath(t)

	err := With(path, Options{Mode: Write}, func(f *File) error {
		return f.WriteSlice([]float64{1.0, 2.0}, dtype.Code("f4"))
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	err = With(path, Options{Mode: Read}, func(f *File) error {
		v, err := f.ReadRecord(dtype.Code("f4"))
		if err != nil {
			return err
		}
		if v.IsScalar() {
			t.Fatal("two-element record must not collapse to a scalar")
		}
		arr := v.Array()
		if arr.Len() != 2 || arr.Floats()[0] != 1.0 || arr.Floats()[1] != 2.0 {
			t.Errorf("got %v, want [1 2]", arr.Floats())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	// Body is 8 bytes plus two 4-byte markers.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 16 {
		t.Errorf("file size: got %d, want 16", info.Size())
	}
}

func TestFile_HeterogeneousRecord(t *testing.T) {
	path := tempPath(t)
	specs := []dtype.Spec{dtype.Code("float64"), dtype.Code("S1")}

	err := With(path, Options{Mode: Write}, func(f *File) error {
		return f.WriteValues([]any{1.5, "x"}, specs)
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Body must be exactly 8 + 1 bytes, no padding.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 9+8 {
		t.Errorf("file size: got %d, want 17", info.Size())
	}

	err = With(path, Options{Mode: Read}, func(f *File) error {
		v, err := f.ReadRecord(specs...)
		if err != nil {
			return err
		}
		s := v.Struct()
		if s == nil {
			t.Fatal("expected a 2-field heterogeneous result")
		}
		if got := s.Index(0).Floats()[0]; got != 1.5 {
			t.Errorf("first field: got %v, want 1.5", got)
		}
		if got := s.Index(1).Raw()[0]; !bytes.Equal(got, []byte("x")) {
			t.Errorf("second field: got %q, want %q", got, "x")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestFile_WriteValues_LengthMismatch(t *testing.T) {
	err := With(tempPath(t), Options{Mode: Write}, func(f *File) error {
		return f.WriteValues([]any{1, 2}, []dtype.Spec{dtype.Code("i4")})
	})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}

	err = With(tempPath(t), Options{Mode: Write}, func(f *File) error {
		return f.WriteValues(nil, nil)
	})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("empty call: got %v, want ErrLengthMismatch", err)
	}
}

func TestFile_MultipleRecordsAndEOF(t *testing.T) {
	path := tempPath(t)

	err := With(path, Options{Mode: Write}, func(f *File) error {
		for i := 1; i <= 3; i++ {
			if err := f.WriteValue(i*10, dtype.DefaultInt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got []int64
	err = With(path, Options{Mode: Read}, func(f *File) error {
		for {
			v, err := f.ReadRecord(dtype.DefaultInt)
			if errors.Is(err, codec.ErrEndOfFile) {
				return nil
			}
			if err != nil {
				return err
			}
			n, _ := v.Int()
			got = append(got, n)
		}
	})
	if err != nil {
		t.Fatalf("read loop failed: %v", err)
	}
	if len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("records: got %v, want [10 20 30]", got)
	}
}

func TestFile_WriteArrays(t *testing.T) {
	i2, _ := dtype.Resolve(dtype.Code("i2"))
	f8, _ := dtype.Resolve(dtype.Code("f8"))

	path := tempPath(t)
	err := With(path, Options{Mode: Write}, func(f *File) error {
		a, err := codec.NewArray(i2, []int16{1, 2, 3})
		if err != nil {
			return err
		}
		b, err := codec.NewArray(f8, []float64{0.5})
		if err != nil {
			return err
		}
		return f.WriteArrays([]*codec.Array{a, b})
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// One record: body 3*2 + 8 = 14 bytes plus framing.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 14+8 {
		t.Errorf("file size: got %d, want 22", info.Size())
	}

	// Raw read sees one 14-byte record.
	err = With(path, Options{Mode: Read}, func(f *File) error {
		v, err := f.ReadRecord()
		if err != nil {
			return err
		}
		if v.Array().Len() != 14 {
			t.Errorf("raw body length: got %d, want 14", v.Array().Len())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestFile_StructRoundTrip(t *testing.T) {
	i4, _ := dtype.Resolve(dtype.Code("i4"))
	f4, _ := dtype.Resolve(dtype.Code("f4"))
	fields := []layout.StructField{
		{Name: "id", Desc: i4},
		{Name: "xy", Desc: f4, Count: 2},
	}

	path := tempPath(t)
	err := With(path, Options{Mode: Write}, func(f *File) error {
		return f.WriteStruct(fields, 2, []any{
			int32(1), []float64{1.5, 2.5},
			int32(2), []float64{3.5, 4.5},
		})
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	err = With(path, Options{Mode: Read}, func(f *File) error {
		v, err := f.ReadStruct(fields)
		if err != nil {
			return err
		}
		s := v.Struct()
		if s == nil || s.Len() != 2 {
			t.Fatalf("expected 2 rows, got %+v", s)
		}
		if ids := s.Field("id").Ints(); ids[0] != 1 || ids[1] != 2 {
			t.Errorf("id column: got %v", ids)
		}
		if xy := s.Field("xy").Floats(); xy[0] != 1.5 || xy[3] != 4.5 {
			t.Errorf("xy column: got %v", xy)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestFile_ModeEnforcement(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, Options{Mode: Write})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer w.Close()
	if _, err := w.ReadRecord(dtype.Code("i4")); !errors.Is(err, ErrMode) {
		t.Errorf("read on write handle: got %v, want ErrMode", err)
	}
	if err := w.WriteValue(1, dtype.Code("i4")); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := Open(path, Options{Mode: Read})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	if err := r.WriteValue(1, dtype.Code("i4")); !errors.Is(err, ErrMode) {
		t.Errorf("write on read handle: got %v, want ErrMode", err)
	}
}

func TestFile_OpenErrors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.dat"), Options{Mode: Read}); err == nil {
		t.Error("opening a missing file for read must fail")
	}
	if _, err := Open(tempPath(t), Options{Mode: Mode(42)}); !errors.Is(err, ErrInvalidMode) {
		t.Error("invalid mode must fail with ErrInvalidMode")
	}
	if _, err := Open(tempPath(t), Options{Mode: Write, MarkerWidth: 3}); err == nil {
		t.Error("invalid marker width must fail")
	}
}

func TestFile_CloseIdempotent(t *testing.T) {
	f, err := Open(tempPath(t), Options{Mode: Write})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if err := f.WriteValue(1, dtype.Code("i4")); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: got %v, want ErrClosed", err)
	}
}

func TestFile_WithClosesOnError(t *testing.T) {
	path := tempPath(t)
	boom := errors.New("boom")

	err := With(path, Options{Mode: Write}, func(f *File) error {
		if err := f.WriteValue(7, dtype.Code("i4")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the callback error", err)
	}

	// The record written before the failure was flushed by Close.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 12 {
		t.Errorf("file size: got %d, want 12", info.Size())
	}
}

func TestFile_WideMarkers(t *testing.T) {
	path := tempPath(t)
	opts := Options{Mode: Write, MarkerWidth: 8, Order: dtype.Big}

	err := With(path, opts, func(f *File) error {
		return f.WriteValue(int64(-12345), dtype.Code("i8"))
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 8+2*8 {
		t.Errorf("file size: got %d, want 24", info.Size())
	}

	err = With(path, Options{Mode: Read, MarkerWidth: 8, Order: dtype.Big}, func(f *File) error {
		v, err := f.ReadRecord(dtype.Code("i8"))
		if err != nil {
			return err
		}
		if n, _ := v.Int(); n != -12345 {
			t.Errorf("got %d, want -12345", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestFile_MarkerWidthMismatchDetected(t *testing.T) {
	path := tempPath(t)
	err := With(path, Options{Mode: Write, MarkerWidth: 4}, func(f *File) error {
		return f.WriteValue(1, dtype.Code("i4"))
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	err = With(path, Options{Mode: Read, MarkerWidth: 8}, func(f *File) error {
		_, err := f.ReadRecord(dtype.Code("i4"))
		return err
	})
	if err == nil {
		t.Fatal("reading with the wrong marker width must fail, not return data")
	}
}

func TestFile_ZeroWidthDescriptorRejected(t *testing.T) {
	path := tempPath(t)
	err := With(path, Options{Mode: Write}, func(f *File) error {
		return f.WriteValue(1, dtype.Code("i4"))
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// A hand-built descriptor with no width must fail resolution, not
	// divide by zero while deriving the element count.
	bad := dtype.Descriptor{Kind: dtype.Int, Width: 0}
	err = With(path, Options{Mode: Read}, func(f *File) error {
		_, err := f.ReadRecord(bad)
		return err
	})
	if !errors.Is(err, dtype.ErrUnresolvedType) {
		t.Fatalf("read: got %v, want ErrUnresolvedType", err)
	}

	err = With(tempPath(t), Options{Mode: Write}, func(f *File) error {
		return f.WriteValue(1, bad)
	})
	if !errors.Is(err, dtype.ErrUnresolvedType) {
		t.Fatalf("write: got %v, want ErrUnresolvedType", err)
	}
}

func TestFile_IndivisibleBody(t *testing.T) {
	path := tempPath(t)
	err := With(path, Options{Mode: Write}, func(f *File) error {
		return f.WriteValues([]any{1.5, "x"}, []dtype.Spec{dtype.Code("f8"), dtype.Code("S1")})
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// A 9-byte body is not a whole number of 4-byte elements.
	err = With(path, Options{Mode: Read}, func(f *File) error {
		_, err := f.ReadRecord(dtype.Code("i4"))
		return err
	})
	if !errors.Is(err, codec.ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}
}

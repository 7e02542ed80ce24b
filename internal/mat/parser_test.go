package mat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func sampleVars() []*Var {
	return []*Var{
		NewMatrix("face", [][]float64{{0, 1, 2}, {2, 1, 3}}),
		NewMatrix("x2d", [][]float64{{0.5, 1.25}, {99.75, 0}, {50, 49.5}, {-3, 1e6}}),
		NewMatrix("ids", [][]float64{{70000, -5}}),
		{Name: "cls", Class: ClassChar, Text: "car"},
	}
}

func TestWriteThenRead(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, compress, sampleVars()...); err != nil {
				t.Fatalf("Write: %v", err)
			}

			f, err := Read(&buf)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if f.Header.Order != binary.LittleEndian {
				t.Errorf("byte order = %v", f.Header.Order)
			}
			if f.Header.Version != 0x0100 {
				t.Errorf("version = %#x", f.Header.Version)
			}
			if !strings.HasPrefix(f.Header.Text, "MATLAB 5.0 MAT-file") {
				t.Errorf("header text = %q", f.Header.Text)
			}
			if got := strings.Join(f.Names, ","); got != "face,x2d,ids,cls" {
				t.Errorf("names = %s", got)
			}

			face := f.Var("face")
			if face.Rows() != 2 || face.Cols() != 3 {
				t.Fatalf("face dims = %v", face.Dims)
			}
			if got := face.Row(1); got[0] != 2 || got[1] != 1 || got[2] != 3 {
				t.Errorf("face row 1 = %v", got)
			}

			x2d := f.Var("x2d")
			if x2d.At(1, 0) != 99.75 || x2d.At(3, 1) != 1e6 || x2d.At(3, 0) != -3 {
				t.Errorf("x2d data = %v", x2d.Data)
			}

			ids := f.Var("ids")
			if ids.At(0, 0) != 70000 || ids.At(0, 1) != -5 {
				t.Errorf("ids data = %v", ids.Data)
			}

			cls := f.Var("cls")
			if cls.Class != ClassChar || cls.Text != "car" {
				t.Errorf("cls = %+v", cls)
			}
		})
	}
}

func TestPackNumericPicksSmallestType(t *testing.T) {
	tests := []struct {
		data []float64
		want uint32
	}{
		{[]float64{0, 255}, miUINT8},
		{[]float64{0, 256}, miUINT16},
		{[]float64{-1, 2}, miINT32},
		{[]float64{0.5}, miDOUBLE},
		{[]float64{math.Inf(1)}, miDOUBLE},
	}
	for _, tc := range tests {
		typ, b := packNumeric(tc.data)
		if typ != tc.want {
			t.Errorf("packNumeric(%v) type = %d, want %d", tc.data, typ, tc.want)
			continue
		}
		got, err := toFloat64(typ, b, binary.LittleEndian)
		if err != nil {
			t.Fatalf("toFloat64: %v", err)
		}
		for i := range got {
			if got[i] != tc.data[i] {
				t.Errorf("value %d = %v, want %v", i, got[i], tc.data[i])
			}
		}
	}
}

// bigEndianFile builds a big-endian file by hand, with a single-precision
// payload, to exercise paths the writer never produces.
func bigEndianFile() []byte {
	be := binary.BigEndian
	var b bytes.Buffer
	hdr := make([]byte, headerSize)
	copy(hdr, "MATLAB 5.0 MAT-file, written by hand")
	be.PutUint16(hdr[124:], 0x0100)
	copy(hdr[126:], "MI")
	b.Write(hdr)

	var body bytes.Buffer
	put := func(typ uint32, payload []byte) {
		var tag [8]byte
		be.PutUint32(tag[0:], typ)
		be.PutUint32(tag[4:], uint32(len(payload)))
		body.Write(tag[:])
		body.Write(payload)
		body.Write(make([]byte, align8(len(payload))-len(payload)))
	}
	flags := make([]byte, 8)
	be.PutUint32(flags, uint32(ClassSingle))
	put(miUINT32, flags)
	dims := make([]byte, 8)
	be.PutUint32(dims[0:], 1)
	be.PutUint32(dims[4:], 3)
	put(miINT32, dims)
	put(miINT8, []byte("scores"))
	vals := make([]byte, 12)
	for i, x := range []float32{1.5, -2, 0.25} {
		be.PutUint32(vals[i*4:], math.Float32bits(x))
	}
	put(miSINGLE, vals)

	var tag [8]byte
	be.PutUint32(tag[0:], miMATRIX)
	be.PutUint32(tag[4:], uint32(body.Len()))
	b.Write(tag[:])
	b.Write(body.Bytes())
	return b.Bytes()
}

func TestReadBigEndianSingle(t *testing.T) {
	f, err := Read(bytes.NewReader(bigEndianFile()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Header.Order != binary.BigEndian {
		t.Fatalf("byte order = %v", f.Header.Order)
	}
	v := f.Var("scores")
	if v == nil {
		t.Fatalf("missing variable, have %v", f.Names)
	}
	if v.Class != ClassSingle || v.Rows() != 1 || v.Cols() != 3 {
		t.Fatalf("scores = %s %v", v.Class, v.Dims)
	}
	if v.Data[0] != 1.5 || v.Data[1] != -2 || v.Data[2] != 0.25 {
		t.Errorf("scores data = %v", v.Data)
	}
}

func TestReadErrors(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		if _, err := Read(bytes.NewReader([]byte("MATLAB"))); !errors.Is(err, ErrNotMAT) {
			t.Errorf("err = %v, want ErrNotMAT", err)
		}
	})
	t.Run("bad endian", func(t *testing.T) {
		raw := make([]byte, headerSize)
		copy(raw[126:], "XX")
		if _, err := Read(bytes.NewReader(raw)); !errors.Is(err, ErrNotMAT) {
			t.Errorf("err = %v, want ErrNotMAT", err)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, false, NewMatrix("x2d", [][]float64{{1.5, 2.5}})); err != nil {
			t.Fatal(err)
		}
		raw := buf.Bytes()[:buf.Len()-9]
		if _, err := Read(bytes.NewReader(raw)); !errors.Is(err, ErrTruncated) {
			t.Errorf("err = %v, want ErrTruncated", err)
		}
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n02814533_1.mat")
	if err := WriteFile(path, true, sampleVars()...); err != nil {
		t.Fatal(err)
	}
	f, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Names) != 4 {
		t.Errorf("names = %v", f.Names)
	}

	if _, err := Parse(filepath.Join(t.TempDir(), "missing.mat")); err == nil {
		t.Error("Parse of missing file succeeded")
	}
}

func TestClassString(t *testing.T) {
	if ClassDouble.String() != "double" || Class(99).String() != "class(99)" {
		t.Errorf("unexpected class names %s, %s", ClassDouble, Class(99))
	}
	if !ClassUint8.Numeric() || ClassChar.Numeric() || ClassCell.Numeric() {
		t.Error("Numeric misclassifies")
	}
}

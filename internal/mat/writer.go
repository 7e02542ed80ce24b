package mat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"
	"unicode/utf16"
)

// Write encodes vars as a little-endian level 5 MAT-file. Numeric data is
// stored in the smallest integer type that holds it exactly, as MATLAB does,
// falling back to double. With compress set, every variable is wrapped in a
// zlib-compressed element.
func Write(w io.Writer, compress bool, vars ...*Var) error {
	var buf bytes.Buffer

	text := fmt.Sprintf("MATLAB 5.0 MAT-file, Platform: GLNXA64, Created on: %s", time.Now().UTC().Format(time.ANSIC))
	hdr := make([]byte, headerSize)
	for i := range hdr[:116] {
		hdr[i] = ' '
	}
	copy(hdr, text)
	binary.LittleEndian.PutUint16(hdr[124:], 0x0100)
	copy(hdr[126:], "IM")
	buf.Write(hdr)

	for _, v := range vars {
		el, err := encodeMatrix(v)
		if err != nil {
			return err
		}
		if !compress {
			buf.Write(el)
			continue
		}

		var z bytes.Buffer
		zw := zlib.NewWriter(&z)
		if _, err := zw.Write(el); err != nil {
			return fmt.Errorf("mat: compress %s: %w", v.Name, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("mat: compress %s: %w", v.Name, err)
		}
		writeTag(&buf, miCOMPRESSED, z.Len())
		buf.Write(z.Bytes())
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes vars to path. See Write.
func WriteFile(path string, compress bool, vars ...*Var) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mat: create %s: %w", path, err)
	}
	if err := Write(f, compress, vars...); err != nil {
		f.Close()
		return fmt.Errorf("mat: write %s: %w", path, err)
	}
	return f.Close()
}

// NewMatrix builds a double matrix from row-major rows.
func NewMatrix(name string, rows [][]float64) *Var {
	nr := len(rows)
	nc := 0
	if nr > 0 {
		nc = len(rows[0])
	}
	data := make([]float64, nr*nc)
	for r, row := range rows {
		for c := 0; c < nc && c < len(row); c++ {
			data[c*nr+r] = row[c]
		}
	}
	return &Var{Name: name, Class: ClassDouble, Dims: []int{nr, nc}, Data: data}
}

func encodeMatrix(v *Var) ([]byte, error) {
	class := v.Class
	if class == 0 {
		class = ClassDouble
	}
	if !class.Numeric() && class != ClassChar {
		return nil, fmt.Errorf("mat: %s: cannot encode class %s", v.Name, class)
	}

	var body bytes.Buffer

	flags := make([]byte, 8)
	binary.LittleEndian.PutUint32(flags, uint32(class))
	writeElement(&body, miUINT32, flags)

	dims := v.Dims
	if class == ClassChar && len(dims) == 0 {
		dims = []int{1, len(utf16.Encode([]rune(v.Text)))}
	}
	dimBytes := make([]byte, 4*len(dims))
	for i, d := range dims {
		binary.LittleEndian.PutUint32(dimBytes[i*4:], uint32(int32(d)))
	}
	writeElement(&body, miINT32, dimBytes)

	writeElement(&body, miINT8, []byte(v.Name))

	if class == ClassChar {
		units := utf16.Encode([]rune(v.Text))
		b := make([]byte, 2*len(units))
		for i, u := range units {
			binary.LittleEndian.PutUint16(b[i*2:], u)
		}
		writeElement(&body, miUINT16, b)
	} else {
		if len(v.Data) != numel(dims) {
			return nil, fmt.Errorf("mat: %s: %d values for dimensions %v", v.Name, len(v.Data), dims)
		}
		typ, b := packNumeric(v.Data)
		writeElement(&body, typ, b)
	}

	var out bytes.Buffer
	writeTag(&out, miMATRIX, body.Len())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func packNumeric(data []float64) (uint32, []byte) {
	integral, lo, hi := true, 0.0, 0.0
	for i, x := range data {
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			integral = false
			break
		}
		if i == 0 || x < lo {
			lo = x
		}
		if i == 0 || x > hi {
			hi = x
		}
	}

	switch {
	case integral && lo >= 0 && hi <= math.MaxUint8:
		b := make([]byte, len(data))
		for i, x := range data {
			b[i] = uint8(x)
		}
		return miUINT8, b
	case integral && lo >= 0 && hi <= math.MaxUint16:
		b := make([]byte, 2*len(data))
		for i, x := range data {
			binary.LittleEndian.PutUint16(b[i*2:], uint16(x))
		}
		return miUINT16, b
	case integral && lo >= math.MinInt32 && hi <= math.MaxInt32:
		b := make([]byte, 4*len(data))
		for i, x := range data {
			binary.LittleEndian.PutUint32(b[i*4:], uint32(int32(x)))
		}
		return miINT32, b
	}

	b := make([]byte, 8*len(data))
	for i, x := range data {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(x))
	}
	return miDOUBLE, b
}

func writeTag(buf *bytes.Buffer, typ uint32, n int) {
	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:], typ)
	binary.LittleEndian.PutUint32(tag[4:], uint32(n))
	buf.Write(tag[:])
}

// writeElement writes a padded element, using the small format when the
// payload fits in four bytes.
func writeElement(buf *bytes.Buffer, typ uint32, b []byte) {
	if len(b) > 0 && len(b) <= 4 {
		var small [8]byte
		binary.LittleEndian.PutUint32(small[0:], uint32(len(b))<<16|typ)
		copy(small[4:], b)
		buf.Write(small[:])
		return
	}
	writeTag(buf, typ, len(b))
	buf.Write(b)
	if pad := align8(len(b)) - len(b); pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

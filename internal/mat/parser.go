package mat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

const headerSize = 128

var (
	ErrNotMAT    = errors.New("mat: not a level 5 MAT-file")
	ErrTruncated = errors.New("mat: truncated data element")
)

// Parse reads a MAT-file (level 5, optionally zlib-compressed elements).
func Parse(filepath string) (*File, error) {
	raw, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("mat: read %s: %w", filepath, err)
	}
	f, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, filepath)
	}
	return f, nil
}

// Read parses a MAT-file from r.
func Read(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mat: read: %w", err)
	}
	return decode(raw)
}

func decode(raw []byte) (*File, error) {
	if len(raw) < headerSize {
		return nil, ErrNotMAT
	}

	var order binary.ByteOrder
	switch string(raw[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return nil, ErrNotMAT
	}

	f := &File{
		Header: Header{
			Text:    decodeText(raw[:116]),
			Version: order.Uint16(raw[124:126]),
			Order:   order,
		},
		Vars: make(map[string]*Var),
	}

	r := &reader{data: raw, off: headerSize, order: order}
	for r.off < len(r.data) {
		typ, body, err := r.element()
		if err != nil {
			return nil, err
		}

		switch typ {
		case miCOMPRESSED:
			inflated, err := inflate(body)
			if err != nil {
				return nil, err
			}
			sub := &reader{data: inflated, order: order}
			subTyp, subBody, err := sub.element()
			if err != nil {
				return nil, err
			}
			if subTyp != miMATRIX {
				continue
			}
			body = subBody
		case miMATRIX:
		default:
			continue
		}

		v, err := parseMatrix(body, order)
		if err != nil {
			return nil, err
		}
		if v != nil {
			f.add(v)
		}
	}

	return f, nil
}

func inflate(body []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mat: compressed element: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("mat: compressed element: %w", err)
	}
	return out, nil
}

type reader struct {
	data  []byte
	off   int
	order binary.ByteOrder
}

// element reads one data element tag and returns its type and payload.
// Handles the small data element format, where size and type share the first
// word and the payload sits in the second. Regular payloads are padded to a
// multiple of 8 bytes, except compressed ones.
func (r *reader) element() (uint32, []byte, error) {
	if r.off+8 > len(r.data) {
		return 0, nil, ErrTruncated
	}
	w := r.order.Uint32(r.data[r.off:])
	if n := w >> 16; n != 0 {
		if n > 4 {
			return 0, nil, fmt.Errorf("mat: small element of %d bytes", n)
		}
		body := r.data[r.off+4 : r.off+4+int(n)]
		r.off += 8
		return w & 0xffff, body, nil
	}

	n := int(r.order.Uint32(r.data[r.off+4:]))
	start := r.off + 8
	if n < 0 || start+n > len(r.data) {
		return 0, nil, ErrTruncated
	}
	body := r.data[start : start+n]
	r.off = start + n
	if w != miCOMPRESSED {
		r.off = align8(r.off)
	}
	if r.off > len(r.data) {
		r.off = len(r.data)
	}
	return w, body, nil
}

func align8(n int) int {
	return (n + 7) &^ 7
}

// parseMatrix decodes the body of a miMATRIX element. Returns nil for an empty
// element.
func parseMatrix(body []byte, order binary.ByteOrder) (*Var, error) {
	if len(body) == 0 {
		return nil, nil
	}
	r := &reader{data: body, order: order}

	_, flagsBody, err := r.element()
	if err != nil {
		return nil, err
	}
	if len(flagsBody) < 4 {
		return nil, fmt.Errorf("mat: array flags too short (%d bytes)", len(flagsBody))
	}
	flags := order.Uint32(flagsBody)

	dimsTyp, dimsBody, err := r.element()
	if err != nil {
		return nil, err
	}
	dimVals, err := toFloat64(dimsTyp, dimsBody, order)
	if err != nil {
		return nil, fmt.Errorf("mat: dimensions: %w", err)
	}
	dims := make([]int, len(dimVals))
	for i, d := range dimVals {
		dims[i] = int(d)
	}

	_, nameBody, err := r.element()
	if err != nil {
		return nil, err
	}

	v := &Var{
		Name:    string(nameBody),
		Class:   Class(flags & 0xff),
		Dims:    dims,
		Complex: flags&0x0800 != 0,
	}

	switch {
	case v.Class.Numeric():
		typ, re, err := r.element()
		if err != nil {
			return nil, fmt.Errorf("mat: %s: %w", v.Name, err)
		}
		data, err := toFloat64(typ, re, order)
		if err != nil {
			return nil, fmt.Errorf("mat: %s: %w", v.Name, err)
		}
		if want := numel(dims); len(data) != want {
			return nil, fmt.Errorf("mat: %s: %d values for dimensions %v", v.Name, len(data), dims)
		}
		v.Data = data
	case v.Class == ClassChar:
		typ, re, err := r.element()
		if err != nil {
			return nil, fmt.Errorf("mat: %s: %w", v.Name, err)
		}
		v.Text = decodeChars(typ, re, order)
	}

	return v, nil
}

func numel(dims []int) int {
	if len(dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func elemSize(typ uint32) int {
	switch typ {
	case miINT8, miUINT8, miUTF8:
		return 1
	case miINT16, miUINT16, miUTF16:
		return 2
	case miINT32, miUINT32, miSINGLE, miUTF32:
		return 4
	case miDOUBLE, miINT64, miUINT64:
		return 8
	}
	return 0
}

// toFloat64 widens a numeric payload.
func toFloat64(typ uint32, b []byte, order binary.ByteOrder) ([]float64, error) {
	size := elemSize(typ)
	if size == 0 || typ == miUTF8 || typ == miUTF16 || typ == miUTF32 {
		return nil, fmt.Errorf("unsupported numeric type %d", typ)
	}
	if len(b)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a multiple of %d", len(b), size)
	}

	out := make([]float64, len(b)/size)
	for i := range out {
		p := b[i*size:]
		switch typ {
		case miINT8:
			out[i] = float64(int8(p[0]))
		case miUINT8:
			out[i] = float64(p[0])
		case miINT16:
			out[i] = float64(int16(order.Uint16(p)))
		case miUINT16:
			out[i] = float64(order.Uint16(p))
		case miINT32:
			out[i] = float64(int32(order.Uint32(p)))
		case miUINT32:
			out[i] = float64(order.Uint32(p))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(order.Uint32(p)))
		case miDOUBLE:
			out[i] = math.Float64frombits(order.Uint64(p))
		case miINT64:
			out[i] = float64(int64(order.Uint64(p)))
		case miUINT64:
			out[i] = float64(order.Uint64(p))
		}
	}
	return out, nil
}

// decodeChars decodes a char array payload. Only row vectors read naturally;
// multi-row arrays come back in column-major order.
func decodeChars(typ uint32, b []byte, order binary.ByteOrder) string {
	switch typ {
	case miUTF8:
		return string(b)
	case miUINT16, miINT16, miUTF16:
		units := make([]uint16, len(b)/2)
		for i := range units {
			units[i] = order.Uint16(b[i*2:])
		}
		return string(utf16.Decode(units))
	case miUTF32, miUINT32, miINT32:
		runes := make([]rune, len(b)/4)
		for i := range runes {
			runes[i] = rune(order.Uint32(b[i*4:]))
		}
		return string(runes)
	default:
		return decodeText(b)
	}
}

// decodeText decodes single-byte text written by MATLAB on Windows.
func decodeText(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return strings.TrimSpace(string(b))
	}
	return strings.TrimSpace(string(decoded))
}

package mat

import (
	"encoding/binary"
	"fmt"
)

// Data element types (MAT-file level 5).
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
	miUTF16      = 17
	miUTF32      = 18
)

// Class is the MATLAB array class stored in the array flags.
type Class uint8

const (
	ClassCell   Class = 1
	ClassStruct Class = 2
	ClassObject Class = 3
	ClassChar   Class = 4
	ClassSparse Class = 5
	ClassDouble Class = 6
	ClassSingle Class = 7
	ClassInt8   Class = 8
	ClassUint8  Class = 9
	ClassInt16  Class = 10
	ClassUint16 Class = 11
	ClassInt32  Class = 12
	ClassUint32 Class = 13
	ClassInt64  Class = 14
	ClassUint64 Class = 15
)

var classNames = map[Class]string{
	ClassCell:   "cell",
	ClassStruct: "struct",
	ClassObject: "object",
	ClassChar:   "char",
	ClassSparse: "sparse",
	ClassDouble: "double",
	ClassSingle: "single",
	ClassInt8:   "int8",
	ClassUint8:  "uint8",
	ClassInt16:  "int16",
	ClassUint16: "uint16",
	ClassInt32:  "int32",
	ClassUint32: "uint32",
	ClassInt64:  "int64",
	ClassUint64: "uint64",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Numeric reports whether arrays of this class decode into Var.Data.
func (c Class) Numeric() bool {
	return c >= ClassDouble && c <= ClassUint64
}

// Header is the 128-byte file header.
type Header struct {
	Text    string // descriptive text, trailing padding removed
	Version uint16
	Order   binary.ByteOrder
}

// Var is one top-level variable. Numeric arrays are widened to float64 and
// kept in MATLAB's column-major order. Char arrays are decoded into Text.
// Other classes carry only their name, class and dimensions.
type Var struct {
	Name    string
	Class   Class
	Dims    []int
	Complex bool
	Data    []float64
	Text    string
}

// Rows returns the first dimension.
func (v *Var) Rows() int {
	if len(v.Dims) == 0 {
		return 0
	}
	return v.Dims[0]
}

// Cols returns the product of all dimensions after the first.
func (v *Var) Cols() int {
	if len(v.Dims) < 2 {
		return 1
	}
	n := 1
	for _, d := range v.Dims[1:] {
		n *= d
	}
	return n
}

// At returns element (row, col) of a 2D numeric array.
func (v *Var) At(row, col int) float64 {
	return v.Data[col*v.Rows()+row]
}

// Row copies one row of a 2D numeric array.
func (v *Var) Row(row int) []float64 {
	cols := v.Cols()
	out := make([]float64, cols)
	for c := 0; c < cols; c++ {
		out[c] = v.At(row, c)
	}
	return out
}

// File holds the header and variables of a parsed MAT-file.
type File struct {
	Header Header
	Names  []string // variable names in file order
	Vars   map[string]*Var
}

// Var returns the named variable or nil.
func (f *File) Var(name string) *Var {
	return f.Vars[name]
}

func (f *File) add(v *Var) {
	if _, dup := f.Vars[v.Name]; !dup {
		f.Names = append(f.Names, v.Name)
	}
	f.Vars[v.Name] = v
}

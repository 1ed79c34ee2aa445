// SPDX-License-Identifier: MIT

// Package matrix - flat binary codec.
//
// Layout (all little-endian; int is 4 or 8 bytes, fixed per stream; values are float64):
//
//	CSR:     nrow ncol nnz | rowStart[nrow+1] | colIndex[nnz] | value[nnz]
//	Dense:   nrow ncol     | value[nrow*ncol] (row-major)
//	Vector:  n             | value[n]
//	Counter: nrow ncol     | count[nrow*ncol] (ints)
//
// Readers validate headers and CSR structure before handing out a value.

package matrix

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// IntWidth is the byte size of every integer in a stream.
type IntWidth int

const (
	// Int32 encodes integers as 4-byte values.
	Int32 IntWidth = 4
	// Int64 encodes integers as 8-byte values.
	Int64 IntWidth = 8

	// DefaultIntWidth matches a 64-bit platform int.
	DefaultIntWidth = Int64
)

var le = binary.LittleEndian

func (w IntWidth) check() error {
	if w != Int32 && w != Int64 {
		return errors.Wrapf(ErrBadIntWidth, "width %d", int(w))
	}

	return nil
}

// writeInts encodes xs with the given width.
func writeInts(dst io.Writer, w IntWidth, xs ...int) error {
	buf := make([]byte, int(w)*len(xs))
	for i, x := range xs {
		if w == Int32 {
			if x > math.MaxInt32 || x < math.MinInt32 {
				return errors.Wrapf(ErrBadIntWidth, "value %d overflows 4 bytes", x)
			}
			le.PutUint32(buf[4*i:], uint32(int32(x)))
		} else {
			le.PutUint64(buf[8*i:], uint64(int64(x)))
		}
	}
	_, err := dst.Write(buf)

	return err
}

// readChunk bounds every read buffer, so a corrupt count fails on EOF instead of
// allocating it up front.
const readChunk = 1 << 12

// maxCount is the largest element count whose byte size fits an int.
const maxCount = math.MaxInt / 8

func checkCount(n int) error {
	if n < 0 || n > maxCount {
		return errors.Wrapf(ErrBadShape, "count %d", n)
	}

	return nil
}

// checkProduct returns r*c or ErrBadShape when it exceeds maxCount.
func checkProduct(r, c int) (int, error) {
	if r != 0 && c > maxCount/r {
		return 0, errors.Wrapf(ErrBadShape, "%dx%d", r, c)
	}

	return r * c, nil
}

// readInts decodes n integers of the given width.
func readInts(src io.Reader, w IntWidth, n int) ([]int, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	out := make([]int, 0, min(n, readChunk))
	buf := make([]byte, int(w)*min(n, readChunk))
	for len(out) < n {
		k := min(n-len(out), readChunk)
		b := buf[:int(w)*k]
		if _, err := io.ReadFull(src, b); err != nil {
			return nil, err
		}
		for i := 0; i < k; i++ {
			if w == Int32 {
				out = append(out, int(int32(le.Uint32(b[4*i:]))))
			} else {
				out = append(out, int(int64(le.Uint64(b[8*i:]))))
			}
		}
	}

	return out, nil
}

func writeFloats(dst io.Writer, xs []float64) error {
	buf := make([]byte, 8*len(xs))
	for i, x := range xs {
		le.PutUint64(buf[8*i:], math.Float64bits(x))
	}
	_, err := dst.Write(buf)

	return err
}

func readFloats(src io.Reader, n int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	out := make([]float64, 0, min(n, readChunk))
	buf := make([]byte, 8*min(n, readChunk))
	for len(out) < n {
		k := min(n-len(out), readChunk)
		b := buf[:8*k]
		if _, err := io.ReadFull(src, b); err != nil {
			return nil, err
		}
		for i := 0; i < k; i++ {
			out = append(out, math.Float64frombits(le.Uint64(b[8*i:])))
		}
	}

	return out, nil
}

// readHeader reads k non-negative header integers.
func readHeader(src io.Reader, w IntWidth, k int) ([]int, error) {
	h, err := readInts(src, w, k)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	for _, x := range h {
		if x < 0 {
			return nil, errors.Wrapf(ErrBadShape, "header %v", h)
		}
	}

	return h, nil
}

// WriteCSR encodes m.
func WriteCSR(dst io.Writer, m *CSR, w IntWidth) error {
	if err := w.check(); err != nil {
		return err
	}
	if m == nil {
		return ErrNilMatrix
	}
	if err := writeInts(dst, w, m.nrow, m.ncol, len(m.colIndex)); err != nil {
		return errors.Wrap(err, "WriteCSR header")
	}
	if err := writeInts(dst, w, m.rowStart...); err != nil {
		return errors.Wrap(err, "WriteCSR rowStart")
	}
	if err := writeInts(dst, w, m.colIndex...); err != nil {
		return errors.Wrap(err, "WriteCSR colIndex")
	}

	return errors.Wrap(writeFloats(dst, m.value), "WriteCSR value")
}

// ReadCSR decodes a CSR and validates it with NewCSR.
func ReadCSR(src io.Reader, w IntWidth) (*CSR, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	h, err := readHeader(src, w, 3)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSR")
	}
	nrow, ncol, nnz := h[0], h[1], h[2]
	if err = checkCount(nrow); err != nil {
		return nil, errors.Wrap(err, "ReadCSR rows")
	}

	rs, err := readInts(src, w, nrow+1)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSR rowStart")
	}
	ci, err := readInts(src, w, nnz)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSR colIndex")
	}
	vs, err := readFloats(src, nnz)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSR value")
	}
	m, err := NewCSR(nrow, ncol, rs, ci, vs)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCSR")
	}

	return m, nil
}

// WriteDense encodes d.
func WriteDense(dst io.Writer, d *Dense, w IntWidth) error {
	if err := w.check(); err != nil {
		return err
	}
	if d == nil {
		return ErrNilMatrix
	}
	if err := writeInts(dst, w, d.r, d.c); err != nil {
		return errors.Wrap(err, "WriteDense header")
	}

	return errors.Wrap(writeFloats(dst, d.data), "WriteDense value")
}

// ReadDense decodes a Dense. Zero-sized shapes are rejected with ErrBadShape.
func ReadDense(src io.Reader, w IntWidth) (*Dense, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	h, err := readHeader(src, w, 2)
	if err != nil {
		return nil, errors.Wrap(err, "ReadDense")
	}
	n, err := checkProduct(h[0], h[1])
	if err != nil {
		return nil, errors.Wrap(err, "ReadDense")
	}
	vs, err := readFloats(src, n)
	if err != nil {
		return nil, errors.Wrap(err, "ReadDense value")
	}
	d, err := NewDenseFrom(h[0], h[1], vs)
	if err != nil {
		return nil, errors.Wrap(err, "ReadDense")
	}

	return d, nil
}

// WriteVector encodes v.
func WriteVector(dst io.Writer, v *Vector, w IntWidth) error {
	if err := w.check(); err != nil {
		return err
	}
	if v == nil {
		return ErrNilMatrix
	}
	if err := writeInts(dst, w, len(v.data)); err != nil {
		return errors.Wrap(err, "WriteVector header")
	}

	return errors.Wrap(writeFloats(dst, v.data), "WriteVector value")
}

// ReadVector decodes a Vector.
func ReadVector(src io.Reader, w IntWidth) (*Vector, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	h, err := readHeader(src, w, 1)
	if err != nil {
		return nil, errors.Wrap(err, "ReadVector")
	}
	vs, err := readFloats(src, h[0])
	if err != nil {
		return nil, errors.Wrap(err, "ReadVector value")
	}

	return NewVectorFrom(vs), nil
}

// WriteCounter encodes k.
func WriteCounter(dst io.Writer, k *Counter, w IntWidth) error {
	if err := w.check(); err != nil {
		return err
	}
	if k == nil {
		return ErrNilMatrix
	}
	if err := writeInts(dst, w, k.r, k.c); err != nil {
		return errors.Wrap(err, "WriteCounter header")
	}

	return errors.Wrap(writeInts(dst, w, k.data...), "WriteCounter counts")
}

// ReadCounter decodes a Counter.
func ReadCounter(src io.Reader, w IntWidth) (*Counter, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	h, err := readHeader(src, w, 2)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCounter")
	}
	if h[0] == 0 || h[1] == 0 {
		return nil, errors.Wrapf(ErrBadShape, "ReadCounter %dx%d", h[0], h[1])
	}
	n, err := checkProduct(h[0], h[1])
	if err != nil {
		return nil, errors.Wrap(err, "ReadCounter")
	}
	cs, err := readInts(src, w, n)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCounter counts")
	}

	return &Counter{r: h[0], c: h[1], data: cs}, nil
}

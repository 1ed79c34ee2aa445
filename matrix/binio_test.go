// SPDX-License-Identifier: MIT

package matrix_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/stretchr/testify/require"
)

func TestCSR_BinaryRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for _, w := range []matrix.IntWidth{matrix.Int32, matrix.Int64} {
		for trial := 0; trial < 10; trial++ {
			src := randomPlan(r, 1+r.IntN(8), 1+r.IntN(8), 0.3)
			var buf bytes.Buffer
			require.NoError(t, matrix.WriteCSR(&buf, src, w))
			require.Equal(t, int(w)*(3+src.Rows()+1+src.NNZ())+8*src.NNZ(), buf.Len())

			got, err := matrix.ReadCSR(&buf, w)
			require.NoError(t, err)
			require.Equal(t, src.Rows(), got.Rows())
			require.Equal(t, src.Cols(), got.Cols())
			require.Equal(t, src.NNZ(), got.NNZ())
			require.Equal(t, src.RowStart(), got.RowStart())
			require.Equal(t, src.ColIndex(), got.ColIndex())
			for k, v := range src.Values() {
				require.Equal(t, math.Float64bits(v), math.Float64bits(got.Values()[k]))
			}
		}
	}
}

func TestCSR_BinaryEmpty(t *testing.T) {
	src, err := matrix.NewEmptyCSR(3, 2)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, matrix.WriteCSR(&buf, src, matrix.DefaultIntWidth))
	got, err := matrix.ReadCSR(&buf, matrix.DefaultIntWidth)
	require.NoError(t, err)
	require.Equal(t, 0, got.NNZ())
	require.Equal(t, []int{0, 0, 0, 0}, got.RowStart())
}

func TestReadCSR_Rejects(t *testing.T) {
	var buf bytes.Buffer
	_, err := matrix.ReadCSR(&buf, matrix.IntWidth(3))
	require.ErrorIs(t, err, matrix.ErrBadIntWidth)

	// truncated payload
	src := matrix.Permutation([]int{1, 0}, 2)
	require.NoError(t, matrix.WriteCSR(&buf, src, matrix.Int32))
	short := bytes.NewReader(buf.Bytes()[:buf.Len()-4])
	_, err = matrix.ReadCSR(short, matrix.Int32)
	require.Error(t, err)

	// unsorted columns survive the codec but not validation
	bad, _ := matrix.NewCSR(1, 3, []int{0, 2}, []int{0, 2}, []float64{1, 1})
	bad.ColIndex()[0] = 2
	buf.Reset()
	require.NoError(t, matrix.WriteCSR(&buf, bad, matrix.Int64))
	_, err = matrix.ReadCSR(&buf, matrix.Int64)
	require.ErrorIs(t, err, matrix.ErrUnsortedIndices)
}

func TestDenseVectorCounter_BinaryRoundTrip(t *testing.T) {
	d, _ := matrix.NewDenseFrom(2, 3, []float64{1, -2, math.Inf(1), 0, 0.125, 7})
	var buf bytes.Buffer
	require.NoError(t, matrix.WriteDense(&buf, d, matrix.Int32))
	gd, err := matrix.ReadDense(&buf, matrix.Int32)
	require.NoError(t, err)
	require.Equal(t, d.Data(), gd.Data())
	require.Equal(t, 3, gd.Cols())

	v := matrix.NewVectorFrom([]float64{0.5, 1.5})
	require.NoError(t, matrix.WriteVector(&buf, v, matrix.Int64))
	gv, err := matrix.ReadVector(&buf, matrix.Int64)
	require.NoError(t, err)
	require.Equal(t, v.Data(), gv.Data())

	k, _ := matrix.NewCounter(2, 2)
	k.Inc(1, 1)
	k.Inc(1, 1)
	require.NoError(t, matrix.WriteCounter(&buf, k, matrix.Int32))
	gk, err := matrix.ReadCounter(&buf, matrix.Int32)
	require.NoError(t, err)
	require.Equal(t, k.Data(), gk.Data())
}

// header encodes xs as little-endian int64 values.
func header(xs ...int64) *bytes.Reader {
	buf := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(x))
	}

	return bytes.NewReader(buf)
}

func TestRead_CorruptHeader(t *testing.T) {
	w := matrix.Int64

	_, err := matrix.ReadCSR(header(math.MaxInt64, 1, 0), w)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.ReadCSR(header(2, 2, math.MaxInt64), w)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.ReadDense(header(1<<40, 1<<40), w)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.ReadCounter(header(1<<40, 1<<40), w)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.ReadVector(header(math.MaxInt64), w)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	// plausible but absent payloads end on EOF without allocating the claimed size
	_, err = matrix.ReadCSR(header(1<<40, 1, 0), w)
	require.ErrorIs(t, err, io.EOF)
	_, err = matrix.ReadDense(header(1<<20, 1<<20), w)
	require.ErrorIs(t, err, io.EOF)
	_, err = matrix.ReadVector(header(1<<40), w)
	require.ErrorIs(t, err, io.EOF)
}

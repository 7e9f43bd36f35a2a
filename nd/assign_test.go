// Copyright 2025 go-ndassign Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nd

import (
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-ndassign/dtype"
)

func mustSlice(t *testing.T, a *Array, start, stop, step int) *Array {
	t.Helper()
	v, err := a.Slice(0, start, stop, step)
	require.NoError(t, err)
	return v
}

func iota64(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i)
	}
	return out
}

func TestSelfAssignmentIsNoop(t *testing.T) {
	logs := observeLogs(t)
	a := FromSlice([]int32{1, 2, 3})
	a.AllocateNA(true)
	a.SetNA(1, 1)

	same := mustSlice(t, a, 0, 3, 1)
	same.SetWriteable(false)

	require.NoError(t, AssignArray(same, a, nil, dtype.NoCasting, false, nil))
	assert.Equal(t, []int32{1, 2, 3}, ToSlice[int32](a))
	assert.True(t, a.IsNA(1))
	assert.Equal(t, 1, logs.FilterMessage("skipping assignment of an array to itself").Len())
}

func TestOverlapShiftForward(t *testing.T) {
	logs := observeLogs(t)
	a := FromSlice(iota64(10))

	require.NoError(t, AssignArray(mustSlice(t, a, 1, 10, 1), mustSlice(t, a, 0, 9, 1), nil, dtype.SafeCasting, false, nil))
	if diff := cmp.Diff([]int64{0, 0, 1, 2, 3, 4, 5, 6, 7, 8}, ToSlice[int64](a)); diff != "" {
		t.Errorf("shifted array mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, logs.FilterMessage("reversing overlapping 1-D assignment").Len())
	assert.Zero(t, logs.FilterMessage("copying overlapping source to a temporary").Len())
}

func TestOverlapShiftBackward(t *testing.T) {
	a := FromSlice(iota64(10))
	require.NoError(t, AssignArray(mustSlice(t, a, 0, 9, 1), mustSlice(t, a, 1, 10, 1), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 9}, ToSlice[int64](a))
}

func TestOverlapStridedForward(t *testing.T) {
	a := FromSlice(iota64(10))
	require.NoError(t, AssignArray(mustSlice(t, a, 2, 10, 2), mustSlice(t, a, 0, 8, 2), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{0, 1, 0, 3, 2, 5, 4, 7, 6, 9}, ToSlice[int64](a))

	// Destination and source steps differ: reversal alone cannot order the
	// reads, so the source goes through a temporary.
	logs := observeLogs(t)
	b := FromSlice(iota64(10))
	require.NoError(t, AssignArray(mustSlice(t, b, 0, 10, 2), mustSlice(t, b, 0, 5, 1), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, ToSlice[int64](mustSlice(t, b, 0, 10, 2)))
	assert.Equal(t, 1, logs.FilterMessage("copying overlapping source to a temporary").Len())

	c := FromSlice(iota64(10))
	require.NoError(t, AssignArray(mustSlice(t, c, 0, 10, 2), mustSlice(t, c, 1, 6, 1), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ToSlice[int64](mustSlice(t, c, 0, 10, 2)))

	d := FromSlice(iota64(10))
	require.NoError(t, AssignArray(mustSlice(t, d, 0, 5, 1), mustSlice(t, d, 0, 10, 2), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{0, 2, 4, 6, 8}, ToSlice[int64](mustSlice(t, d, 0, 5, 1)))
}

func TestOverlapMixedElementSizes(t *testing.T) {
	// An int32 view over the first bytes of int64 data: same step per
	// element would not line up reads with writes.
	a := FromSlice(iota64(8))
	w, err := New(dtype.Int32, 16).View(0, []int{8}, []int{4})
	require.NoError(t, err)
	w.buf = a.buf

	require.NoError(t, AssignArray(w, a, nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6, 7}, ToSlice[int32](w))
}

func TestOverlapWithCast(t *testing.T) {
	// The float64 view covers the same bytes as the int64 data it reads.
	a := FromSlice(iota64(6))
	f, err := New(dtype.Float64, 6).View(0, []int{6}, []int{8})
	require.NoError(t, err)
	f.buf = a.buf

	require.NoError(t, AssignArray(mustSlice(t, f, 1, 6, 1), mustSlice(t, a, 0, 5, 1), nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []float64{1, 2, 3, 4}, ToSlice[float64](mustSlice(t, f, 2, 6, 1)))
}

func TestOverlapOppositeStrides(t *testing.T) {
	logs := observeLogs(t)
	a := FromSlice(iota64(9))

	require.NoError(t, AssignArray(a, mustSlice(t, a, 8, -1, -1), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{8, 7, 6, 5, 4, 3, 2, 1, 0}, ToSlice[int64](a))
	assert.Equal(t, 1, logs.FilterMessage("copying overlapping source to a temporary").Len())
}

func TestOverlapTranspose(t *testing.T) {
	a := FromSlice([]int32{0, 1, 2, 3, 4, 5, 6, 7, 8}, 3, 3)
	tr, err := a.Transpose()
	require.NoError(t, err)

	require.NoError(t, AssignArray(a, tr, nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{0, 3, 6, 1, 4, 7, 2, 5, 8}, ToSlice[int32](a))
}

func TestOverlapWithNAShift(t *testing.T) {
	a := FromSlice([]float64{0, 1, 2, 3, 4, 5})
	a.AllocateNA(true)
	a.SetNA(2, 1)
	a.SetNA(3, 3)

	require.NoError(t, AssignArray(mustSlice(t, a, 1, 6, 1), mustSlice(t, a, 0, 5, 1), nil, dtype.SafeCasting, false, nil))

	wantNA := []bool{false, false, true, false, true, false}
	for i, want := range wantNA {
		assert.Equal(t, want, a.IsNA(i), "element %d", i)
	}
	assert.Equal(t, uint8(2), a.NAPayload(2))
	assert.Equal(t, uint8(3), a.NAPayload(4))
	assert.Equal(t, 0.0, At[float64](a, 1))
	assert.Equal(t, 2.0, At[float64](a, 3))
	assert.Equal(t, 4.0, At[float64](a, 5))
}

func TestBroadcastRowsReplicate(t *testing.T) {
	tests := []struct {
		name string
		src  *Array
	}{
		{"shape (1,n)", FromSlice([]float32{1, 2, 3, 4}, 1, 4)},
		{"shape (n)", FromSlice([]float32{1, 2, 3, 4})},
		{"shape (1,1,n)", FromSlice([]float32{1, 2, 3, 4}, 1, 1, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := New(dtype.Float64, 3, 4)
			require.NoError(t, AssignArray(dst, tt.src, nil, dtype.SafeCasting, false, nil))
			assert.Equal(t, []float64{1, 2, 3, 4, 1, 2, 3, 4, 1, 2, 3, 4}, ToSlice[float64](dst))
		})
	}
}

func TestBroadcastScalar(t *testing.T) {
	dst := New(dtype.Int32, 2, 3)
	require.NoError(t, AssignArray(dst, NewScalar(int16(7)), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{7, 7, 7, 7, 7, 7}, ToSlice[int32](dst))
}

func TestBroadcastColumn(t *testing.T) {
	dst := New(dtype.Int64, 2, 3)
	require.NoError(t, AssignArray(dst, FromSlice([]int64{5, 9}, 2, 1), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int64{5, 5, 5, 9, 9, 9}, ToSlice[int64](dst))
}

func TestBroadcastMismatch(t *testing.T) {
	dst := New(dtype.Int32, 3, 4)
	err := AssignArray(dst, FromSlice([]int32{1, 2, 3}), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "could not broadcast input array from shape (3) into shape (3,4)")

	err = AssignArray(New(dtype.Int32, 4), FromSlice([]int32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 4), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCastingGate(t *testing.T) {
	src := FromSlice([]float64{1.75, -2.5, 300.9})
	dst := FromSlice([]int16{11, 22, 33})

	err := AssignArray(dst, src, nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsafeCast)
	assert.Contains(t, err.Error(), "according to the rule safe")
	assert.Equal(t, []int16{11, 22, 33}, ToSlice[int16](dst))

	require.NoError(t, AssignArray(dst, src, nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []int16{1, -2, 300}, ToSlice[int16](dst))
}

func TestCastingRules(t *testing.T) {
	tests := []struct {
		name    string
		src     *Array
		dst     *dtype.DType
		casting dtype.Casting
		ok      bool
	}{
		{"no casting same dtype", FromSlice([]int32{1}), dtype.Int32, dtype.NoCasting, true},
		{"no casting widening", FromSlice([]int32{1}), dtype.Int64, dtype.NoCasting, false},
		{"safe widening", FromSlice([]int32{1}), dtype.Int64, dtype.SafeCasting, true},
		{"safe int to float64", FromSlice([]int64{1}), dtype.Float64, dtype.SafeCasting, true},
		{"same kind narrowing float", FromSlice([]float64{1}), dtype.Float32, dtype.SameKindCasting, true},
		{"safe narrowing float", FromSlice([]float64{1}), dtype.Float32, dtype.SafeCasting, false},
		{"same kind float to int", FromSlice([]float64{1}), dtype.Int64, dtype.SameKindCasting, false},
		{"unsafe float to int", FromSlice([]float64{1}), dtype.Int64, dtype.UnsafeCasting, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssignArray(New(tt.dst, 1), tt.src, nil, tt.casting, false, nil)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrUnsafeCast)
			}
		})
	}
}

func TestUnsafeNumericConversions(t *testing.T) {
	dst := New(dtype.Int8, 4)
	require.NoError(t, AssignArray(dst, FromSlice([]int32{200, -129, 127, 256}), nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []int8{-56, 127, 127, 0}, ToSlice[int8](dst))

	u := New(dtype.Uint8, 3)
	require.NoError(t, AssignArray(u, FromSlice([]float32{0.99, 254.5, 17}), nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []uint8{0, 254, 17}, ToSlice[uint8](u))

	b := New(dtype.Bool, 4)
	require.NoError(t, AssignArray(b, FromSlice([]float64{0, -0.5, math.NaN(), 2}), nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []bool{false, true, true, true}, ToSlice[bool](b))
}

func TestHalfPrecision(t *testing.T) {
	h := New(dtype.Float16, 3)
	require.NoError(t, AssignArray(h, FromSlice([]float32{0.5, -2, 65504}), nil, dtype.SameKindCasting, false, nil))
	assert.Equal(t, []dtype.F16{0x3800, 0xc000, dtype.F16Max}, ToSlice[dtype.F16](h))

	back := New(dtype.Float64, 3)
	require.NoError(t, AssignArray(back, h, nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []float64{0.5, -2, 65504}, ToSlice[float64](back))
}

func TestStrings(t *testing.T) {
	s := New(dtype.NewString(5), 3)
	require.NoError(t, AssignArray(s, FromSlice([]int32{7, -42, 123456}), nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []byte("7\x00\x00\x00\x00"), s.ItemBytes(0))
	assert.Equal(t, []byte("-42\x00\x00"), s.ItemBytes(1))
	assert.Equal(t, []byte("12345"), s.ItemBytes(2))

	n := New(dtype.Int64, 3)
	require.NoError(t, AssignArray(n, s, nil, dtype.UnsafeCasting, false, nil))
	assert.Equal(t, []int64{7, -42, 12345}, ToSlice[int64](n))

	copy(s.ItemBytes(1), "oops\x00")
	err := AssignArray(n, s, nil, dtype.UnsafeCasting, false, nil)
	require.ErrorIs(t, err, ErrTransferFailure)
	var numErr *strconv.NumError
	require.ErrorAs(t, err, &numErr)
	assert.Equal(t, int64(7), At[int64](n, 0), "elements before the failure are committed")
}

func TestWhereMaskSelectivity(t *testing.T) {
	payload := math.Float64frombits(0x7ff8000000000123)
	dst := FromSlice([]float64{payload, 20, 30, payload, 50, 60}, 2, 3)
	src := FromSlice([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	where := FromSlice([]bool{false, true, false, false, true, true}, 2, 3)

	require.NoError(t, AssignArray(dst, src, where, dtype.SafeCasting, false, nil))
	got := ToSlice[float64](dst)
	assert.Equal(t, uint64(0x7ff8000000000123), math.Float64bits(got[0]))
	assert.Equal(t, uint64(0x7ff8000000000123), math.Float64bits(got[3]))
	assert.Equal(t, []float64{2, 30, 5, 6}, []float64{got[1], got[2], got[4], got[5]})
}

func TestWhereMaskBroadcast(t *testing.T) {
	dst := New(dtype.Int32, 3, 3)
	where := FromSlice([]bool{true, false, true})
	require.NoError(t, AssignArray(dst, NewScalar(int32(1)), where, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{1, 0, 1, 1, 0, 1, 1, 0, 1}, ToSlice[int32](dst))

	err := AssignArray(dst, NewScalar(int32(1)), FromSlice([]bool{true, false}), dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "where mask")
}

func TestWhereMaskDtype(t *testing.T) {
	dst := New(dtype.Int32, 2)
	err := AssignArray(dst, FromSlice([]int32{1, 2}), FromSlice([]int32{1, 0}), dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsafeCast)

	mask := New(dtype.Mask, 2)
	mask.buf[0] = 3
	require.NoError(t, AssignArray(dst, FromSlice([]int32{1, 2}), mask, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{1, 0}, ToSlice[int32](dst))
}

func TestWhereMaskWithNARejected(t *testing.T) {
	where := FromSlice([]bool{true, true})
	where.AllocateNA(true)
	where.SetNA(0, 1)

	err := AssignArray(New(dtype.Int32, 2), FromSlice([]int32{1, 2}), where, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsupportedNA)
	assert.Contains(t, err.Error(), "does not support NAs")

	dst := New(dtype.Int32, 2)
	dst.AllocateNA(true)
	err = AssignArray(dst, FromSlice([]int32{1, 2}), where, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsupportedNA)
	assert.Contains(t, err.Error(), "where mask with NA values")
}

func naArray(values []float64, na map[int]uint8) *Array {
	a := FromSlice(values)
	a.AllocateNA(true)
	for i, p := range na {
		a.SetNA(p, i)
	}
	return a
}

func naState(a *Array) []int {
	out := make([]int, a.Len())
	for i := range out {
		if a.IsNA(i) {
			out[i] = int(a.NAPayload(i)) + 1
		}
	}
	return out
}

// TestNAModes walks every row of the mode table. naState encodes each
// element as 0 when exposed and payload+1 when NA.
func TestNAModes(t *testing.T) {
	where := FromSlice([]bool{true, true, true, false})

	tests := []struct {
		name       string
		dst        *Array
		src        *Array
		where      *Array
		preserveNA bool
		wantValues []float64 // NaN marks "unspecified"
		wantNA     []int
	}{
		{
			name:       "src NA copied",
			dst:        naArray([]float64{9, 9, 9, 9}, map[int]uint8{2: 1}),
			src:        naArray([]float64{1, 2, 3, 4}, map[int]uint8{1: 5}),
			wantValues: []float64{1, math.NaN(), 3, 4},
			wantNA:     []int{0, 6, 0, 0},
		},
		{
			name:       "destination exposed",
			dst:        naArray([]float64{9, 9, 9, 9}, map[int]uint8{0: 1, 2: 1}),
			src:        FromSlice([]float64{1, 2, 3, 4}),
			wantValues: []float64{1, 2, 3, 4},
			wantNA:     []int{0, 0, 0, 0},
		},
		{
			name:       "preserve with src NA",
			dst:        naArray([]float64{9, 9, 99, 9}, map[int]uint8{2: 3}),
			src:        naArray([]float64{1, 2, 3, 4}, map[int]uint8{1: 5}),
			preserveNA: true,
			wantValues: []float64{1, math.NaN(), 99, 4},
			wantNA:     []int{0, 6, 4, 0},
		},
		{
			name:       "preserve without src NA",
			dst:        naArray([]float64{9, 9, 99, 9}, map[int]uint8{2: 3}),
			src:        FromSlice([]float64{1, 2, 3, 4}),
			preserveNA: true,
			wantValues: []float64{1, 2, 99, 4},
			wantNA:     []int{0, 0, 4, 0},
		},
		{
			name:       "where with src NA",
			dst:        naArray([]float64{9, 9, 9, 9}, map[int]uint8{0: 1, 3: 2}),
			src:        naArray([]float64{1, 2, 3, 4}, map[int]uint8{1: 5}),
			where:      where,
			wantValues: []float64{1, math.NaN(), 3, math.NaN()},
			wantNA:     []int{0, 6, 0, 3},
		},
		{
			name:       "where exposes destination",
			dst:        naArray([]float64{9, 9, 9, 9}, map[int]uint8{0: 1, 3: 2}),
			src:        FromSlice([]float64{1, 2, 3, 4}),
			where:      where,
			wantValues: []float64{1, 2, 3, 9},
			wantNA:     []int{0, 0, 0, 3},
		},
		{
			name:       "where preserve with src NA",
			dst:        naArray([]float64{99, 9, 9, 9}, map[int]uint8{0: 1}),
			src:        naArray([]float64{1, 2, 3, 4}, map[int]uint8{1: 5, 3: 6}),
			where:      where,
			preserveNA: true,
			wantValues: []float64{99, math.NaN(), 3, 9},
			wantNA:     []int{2, 6, 0, 0},
		},
		{
			name:       "where preserve without src NA",
			dst:        naArray([]float64{99, 9, 9, 9}, map[int]uint8{0: 1}),
			src:        FromSlice([]float64{1, 2, 3, 4}),
			where:      where,
			preserveNA: true,
			wantValues: []float64{99, 2, 3, 9},
			wantNA:     []int{2, 0, 0, 0},
		},
		{
			name:       "where without destination NA",
			dst:        FromSlice([]float64{9, 9, 9, 9}),
			src:        FromSlice([]float64{1, 2, 3, 4}),
			where:      where,
			preserveNA: true,
			wantValues: []float64{1, 2, 3, 9},
			wantNA:     []int{0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, AssignArray(tt.dst, tt.src, tt.where, dtype.SafeCasting, tt.preserveNA, nil))
			got := ToSlice[float64](tt.dst)
			for i, want := range tt.wantValues {
				if math.IsNaN(want) {
					continue
				}
				assert.Equal(t, want, got[i], "value %d", i)
			}
			assert.Equal(t, tt.wantNA, naState(tt.dst))
		})
	}
}

func TestPreserveNAChunked(t *testing.T) {
	const n = 37
	values := make([]float64, n)
	whereVals := make([]bool, n)
	na := map[int]uint8{}
	for i := range values {
		values[i] = float64(i)
		whereVals[i] = i%3 != 0
		if i%5 == 0 {
			na[i] = 7
		}
	}

	for _, bufSize := range []int{1, 3, 8, 16, 64} {
		t.Run(strconv.Itoa(bufSize), func(t *testing.T) {
			as := NewAssigner(Options{BufferSize: bufSize})
			dst := naArray(make([]float64, n), na)
			require.NoError(t, as.AssignArray(dst, FromSlice(values), FromSlice(whereVals), dtype.SafeCasting, true, nil))

			got := ToSlice[float64](dst)
			for i := range n {
				want := float64(i)
				if i%3 == 0 || i%5 == 0 {
					want = 0
				}
				assert.Equal(t, want, got[i], "element %d", i)
				assert.Equal(t, i%5 == 0, dst.IsNA(i), "NA state %d", i)
			}
		})
	}
}

func TestNARejection(t *testing.T) {
	src := naArray([]float64{1, 2, 3}, map[int]uint8{1: 0})
	dst := FromSlice([]float64{7, 7, 7})

	err := AssignArray(dst, src, nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsupportedNA)
	assert.Equal(t, []float64{7, 7, 7}, ToSlice[float64](dst))

	// The where-mask hides the only NA, so the source counts as NA-free.
	require.NoError(t, AssignArray(dst, src, FromSlice([]bool{true, false, true}), dtype.SafeCasting, false, nil))
	assert.Equal(t, []float64{1, 7, 3}, ToSlice[float64](dst))

	clean := naArray([]float64{4, 5, 6}, nil)
	require.NoError(t, AssignArray(dst, clean, nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []float64{4, 5, 6}, ToSlice[float64](dst))
}

func TestNARejectionBroadcastSource(t *testing.T) {
	// The where-mask matches dst's shape, not the lower-rank source.
	src := FromSlice([]int32{1, 2, 3})
	src.AllocateNA(true)
	where := FromSlice([]bool{true, false, true, false, true, false}, 2, 3)
	dst := New(dtype.Int32, 2, 3)
	require.NoError(t, AssignArray(dst, src, where, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{1, 0, 3, 0, 2, 0}, ToSlice[int32](dst))

	// An NA in column 1 is fine while the where-mask skips that column.
	src.SetNA(0, 1)
	dst = New(dtype.Int32, 2, 3)
	err := AssignArray(dst, src, FromSlice([]bool{true, false, true, true, false, true}, 2, 3), dtype.SafeCasting, false, nil)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 0, 3, 1, 0, 3}, ToSlice[int32](dst))

	err = AssignArray(dst, src, where, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsupportedNA)

	// A size-1 source axis broadcasts the same way.
	col := FromSlice([]int32{4, 5}, 2, 1)
	col.AllocateNA(true)
	require.NoError(t, AssignArray(dst, col, where, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{4, 0, 4, 1, 5, 3}, ToSlice[int32](dst))
}

func TestNAScalar(t *testing.T) {
	dst := naArray([]float64{1, 2, 3}, nil)
	require.NoError(t, AssignArray(dst, NewNAScalar(dtype.Float64), FromSlice([]bool{true, false, true}), dtype.SafeCasting, false, nil))
	assert.Equal(t, []int{1, 0, 1}, naState(dst))
	assert.Equal(t, []float64{1, 2, 3}, ToSlice[float64](dst))

	err := AssignArray(FromSlice([]float64{1}), NewNAScalar(dtype.Float64), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsupportedNA)

	// A 0-d view of an exposed element is an ordinary scalar.
	src := naArray([]float64{5, 6}, nil)
	elem, err := src.Index(0, 1)
	require.NoError(t, err)
	require.NoError(t, AssignArray(dst, elem, nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []float64{6, 6, 6}, ToSlice[float64](dst))
	assert.Equal(t, []int{0, 0, 0}, naState(dst))
}

func TestAssignNAPreserve(t *testing.T) {
	dst := naArray([]float64{1, 2, 3}, map[int]uint8{0: 4})
	require.NoError(t, AssignNA(dst, nil, true, nil))
	assert.Equal(t, []int{5, 1, 1}, naState(dst))

	require.NoError(t, AssignMaskNA(dst, true, FromSlice([]bool{false, true, false}), false, nil))
	assert.Equal(t, []int{5, 0, 1}, naState(dst))

	require.NoError(t, AssignMaskNA(dst, true, nil, true, nil))
	assert.Equal(t, []int{5, 0, 1}, naState(dst))

	require.NoError(t, AssignMaskNA(dst, true, nil, false, nil))
	assert.Equal(t, []int{0, 0, 0}, naState(dst))

	err := AssignMaskNA(FromSlice([]float64{1}), true, nil, false, nil)
	require.ErrorIs(t, err, ErrUnsupportedNA)
	err = AssignNA(dst, nil, false, []bool{true})
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestAssignRawScalar(t *testing.T) {
	dst := New(dtype.Int32, 2, 2)
	v := NewScalar(int16(-3))
	require.NoError(t, AssignRawScalar(dst, dtype.Int16, v.ItemBytes(), FromSlice([]bool{true, false}), dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{-3, 0, -3, 0}, ToSlice[int32](dst))

	// The scalar may alias the destination.
	require.NoError(t, AssignRawScalar(dst, dtype.Int32, dst.ItemBytes(0, 0), nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, []int32{-3, -3, -3, -3}, ToSlice[int32](dst))

	err := AssignRawScalar(dst, dtype.Int32, []byte{1, 2}, nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrIterationSetup)
	assert.Contains(t, err.Error(), "scalar holds 2 bytes")

	err = AssignRawScalar(dst, dtype.Float64, make([]byte, 8), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrUnsafeCast)
	assert.Contains(t, err.Error(), "cannot cast scalar")

	zero := New(dtype.Float32)
	require.NoError(t, AssignRawScalar(zero, dtype.Int8, []byte{0xfe}, nil, dtype.SafeCasting, false, nil))
	assert.Equal(t, float32(-2), At[float32](zero))
}

func TestReadOnlyTarget(t *testing.T) {
	dst := New(dtype.Int32, 2)
	dst.SetWriteable(false)
	err := AssignArray(dst, FromSlice([]int32{1, 2}), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrReadOnlyTarget)
	assert.Contains(t, err.Error(), "read-only")

	err = AssignArray(dst, NewScalar(int32(1)), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrReadOnlyTarget)
}

func TestPreserveWhichNA(t *testing.T) {
	dst := naArray([]float64{1, 2}, nil)
	err := AssignArray(dst, FromSlice([]float64{3, 4}), nil, dtype.SafeCasting, true, []bool{true})
	require.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, KindNotImplemented, KindOf(err))
	assert.Equal(t, []float64{1, 2}, ToSlice[float64](dst))
}

func TestCheckOrder(t *testing.T) {
	dst := New(dtype.Int8, 2)
	dst.SetWriteable(false)
	err := AssignArray(dst, FromSlice([]float64{1, 2}), nil, dtype.SafeCasting, false, []bool{true})
	require.ErrorIs(t, err, ErrReadOnlyTarget, "writeability is checked before casting")

	dst.SetWriteable(true)
	err = AssignArray(dst, FromSlice([]float64{1, 2}), nil, dtype.SafeCasting, false, []bool{true})
	require.ErrorIs(t, err, ErrUnsafeCast, "casting is checked before multi-NA")
}

func TestAllocationLimit(t *testing.T) {
	a := FromSlice(make([]int32, 16), 4, 4)
	tr, err := a.Transpose()
	require.NoError(t, err)

	as := NewAssigner(Options{MaxTempBytes: 32})
	err = as.AssignArray(a, tr, nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrAllocationFailure)

	as = NewAssigner(Options{BufferSize: 128, MaxTempBytes: 64})
	dst := naArray([]float64{1, 2}, nil)
	err = as.AssignArray(dst, FromSlice([]float64{3, 4}), FromSlice([]bool{true, true}), dtype.SafeCasting, true, nil)
	require.ErrorIs(t, err, ErrAllocationFailure)
}

func TestZeroSize(t *testing.T) {
	dst := New(dtype.Int32, 0, 3)
	require.NoError(t, AssignArray(dst, FromSlice([]int64{1, 2, 3}), nil, dtype.SameKindCasting, false, nil))

	dst = New(dtype.Int32, 3)
	err := AssignArray(dst, New(dtype.Int32, 0), nil, dtype.SafeCasting, false, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestUnalignedDestination(t *testing.T) {
	raw := New(dtype.Float64, 5)
	dst, err := raw.View(1, []int{4}, []int{8})
	require.NoError(t, err)

	require.NoError(t, AssignArray(dst, FromSlice([]int32{1, -2, 3, -4}), nil, dtype.SafeCasting, false, nil))
	for i, want := range []float64{1, -2, 3, -4} {
		bits := uint64(0)
		for b := range 8 {
			bits |= uint64(raw.buf[1+8*i+b]) << (8 * b)
		}
		assert.Equal(t, want, math.Float64frombits(bits), "element %d", i)
	}
}

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

// Package nd implements broadcasting, overlap-safe, type-casting assignment
// between N-dimensional strided arrays.
//
// An Array is a view: a dtype, a byte buffer, the byte offset of its first
// element, and per-axis extents and byte strides. Strides may be negative or
// zero, and several views may share one buffer. An Array may carry an NA
// mask, a parallel view of dtype Mask whose bytes have bit 0 set for exposed
// elements and clear for NA elements.
//
// AssignArray copies src into dst, broadcasting src to dst's shape, casting
// between dtypes under a casting rule, optionally restricted by a boolean
// where-mask, and optionally preserving NA elements already in dst:
//
//	dst := nd.New(dtype.Float32, 3, 4)
//	row := nd.FromSlice([]int16{1, 2, 3, 4})
//	if err := nd.AssignArray(dst, row, nil, dtype.SafeCasting, false, nil); err != nil {
//		return err
//	}
//
// Source and destination may alias; the result is always as if src had been
// read in full before dst was written.
package nd

import (
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"
	"unsafe"

	"github.com/samber/lo"

	"github.com/ajroetker/go-ndassign/dtype"
)

// MaxDims is the maximum number of dimensions of an Array.
const MaxDims = 32

// Array is a strided N-dimensional view over a byte buffer.
type Array struct {
	dt        *dtype.DType
	buf       []byte
	off       int // byte offset of the element at index (0, ..., 0)
	shape     []int
	strides   []int
	writeable bool
	na        *Array
}

// Element lists the Go types that map directly onto a dtype.
type Element interface {
	bool | uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64 |
		float32 | float64 | dtype.F16 | dtype.BF16
}

// DTypeOf returns the dtype whose elements are stored as T.
func DTypeOf[T Element]() *dtype.DType {
	var z T
	switch any(z).(type) {
	case bool:
		return dtype.Bool
	case uint8:
		return dtype.Uint8
	case uint16:
		return dtype.Uint16
	case uint32:
		return dtype.Uint32
	case uint64:
		return dtype.Uint64
	case int8:
		return dtype.Int8
	case int16:
		return dtype.Int16
	case int32:
		return dtype.Int32
	case int64:
		return dtype.Int64
	case float32:
		return dtype.Float32
	case float64:
		return dtype.Float64
	case dtype.F16:
		return dtype.Float16
	case dtype.BF16:
		return dtype.BFloat16
	}
	panic("unreachable")
}

// New returns a zeroed, writeable, C-contiguous array. It panics if shape
// has a negative extent, more than MaxDims axes, or too many bytes.
func New(dt *dtype.DType, shape ...int) *Array {
	a, err := allocate(dt, shape, lo.Range(len(shape)), 0)
	if err != nil {
		panic(err)
	}
	return a
}

// NewLike returns a zeroed array with a's dtype and shape whose memory
// layout follows the order of a's strides. With withNA the result carries
// an all-exposed NA mask.
func NewLike(a *Array, withNA bool) *Array {
	b, err := newLike(a, withNA, 0)
	if err != nil {
		panic(err)
	}
	return b
}

// FromSlice returns a writeable array holding a copy of values. Without a
// shape the result is 1-D; otherwise the shape's element count must equal
// len(values).
func FromSlice[T Element](values []T, shape ...int) *Array {
	if len(shape) == 0 {
		shape = []int{len(values)}
	}
	a := New(DTypeOf[T](), shape...)
	if a.Len() != len(values) {
		panic(fmt.Sprintf("nd: %d values do not fill shape %s", len(values), formatShape(shape)))
	}
	if len(values) > 0 {
		copy(a.buf, unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(values))), len(a.buf)))
	}
	return a
}

// NewScalar returns a 0-d array holding v.
func NewScalar[T Element](v T) *Array {
	a := New(DTypeOf[T]())
	*(*T)(unsafe.Pointer(&a.buf[0])) = v
	return a
}

// NewNAScalar returns a 0-d array of dtype dt whose single element is NA.
func NewNAScalar(dt *dtype.DType) *Array {
	a := New(dt)
	a.AllocateNA(false)
	return a
}

func allocate(dt *dtype.DType, shape, order []int, limit int64) (*Array, error) {
	const op = "allocate"
	if len(shape) > MaxDims {
		return nil, newError(KindShapeMismatch, op, "%d dimensions exceed the maximum of %d", len(shape), MaxDims)
	}
	n, ok := numElements(shape)
	if !ok {
		return nil, newError(KindShapeMismatch, op, "invalid shape %s", formatShape(shape))
	}
	hi, nbytes := bits.Mul64(uint64(n), uint64(dt.Size()))
	if hi != 0 || nbytes > uint64(maxInt) {
		return nil, newError(KindAllocationFailure, op, "shape %s of %s overflows", formatShape(shape), dt)
	}
	if limit > 0 && int64(nbytes) > limit {
		return nil, newError(KindAllocationFailure, op, "%d bytes for shape %s of %s exceed the limit of %d", nbytes, formatShape(shape), dt, limit)
	}

	strides := make([]int, len(shape))
	stride := dt.Size()
	for i := len(order) - 1; i >= 0; i-- {
		ax := order[i]
		strides[ax] = stride
		stride *= max(shape[ax], 1)
	}
	return &Array{
		dt:        dt,
		buf:       make([]byte, nbytes),
		shape:     slices.Clone(shape),
		strides:   strides,
		writeable: true,
	}, nil
}

const maxInt = int(^uint(0) >> 1)

// numElements returns the product of shape, or false if an extent is
// negative or the product overflows.
func numElements(shape []int) (int, bool) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, false
		}
		hi, prod := bits.Mul64(uint64(n), uint64(d))
		if hi != 0 || prod > uint64(maxInt) {
			return 0, false
		}
		n = int(prod)
	}
	return n, true
}

// keepOrder lists a's axes from largest to smallest absolute stride, ties in
// axis order.
func keepOrder(strides []int) []int {
	order := lo.Range(len(strides))
	slices.SortStableFunc(order, func(i, j int) int {
		return absInt(strides[j]) - absInt(strides[i])
	})
	return order
}

func newLike(a *Array, withNA bool, limit int64) (*Array, error) {
	b, err := allocate(a.dt, a.shape, keepOrder(a.strides), limit)
	if err != nil {
		return nil, err
	}
	if withNA {
		b.AllocateNA(true)
	}
	return b, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DType returns the element dtype.
func (a *Array) DType() *dtype.DType { return a.dt }

// NDim returns the number of axes.
func (a *Array) NDim() int { return len(a.shape) }

// Shape returns a copy of the per-axis extents.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Strides returns a copy of the per-axis byte strides.
func (a *Array) Strides() []int { return slices.Clone(a.strides) }

// Len returns the number of elements.
func (a *Array) Len() int {
	n, _ := numElements(a.shape)
	return n
}

// IsWriteable reports whether the array may be assigned to.
func (a *Array) IsWriteable() bool { return a.writeable }

// SetWriteable sets the writeable flag. It applies to a's NA mask too.
func (a *Array) SetWriteable(w bool) {
	a.writeable = w
	if a.na != nil {
		a.na.writeable = w
	}
}

func (a *Array) String() string {
	s := fmt.Sprintf("Array(%s, shape=%s", a.dt, formatShape(a.shape))
	if a.na != nil {
		s += ", na"
	}
	return s + ")"
}

func formatShape(shape []int) string {
	return "(" + strings.Join(lo.Map(shape, func(d int, _ int) string { return strconv.Itoa(d) }), ",") + ")"
}

// addr returns the absolute address of the element origin.
func (a *Array) addr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(a.buf))) + uintptr(a.off)
}

// footprint returns the half-open address range spanned by the view. It is
// empty for zero-size arrays.
func (a *Array) footprint() (start, end uintptr) {
	if a.Len() == 0 {
		return 0, 0
	}
	low, high := 0, a.dt.Size()
	for i, d := range a.shape {
		ext := (d - 1) * a.strides[i]
		if ext < 0 {
			low += ext
		} else {
			high += ext
		}
	}
	base := a.addr()
	return base + uintptr(low), base + uintptr(high)
}

// View returns a view of a's buffer starting offset bytes from a's element
// origin with the given shape and byte strides. The view must lie within the
// buffer. Arrays with an NA mask cannot be re-strided this way; use Slice,
// Index or Transpose.
func (a *Array) View(offset int, shape, strides []int) (*Array, error) {
	const op = "view"
	if a.na != nil {
		return nil, newError(KindShapeMismatch, op, "explicit strides cannot carry an NA mask")
	}
	if len(shape) != len(strides) {
		return nil, newError(KindShapeMismatch, op, "%d extents but %d strides", len(shape), len(strides))
	}
	if len(shape) > MaxDims {
		return nil, newError(KindShapeMismatch, op, "%d dimensions exceed the maximum of %d", len(shape), MaxDims)
	}
	n, ok := numElements(shape)
	if !ok {
		return nil, newError(KindShapeMismatch, op, "invalid shape %s", formatShape(shape))
	}
	v := &Array{
		dt:        a.dt,
		buf:       a.buf,
		off:       a.off + offset,
		shape:     slices.Clone(shape),
		strides:   slices.Clone(strides),
		writeable: a.writeable,
	}
	if n == 0 {
		return v, nil
	}
	low, high := v.off, v.off+a.dt.Size()
	for i, d := range shape {
		ext := (d - 1) * strides[i]
		if ext < 0 {
			low += ext
		} else {
			high += ext
		}
	}
	if low < 0 || high > len(a.buf) {
		return nil, newError(KindShapeMismatch, op, "view spans bytes [%d, %d) of a %d byte buffer", low, high, len(a.buf))
	}
	return v, nil
}

// derive applies the same geometry change to a and its NA mask.
func (a *Array) derive(fn func(off int, shape, strides []int) (int, []int, []int)) *Array {
	v := *a
	v.off, v.shape, v.strides = fn(a.off, slices.Clone(a.shape), slices.Clone(a.strides))
	if a.na != nil {
		v.na = a.na.derive(fn)
	}
	return &v
}

// Slice restricts axis to the indices start, start+step, ... up to but not
// including stop. A negative step walks backwards; stop may then be -1.
func (a *Array) Slice(axis, start, stop, step int) (*Array, error) {
	const op = "slice"
	if axis < 0 || axis >= a.NDim() {
		return nil, newError(KindShapeMismatch, op, "axis %d out of range for %d dimensions", axis, a.NDim())
	}
	if step == 0 {
		return nil, newError(KindShapeMismatch, op, "step must not be zero")
	}
	d := a.shape[axis]
	var n int
	if step > 0 {
		start, stop = clamp(start, 0, d), clamp(stop, 0, d)
		if stop > start {
			n = (stop - start + step - 1) / step
		}
	} else {
		start, stop = clamp(start, -1, d-1), clamp(stop, -1, d-1)
		if start > stop {
			n = (start - stop - step - 1) / -step
		}
	}
	return a.derive(func(off int, shape, strides []int) (int, []int, []int) {
		if n > 0 {
			off += start * strides[axis]
		}
		shape[axis] = n
		strides[axis] *= step
		return off, shape, strides
	}), nil
}

func clamp(x, low, high int) int {
	return min(max(x, low), high)
}

// Index returns the view at index i of axis, with that axis removed.
func (a *Array) Index(axis, i int) (*Array, error) {
	const op = "index"
	if axis < 0 || axis >= a.NDim() {
		return nil, newError(KindShapeMismatch, op, "axis %d out of range for %d dimensions", axis, a.NDim())
	}
	if i < 0 || i >= a.shape[axis] {
		return nil, newError(KindShapeMismatch, op, "index %d out of range for extent %d", i, a.shape[axis])
	}
	return a.derive(func(off int, shape, strides []int) (int, []int, []int) {
		off += i * strides[axis]
		return off, slices.Delete(shape, axis, axis+1), slices.Delete(strides, axis, axis+1)
	}), nil
}

// Transpose permutes the axes. Without arguments the axis order is reversed.
func (a *Array) Transpose(perm ...int) (*Array, error) {
	nd := a.NDim()
	if len(perm) == 0 {
		perm = make([]int, nd)
		for i := range perm {
			perm[i] = nd - 1 - i
		}
	}
	if len(perm) != nd || len(lo.Uniq(perm)) != nd || !lo.EveryBy(perm, func(p int) bool { return p >= 0 && p < nd }) {
		return nil, newError(KindShapeMismatch, "transpose", "invalid permutation %v for %d dimensions", perm, nd)
	}
	return a.derive(func(off int, shape, strides []int) (int, []int, []int) {
		return off, lo.Map(perm, func(p int, _ int) int { return shape[p] }),
			lo.Map(perm, func(p int, _ int) int { return strides[p] })
	}), nil
}

// offsetOf returns the byte offset of the element at idx. It panics on a
// wrong index count or an out-of-range index.
func (a *Array) offsetOf(idx []int) int {
	if len(idx) != a.NDim() {
		panic(fmt.Sprintf("nd: %d indices for %d dimensions", len(idx), a.NDim()))
	}
	off := a.off
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("nd: index %d out of range for axis %d with extent %d", x, i, a.shape[i]))
		}
		off += x * a.strides[i]
	}
	return off
}

// forEach calls fn with the byte offset of every element in C order.
func (a *Array) forEach(fn func(off int)) {
	if a.Len() == 0 {
		return
	}
	nd := a.NDim()
	idx := make([]int, nd)
	off := a.off
	for {
		fn(off)
		d := nd - 1
		for ; d >= 0; d-- {
			idx[d]++
			off += a.strides[d]
			if idx[d] < a.shape[d] {
				break
			}
			off -= a.strides[d] * a.shape[d]
			idx[d] = 0
		}
		if d < 0 {
			return
		}
	}
}

func checkElement[T Element](a *Array) {
	if want := DTypeOf[T](); !dtype.Equivalent(a.dt, want) {
		panic(fmt.Sprintf("nd: %s array accessed as %s", a.dt, want))
	}
}

// At returns the element at idx.
func At[T Element](a *Array, idx ...int) T {
	checkElement[T](a)
	return *(*T)(unsafe.Pointer(&a.buf[a.offsetOf(idx)]))
}

// SetAt stores v at idx. It does not change the element's NA state.
func SetAt[T Element](a *Array, v T, idx ...int) {
	checkElement[T](a)
	*(*T)(unsafe.Pointer(&a.buf[a.offsetOf(idx)])) = v
}

// ToSlice returns the elements in C order.
func ToSlice[T Element](a *Array) []T {
	checkElement[T](a)
	out := make([]T, 0, a.Len())
	a.forEach(func(off int) {
		out = append(out, *(*T)(unsafe.Pointer(&a.buf[off])))
	})
	return out
}

// ItemBytes returns the bytes of the element at idx. The slice aliases the
// array's buffer.
func (a *Array) ItemBytes(idx ...int) []byte {
	off := a.offsetOf(idx)
	return a.buf[off : off+a.dt.Size() : off+a.dt.Size()]
}

// AllocateNA attaches an NA mask to a, with every element exposed or every
// element NA. It does nothing if a already has one.
func (a *Array) AllocateNA(exposed bool) {
	if a.na != nil {
		return
	}
	m, err := allocate(dtype.Mask, a.shape, keepOrder(a.strides), 0)
	if err != nil {
		panic(err)
	}
	if exposed {
		for i := range m.buf {
			m.buf[i] = 1
		}
	}
	m.writeable = a.writeable
	a.na = m
}

// HasNA reports whether a carries an NA mask.
func (a *Array) HasNA() bool { return a.na != nil }

// NAMask returns the NA mask view, or nil.
func (a *Array) NAMask() *Array { return a.na }

// IsNA reports whether the element at idx is NA. Arrays without an NA mask
// have no NA elements.
func (a *Array) IsNA(idx ...int) bool {
	if a.na == nil {
		a.offsetOf(idx)
		return false
	}
	return a.na.buf[a.na.offsetOf(idx)]&1 == 0
}

// SetNA marks the element at idx NA with the given 7-bit payload. The
// element's value bytes are left alone.
func (a *Array) SetNA(payload uint8, idx ...int) {
	if a.na == nil {
		panic("nd: SetNA on an array without an NA mask")
	}
	a.na.buf[a.na.offsetOf(idx)] = payload << 1
}

// Expose clears the NA state of the element at idx.
func (a *Array) Expose(idx ...int) {
	if a.na == nil {
		panic("nd: Expose on an array without an NA mask")
	}
	a.na.buf[a.na.offsetOf(idx)] = 1
}

// NAPayload returns the payload of the NA element at idx, or 0 if the
// element is exposed.
func (a *Array) NAPayload(idx ...int) uint8 {
	if !a.IsNA(idx...) {
		return 0
	}
	return a.na.buf[a.na.offsetOf(idx)] >> 1
}

// Values returns a view of a's elements without its NA mask.
func (a *Array) Values() *Array {
	v := *a
	v.shape, v.strides = slices.Clone(a.shape), slices.Clone(a.strides)
	v.na = nil
	return &v
}

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

package transfer

import (
	"sync"
	"unsafe"

	"github.com/ajroetker/go-ndassign/dtype"
)

// native lists the element types Go converts directly. The list is closed
// (no ~) so the half-precision storage types never take the integer path.
type native interface {
	uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64 | float32 | float64
}

// half is satisfied by the 16-bit float storage types.
type half interface {
	dtype.F16 | dtype.BF16
	Float32() float32
}

// load reads a T at b[off]. The address must be aligned for T.
func load[T any](b []byte, off int) T {
	return *(*T)(unsafe.Pointer(&b[off]))
}

// store writes v at b[off]. The address must be aligned for T.
func store[T any](b []byte, off int, v T) {
	*(*T)(unsafe.Pointer(&b[off])) = v
}

func castNative[S, D native](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		store(dst.Buf, d, D(load[S](src.Buf, s)))
		d += dst.Stride
		s += src.Stride
	}
}

func fromBool[D native](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		var v D
		if src.Buf[s] != 0 {
			v = 1
		}
		store(dst.Buf, d, v)
		d += dst.Stride
		s += src.Stride
	}
}

func toBool[S native](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		// NaN compares unequal to zero and so becomes true.
		if load[S](src.Buf, s) != 0 {
			dst.Buf[d] = 1
		} else {
			dst.Buf[d] = 0
		}
		d += dst.Stride
		s += src.Stride
	}
}

func copyBool(dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		if src.Buf[s] != 0 {
			dst.Buf[d] = 1
		} else {
			dst.Buf[d] = 0
		}
		d += dst.Stride
		s += src.Stride
	}
}

func fromHalf[H half, D native](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		store(dst.Buf, d, D(load[H](src.Buf, s).Float32()))
		d += dst.Stride
		s += src.Stride
	}
}

func halfToBool[H half](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		f := load[H](src.Buf, s).Float32()
		if f != 0 {
			dst.Buf[d] = 1
		} else {
			dst.Buf[d] = 0
		}
		d += dst.Stride
		s += src.Stride
	}
}

func toF16[S native](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		store(dst.Buf, d, dtype.F16FromFloat32(float32(load[S](src.Buf, s))))
		d += dst.Stride
		s += src.Stride
	}
}

func toBF16[S native](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		store(dst.Buf, d, dtype.BF16FromFloat32(float32(load[S](src.Buf, s))))
		d += dst.Stride
		s += src.Stride
	}
}

func halfToF16[H half](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		store(dst.Buf, d, dtype.F16FromFloat32(load[H](src.Buf, s).Float32()))
		d += dst.Stride
		s += src.Stride
	}
}

func halfToBF16[H half](dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		store(dst.Buf, d, dtype.BF16FromFloat32(load[H](src.Buf, s).Float32()))
		d += dst.Stride
		s += src.Stride
	}
}

func boolToF16(dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		v := dtype.F16(0)
		if src.Buf[s] != 0 {
			v = dtype.F16One
		}
		store(dst.Buf, d, v)
		d += dst.Stride
		s += src.Stride
	}
}

func boolToBF16(dst, src Run, n int) {
	d, s := dst.Off, src.Off
	for range n {
		v := dtype.BF16(0)
		if src.Buf[s] != 0 {
			v = dtype.BF16One
		}
		store(dst.Buf, d, v)
		d += dst.Stride
		s += src.Stride
	}
}

// copyKernel moves elements of equivalent dtypes byte for byte. Contiguous
// runs use the builtin copy, which behaves like memmove for overlapping
// buffers.
func copyKernel(size int, aligned bool, srcStride, dstStride int) kernel {
	contiguous := func(dst, src Run, n int) bool {
		if dst.Stride != size || src.Stride != size || n <= 0 {
			return false
		}
		copy(dst.Buf[dst.Off:dst.Off+n*size], src.Buf[src.Off:src.Off+n*size])
		return true
	}

	var elem kernel
	switch {
	case aligned && size == 2:
		elem = castNative[uint16, uint16]
	case aligned && size == 4:
		elem = castNative[uint32, uint32]
	case aligned && size == 8:
		elem = castNative[uint64, uint64]
	case size == 1:
		elem = castNative[uint8, uint8]
	default:
		elem = func(dst, src Run, n int) {
			d, s := dst.Off, src.Off
			for range n {
				copy(dst.Buf[d:d+size], src.Buf[s:s+size])
				d += dst.Stride
				s += src.Stride
			}
		}
	}

	if srcStride == size && dstStride == size {
		return func(dst, src Run, n int) {
			if !contiguous(dst, src, n) {
				elem(dst, src, n)
			}
		}
	}
	return elem
}

// alignChunk is the number of elements staged per step by alignedWrapper.
const alignChunk = 128

// scratchPool holds 8-byte aligned staging buffers big enough for
// alignChunk elements of the widest dtype on each side.
var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]uint64, 2*alignChunk)
		return &buf
	},
}

// alignedWrapper stages unaligned operands through aligned scratch memory so
// that the typed kernel only ever sees aligned addresses.
type alignedWrapper struct {
	k                kernel
	srcSize, dstSize int
	scratch          *[]uint64
}

func newAlignedWrapper(k kernel, srcSize, dstSize int) *alignedWrapper {
	return &alignedWrapper{
		k:       k,
		srcSize: srcSize,
		dstSize: dstSize,
		scratch: scratchPool.Get().(*[]uint64),
	}
}

func (w *alignedWrapper) Transfer(dst, src Run, n int) error {
	words := *w.scratch
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*8)
	srcBuf := raw[:alignChunk*8]
	dstBuf := raw[alignChunk*8:]

	for n > 0 {
		count := min(n, alignChunk)

		s := src.Off
		for i := range count {
			copy(srcBuf[i*w.srcSize:(i+1)*w.srcSize], src.Buf[s:s+w.srcSize])
			s += src.Stride
		}

		w.k(Run{Buf: dstBuf, Stride: w.dstSize}, Run{Buf: srcBuf, Stride: w.srcSize}, count)

		d := dst.Off
		for i := range count {
			copy(dst.Buf[d:d+w.dstSize], dstBuf[i*w.dstSize:(i+1)*w.dstSize])
			d += dst.Stride
		}

		src = src.Advance(count)
		dst = dst.Advance(count)
		n -= count
	}
	return nil
}

func (w *alignedWrapper) release() {
	if w.scratch != nil {
		scratchPool.Put(w.scratch)
		w.scratch = nil
	}
}

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

// Package transfer resolves strided copy-and-cast kernels between element
// types.
//
// A kernel moves a run of n elements from one strided operand to another,
// converting each element from the source dtype to the destination dtype.
// Kernels are resolved once per assignment and reused for every inner run:
//
//	fn, needsAPI, err := transfer.Get(aligned, srcStride, dstStride, src, dst)
//	if err != nil {
//		return err
//	}
//	defer transfer.Release(fn)
//	for each inner run {
//		if err := fn.Transfer(dstRun, srcRun, n); err != nil { ... }
//	}
//
// Numeric conversions follow Go's conversion rules: float to integer
// truncates toward zero, integer narrowing wraps, and out-of-range float to
// integer conversions produce platform-defined values. Conversions involving
// fixed-width strings parse or format text and may fail; for those needsAPI
// is true and callers must check every call's error.
package transfer

//go:generate go run ../cmd/ndgen -output cast_table_gen.go

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-ndassign/dtype"
)

// Run is one operand of an inner loop: element i lives at
// Buf[Off+i*Stride]. Stride is in bytes and may be negative or zero.
type Run struct {
	Buf    []byte
	Off    int
	Stride int
}

// Advance returns r moved forward by n elements.
func (r Run) Advance(n int) Run {
	r.Off += n * r.Stride
	return r
}

// Func copies and casts n elements from src into dst.
type Func interface {
	Transfer(dst, src Run, n int) error
}

// MaskedFunc copies and casts the elements of a run whose mask byte has bit 0
// set. Other destination elements are left untouched.
type MaskedFunc interface {
	TransferMasked(dst, src, mask Run, n int) error
}

// ErrUnsupported is returned when no kernel exists for a dtype pair.
var ErrUnsupported = errors.New("transfer: unsupported dtype pair")

// releaser is implemented by kernels that hold pooled scratch memory.
type releaser interface {
	release()
}

// Release returns any auxiliary data held by fn. It is safe to call with nil
// or with kernels that hold nothing, and must be called exactly once per
// resolved kernel.
func Release(fn any) {
	if r, ok := fn.(releaser); ok {
		r.release()
	}
}

// kernel is the inner loop of a conversion that cannot fail.
type kernel func(dst, src Run, n int)

type plainFunc struct {
	k kernel
}

func (f plainFunc) Transfer(dst, src Run, n int) error {
	f.k(dst, src, n)
	return nil
}

// Get returns a kernel converting src elements to dst elements. aligned
// promises that every element address of both operands is a multiple of its
// dtype's alignment. The strides are the inner strides the kernel will most
// often see; they only steer fast-path selection.
func Get(aligned bool, srcStride, dstStride int, src, dst *dtype.DType) (Func, bool, error) {
	needsAPI := src.NeedsAPI() || dst.NeedsAPI()

	if dtype.Equivalent(src, dst) {
		return plainFunc{k: copyKernel(src.Size(), aligned, srcStride, dstStride)}, needsAPI, nil
	}

	if src.Kind() == dtype.KindString || dst.Kind() == dtype.KindString {
		return newStringFunc(src, dst), needsAPI, nil
	}

	k := castTable[src.Kind()][dst.Kind()]
	if k == nil {
		return nil, needsAPI, fmt.Errorf("%w: %s to %s", ErrUnsupported, src, dst)
	}
	if !aligned {
		return newAlignedWrapper(k, src.Size(), dst.Size()), needsAPI, nil
	}
	return plainFunc{k: k}, needsAPI, nil
}

// GetMasked returns a masked kernel converting src elements to dst elements.
// The mask dtype must be Bool, Mask or Uint8; bit 0 of each mask byte selects
// the element.
func GetMasked(aligned bool, srcStride, dstStride, maskStride int, src, dst, mask *dtype.DType) (MaskedFunc, bool, error) {
	if err := checkMaskDtype(mask); err != nil {
		return nil, false, err
	}
	fn, needsAPI, err := Get(aligned, srcStride, dstStride, src, dst)
	if err != nil {
		return nil, needsAPI, err
	}
	return &maskedWrapper{fn: fn}, needsAPI, nil
}

func checkMaskDtype(d *dtype.DType) error {
	switch d.Kind() {
	case dtype.KindBool, dtype.KindMask, dtype.KindUint8:
		return nil
	}
	return fmt.Errorf("%w: %s cannot act as a mask", ErrUnsupported, d)
}

// maskedWrapper runs the unmasked kernel over each maximal stretch of
// selected elements.
type maskedWrapper struct {
	fn Func
}

func (w *maskedWrapper) TransferMasked(dst, src, mask Run, n int) error {
	off := mask.Off
	for i := 0; i < n; {
		for i < n && mask.Buf[off]&1 == 0 {
			i++
			off += mask.Stride
		}
		start := i
		for i < n && mask.Buf[off]&1 != 0 {
			i++
			off += mask.Stride
		}
		if i > start {
			if err := w.fn.Transfer(dst.Advance(start), src.Advance(start), i-start); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *maskedWrapper) release() {
	Release(w.fn)
}

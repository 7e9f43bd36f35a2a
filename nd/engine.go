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
	"go.uber.org/zap"

	"github.com/ajroetker/go-ndassign/dtype"
	"github.com/ajroetker/go-ndassign/transfer"
)

// engine runs the raw transfer loops of one assignment. Operand strides
// must already be broadcast to shape.
type engine struct {
	opts Options
	op   string
}

func (e engine) resolveError(err error, src, dst *dtype.DType) error {
	return wrapError(KindUnsafeCast, e.op, err, "no transfer function from %s to %s", src, dst)
}

func (e engine) transferError(err error, src, dst *dtype.DType) error {
	return wrapError(KindTransferFailure, e.op, err, "transferring %s to %s", src, dst)
}

// runOuter executes body over every inner run, splitting the outer range
// across the worker pool when allowed.
func (e engine) runOuter(it *rawIter, parallel bool, body func(start, end int) error) error {
	outer := it.outerSize()
	if pool := e.opts.Pool; parallel && pool != nil && it.splittable() {
		Logger().Debug("splitting outer loop",
			zap.String("op", e.op), zap.Int("runs", outer), zap.Int("workers", pool.NumWorkers()))
		return pool.ParallelFor(outer, body)
	}
	return body(0, outer)
}

func (e engine) prepare(shape []int, ops ...rawOperand) (*rawIter, error) {
	it, err := prepareRawIter(shape, ops...)
	if err != nil {
		return nil, err
	}
	if reverseIfOverlapping(it) {
		Logger().Debug("reversing overlapping 1-D assignment", zap.String("op", e.op), zap.Int("n", it.shape[0]))
	}
	return it, nil
}

// assign copies src into dst everywhere.
func (e engine) assign(shape []int, dstDt *dtype.DType, dst rawOperand, srcDt *dtype.DType, src rawOperand) error {
	aligned := dst.isAligned(shape, dstDt.Alignment()) && src.isAligned(shape, srcDt.Alignment())
	it, err := e.prepare(shape, dst, src)
	if err != nil || it.empty() {
		return err
	}
	d, s := it.ops[0], it.ops[1]

	fn, needsAPI, err := transfer.Get(aligned, s.strides[0], d.strides[0], srcDt, dstDt)
	if err != nil {
		return e.resolveError(err, srcDt, dstDt)
	}
	defer transfer.Release(fn)

	inner := it.shape[0]
	return e.runOuter(it, aligned && !needsAPI, func(start, end int) error {
		return it.walk(start, end, func(offs []int) error {
			if err := fn.Transfer(d.run(offs[0]), s.run(offs[1]), inner); err != nil {
				return e.transferError(err, srcDt, dstDt)
			}
			return nil
		})
	})
}

// assignMasked copies src into dst where bit 0 of mask is set.
func (e engine) assignMasked(shape []int, dstDt *dtype.DType, dst rawOperand, srcDt *dtype.DType, src rawOperand,
	maskDt *dtype.DType, mask rawOperand) error {
	aligned := dst.isAligned(shape, dstDt.Alignment()) && src.isAligned(shape, srcDt.Alignment())
	it, err := e.prepare(shape, dst, src, mask)
	if err != nil || it.empty() {
		return err
	}
	d, s, m := it.ops[0], it.ops[1], it.ops[2]

	fn, needsAPI, err := transfer.GetMasked(aligned, s.strides[0], d.strides[0], m.strides[0], srcDt, dstDt, maskDt)
	if err != nil {
		return e.resolveError(err, srcDt, dstDt)
	}
	defer transfer.Release(fn)

	inner := it.shape[0]
	return e.runOuter(it, aligned && !needsAPI, func(start, end int) error {
		return it.walk(start, end, func(offs []int) error {
			if err := fn.TransferMasked(d.run(offs[0]), s.run(offs[1]), m.run(offs[2]), inner); err != nil {
				return e.transferError(err, srcDt, dstDt)
			}
			return nil
		})
	})
}

// assignPreserveNA copies src into dst where na is exposed and where is
// true. The two masks are combined a chunk at a time into a scratch buffer
// of opts.BufferSize bytes.
func (e engine) assignPreserveNA(shape []int, dstDt *dtype.DType, dst rawOperand, srcDt *dtype.DType, src rawOperand,
	naDt *dtype.DType, na rawOperand, whereDt *dtype.DType, where rawOperand) error {
	aligned := dst.isAligned(shape, dstDt.Alignment()) && src.isAligned(shape, srcDt.Alignment())
	it, err := e.prepare(shape, dst, src, na, where)
	if err != nil || it.empty() {
		return err
	}
	d, s, m, w := it.ops[0], it.ops[1], it.ops[2], it.ops[3]

	size := e.opts.BufferSize
	if err := e.opts.checkAlloc(e.op, "mask buffer", int64(size)*int64(dtype.Mask.Size())); err != nil {
		return err
	}
	buf := make([]byte, size*dtype.Mask.Size())

	fn, _, err := transfer.GetMasked(aligned, s.strides[0], d.strides[0], dtype.Mask.Size(), srcDt, dstDt, dtype.Mask)
	if err != nil {
		return e.resolveError(err, srcDt, dstDt)
	}
	defer transfer.Release(fn)

	and, err := transfer.GetMaskAnd(m.strides[0], naDt, w.strides[0], whereDt)
	if err != nil {
		return e.resolveError(err, naDt, whereDt)
	}

	chunkMask := transfer.Run{Buf: buf, Stride: dtype.Mask.Size()}
	return it.walk(0, it.outerSize(), func(offs []int) error {
		dr, sr, mr, wr := d.run(offs[0]), s.run(offs[1]), m.run(offs[2]), w.run(offs[3])
		for count := it.shape[0]; count > 0; {
			n := min(count, size)
			and.MaskAnd(buf, mr, wr, n)
			if err := fn.TransferMasked(dr, sr, chunkMask, n); err != nil {
				return e.transferError(err, srcDt, dstDt)
			}
			dr, sr, mr, wr = dr.Advance(n), sr.Advance(n), mr.Advance(n), wr.Advance(n)
			count -= n
		}
		return nil
	})
}

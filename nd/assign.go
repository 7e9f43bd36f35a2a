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
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ajroetker/go-ndassign/dtype"
)

// Assigner performs array assignments under a fixed set of Options. It is
// safe for concurrent use.
type Assigner struct {
	opts Options
}

// NewAssigner returns an Assigner using opts, with zero fields defaulted.
func NewAssigner(opts Options) *Assigner {
	return &Assigner{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (as *Assigner) Options() Options { return as.opts }

var defaultAssigner = sync.OnceValue(func() *Assigner {
	return NewAssigner(DefaultOptions())
})

// AssignArray assigns src to dst using DefaultOptions. See
// (*Assigner).AssignArray.
func AssignArray(dst, src, wheremask *Array, casting dtype.Casting, preserveNA bool, preserveWhichNA []bool) error {
	return defaultAssigner().AssignArray(dst, src, wheremask, casting, preserveNA, preserveWhichNA)
}

// AssignArray copies src into dst, broadcasting src to dst's shape and
// casting its elements to dst's dtype.
//
// A non-nil wheremask (dtype Bool or Mask, broadcastable to dst) restricts
// the assignment to the positions where it is true. If dst has an NA mask,
// NA elements of src become NA in dst; with preserveNA, elements already NA
// in dst are left untouched, mask and payload included. preserveWhichNA must
// be nil.
//
// A 0-d src is assigned as a scalar: an NA scalar through AssignNA, any
// other through AssignRawScalar. src and dst may share memory.
//
// On failure dst may have been partially written.
func (as *Assigner) AssignArray(dst, src, wheremask *Array, casting dtype.Casting, preserveNA bool, preserveWhichNA []bool) error {
	const op = "assign array"

	if src.NDim() == 0 {
		if src.na != nil && src.IsNA() {
			return as.AssignNA(dst, wheremask, preserveNA, preserveWhichNA)
		}
		return as.AssignRawScalar(dst, src.dt, src.ItemBytes(), wheremask, casting, preserveNA, preserveWhichNA)
	}

	if isRedundantCopy(dst, src) {
		Logger().Debug("skipping assignment of an array to itself", zap.Stringer("array", dst))
		return nil
	}

	if !dst.writeable {
		return newError(KindReadOnlyTarget, op, "cannot assign to a read-only array")
	}
	if !dtype.CanCast(src.dt, dst.dt, casting) {
		return newError(KindUnsafeCast, op, "cannot cast array data from %s to %s according to the rule %s",
			src.dt, dst.dt, casting)
	}
	if preserveWhichNA != nil {
		return newError(KindNotImplemented, op, "multi-NA support is not yet implemented")
	}

	srcHasNA := src.na != nil
	if srcHasNA && dst.na == nil {
		// Scanned over dst's shape, the only one the where-mask must fit.
		naStrides, err := broadcastNA(dst, src)
		if err != nil {
			return err
		}
		var whereStrides []int
		if wheremask != nil {
			if whereStrides, err = broadcastWhere(op, dst.shape, wheremask); err != nil {
				return err
			}
		}
		found, err := scanNA(dst.shape, operand(src.na, naStrides), wheremask, whereStrides)
		if err != nil {
			return err
		}
		if found {
			return newError(KindUnsupportedNA, op, "cannot assign NA to an array which does not support NAs")
		}
		srcHasNA = false
	}

	if needsTempCopy(dst, src) {
		tmp, err := newLike(dst, src.na != nil, as.opts.MaxTempBytes)
		if err != nil {
			return wrapError(KindAllocationFailure, op, err, "temporary copy of overlapping source")
		}
		Logger().Debug("copying overlapping source to a temporary",
			zap.Stringer("src", src), zap.Stringer("dst", dst))
		if err := as.AssignArray(tmp, src, nil, dtype.UnsafeCasting, false, nil); err != nil {
			return err
		}
		src = tmp
	}

	shape, strides := stripUnitDims(dst.NDim(), src.shape, src.strides)
	srcStrides, err := BroadcastStrides(dst.shape, shape, strides, "input array")
	if err != nil {
		return err
	}
	var srcNA *rawOperand
	if srcHasNA {
		naStrides, err := broadcastNA(dst, src)
		if err != nil {
			return err
		}
		o := operand(src.na, naStrides)
		srcNA = &o
	}

	var whereStrides []int
	if wheremask != nil {
		if whereStrides, err = as.prepareWhere(op, dst, wheremask); err != nil {
			return err
		}
	}

	return as.dispatch(engine{opts: as.opts, op: op}, dst, src.dt, operand(src, srcStrides), srcNA,
		wheremask, whereStrides, preserveNA)
}

// broadcastNA returns the strides of src's NA mask broadcast to dst's shape.
func broadcastNA(dst, src *Array) ([]int, error) {
	shape, strides := stripUnitDims(dst.NDim(), src.na.shape, src.na.strides)
	return BroadcastStrides(dst.shape, shape, strides, "input array")
}

// isRedundantCopy reports whether dst and src are the same view: same data
// address, NA mask address, dtype identity, shape and strides.
func isRedundantCopy(dst, src *Array) bool {
	return dst.addr() == src.addr() &&
		naAddr(dst) == naAddr(src) &&
		dst.dt == src.dt &&
		slices.Equal(dst.shape, src.shape) &&
		slices.Equal(dst.strides, src.strides)
}

func naAddr(a *Array) uintptr {
	if a.na == nil {
		return 0
	}
	return a.na.addr()
}

// prepareWhere validates a where-mask and returns its strides broadcast to
// dst's shape.
func (as *Assigner) prepareWhere(op string, dst, where *Array) ([]int, error) {
	switch where.dt.Kind() {
	case dtype.KindBool, dtype.KindMask:
	default:
		return nil, newError(KindUnsafeCast, op, "where mask must be bool, not %s", where.dt)
	}
	found, err := as.containsNA(op, where, nil)
	if err != nil {
		return nil, err
	}
	if found {
		if dst.na == nil {
			return nil, newError(KindUnsupportedNA, op, "cannot assign NA to an array which does not support NAs")
		}
		return nil, newError(KindUnsupportedNA, op, "a where mask with NA values is not supported")
	}
	return broadcastWhere(op, dst.shape, where)
}

// mode names the transfer plan for logging.
func mode(where, dstNA, srcNA, preserveNA bool) string {
	var m string
	switch {
	case where && preserveNA && dstNA:
		m = "where-masked, preserving NA"
	case where:
		m = "where-masked"
	case preserveNA && dstNA:
		m = "masked by destination NA"
	default:
		m = "unmasked"
	}
	switch {
	case dstNA && srcNA:
		m += ", copying NA mask"
	case dstNA && !preserveNA:
		m += ", exposing destination"
	}
	return m
}

// dispatch runs the transfers for one assignment. src and srcNA carry
// strides already broadcast to dst; srcNA is nil when the source has no NA
// mask or its NA mask is being ignored.
func (as *Assigner) dispatch(e engine, dst *Array, srcDt *dtype.DType, src rawOperand, srcNA *rawOperand,
	where *Array, whereStrides []int, preserveNA bool) error {
	shape := dst.shape
	dstOp := operand(dst, dst.strides)
	dstHasNA := dst.na != nil

	Logger().Debug("assigning",
		zap.String("op", e.op),
		zap.String("mode", mode(where != nil, dstHasNA, srcNA != nil, preserveNA)),
		zap.Stringer("src", srcDt),
		zap.Stringer("dst", dst))

	var dstNA rawOperand
	var maskDt *dtype.DType
	if dstHasNA {
		dstNA = operand(dst.na, dst.na.strides)
		maskDt = dst.na.dt
	}

	if where == nil {
		if !preserveNA || !dstHasNA {
			if dstHasNA {
				if srcNA != nil {
					// Values before the mask: an overlapping source NA mask
					// must be read before the destination mask changes.
					if err := e.assignMasked(shape, dst.dt, dstOp, srcDt, src, maskDt, *srcNA); err != nil {
						return err
					}
					return e.assign(shape, maskDt, dstNA, maskDt, *srcNA)
				}
				if err := as.fillMask(e, dst, true, nil, nil, false); err != nil {
					return err
				}
			}
			return e.assign(shape, dst.dt, dstOp, srcDt, src)
		}
		if srcNA != nil {
			if err := e.assignMasked(shape, maskDt, dstNA, maskDt, *srcNA, maskDt, dstNA); err != nil {
				return err
			}
		}
		// The destination NA mask now exposes exactly the elements to write.
		return e.assignMasked(shape, dst.dt, dstOp, srcDt, src, maskDt, dstNA)
	}

	whereOp := operand(where, whereStrides)
	if !preserveNA || !dstHasNA {
		if dstHasNA {
			if srcNA != nil {
				if err := e.assignPreserveNA(shape, dst.dt, dstOp, srcDt, src, maskDt, *srcNA, where.dt, whereOp); err != nil {
					return err
				}
				return e.assignMasked(shape, maskDt, dstNA, maskDt, *srcNA, where.dt, whereOp)
			}
			if err := as.fillMask(e, dst, true, where, whereStrides, false); err != nil {
				return err
			}
		}
		return e.assignMasked(shape, dst.dt, dstOp, srcDt, src, where.dt, whereOp)
	}
	if srcNA != nil {
		if err := e.assignPreserveNA(shape, maskDt, dstNA, maskDt, *srcNA, maskDt, dstNA, where.dt, whereOp); err != nil {
			return err
		}
	}
	return e.assignPreserveNA(shape, dst.dt, dstOp, srcDt, src, maskDt, dstNA, where.dt, whereOp)
}

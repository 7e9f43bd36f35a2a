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

	"github.com/ajroetker/go-ndassign/dtype"
)

// AssignRawScalar assigns a scalar to dst using DefaultOptions. See
// (*Assigner).AssignRawScalar.
func AssignRawScalar(dst *Array, srcDt *dtype.DType, src []byte, wheremask *Array, casting dtype.Casting,
	preserveNA bool, preserveWhichNA []bool) error {
	return defaultAssigner().AssignRawScalar(dst, srcDt, src, wheremask, casting, preserveNA, preserveWhichNA)
}

// AssignRawScalar broadcasts the single element src, of dtype srcDt, to
// every element of dst selected by wheremask. NA handling follows
// AssignArray with an NA-free source. src is copied before use, so it may
// alias dst.
func (as *Assigner) AssignRawScalar(dst *Array, srcDt *dtype.DType, src []byte, wheremask *Array, casting dtype.Casting,
	preserveNA bool, preserveWhichNA []bool) error {
	const op = "assign scalar"

	if !dst.writeable {
		return newError(KindReadOnlyTarget, op, "cannot assign to a read-only array")
	}
	if len(src) != srcDt.Size() {
		return newError(KindIterationSetup, op, "scalar holds %d bytes, %s needs %d", len(src), srcDt, srcDt.Size())
	}
	if !dtype.CanCast(srcDt, dst.dt, casting) {
		return newError(KindUnsafeCast, op, "cannot cast scalar from %s to %s according to the rule %s",
			srcDt, dst.dt, casting)
	}
	if preserveWhichNA != nil {
		return newError(KindNotImplemented, op, "multi-NA support is not yet implemented")
	}

	var whereStrides []int
	if wheremask != nil {
		var err error
		if whereStrides, err = as.prepareWhere(op, dst, wheremask); err != nil {
			return err
		}
	}

	scalar := rawOperand{buf: slices.Clone(src), strides: make([]int, dst.NDim())}
	return as.dispatch(engine{opts: as.opts, op: op}, dst, srcDt, scalar, nil, wheremask, whereStrides, preserveNA)
}

// AssignNA marks elements of dst NA using DefaultOptions. See
// (*Assigner).AssignNA.
func AssignNA(dst, wheremask *Array, preserveNA bool, preserveWhichNA []bool) error {
	return defaultAssigner().AssignNA(dst, wheremask, preserveNA, preserveWhichNA)
}

// AssignNA marks every element of dst selected by wheremask NA, with payload
// 0. Value bytes are left alone. dst must have an NA mask.
func (as *Assigner) AssignNA(dst, wheremask *Array, preserveNA bool, preserveWhichNA []bool) error {
	return as.assignMaskNA("assign NA", dst, false, wheremask, preserveNA, preserveWhichNA)
}

// AssignMaskNA sets the NA mask of dst using DefaultOptions. See
// (*Assigner).AssignMaskNA.
func AssignMaskNA(dst *Array, exposed bool, wheremask *Array, preserveNA bool, preserveWhichNA []bool) error {
	return defaultAssigner().AssignMaskNA(dst, exposed, wheremask, preserveNA, preserveWhichNA)
}

// AssignMaskNA exposes, or marks NA, every element of dst selected by
// wheremask. With preserveNA, elements that are already NA keep their mask
// byte.
func (as *Assigner) AssignMaskNA(dst *Array, exposed bool, wheremask *Array, preserveNA bool, preserveWhichNA []bool) error {
	return as.assignMaskNA("assign mask NA", dst, exposed, wheremask, preserveNA, preserveWhichNA)
}

func (as *Assigner) assignMaskNA(op string, dst *Array, exposed bool, wheremask *Array, preserveNA bool, preserveWhichNA []bool) error {
	if !dst.writeable {
		return newError(KindReadOnlyTarget, op, "cannot assign to a read-only array")
	}
	if dst.na == nil {
		return newError(KindUnsupportedNA, op, "cannot assign NA to an array which does not support NAs")
	}
	if preserveWhichNA != nil {
		return newError(KindNotImplemented, op, "multi-NA support is not yet implemented")
	}

	var whereStrides []int
	if wheremask != nil {
		var err error
		if whereStrides, err = as.prepareWhere(op, dst, wheremask); err != nil {
			return err
		}
	}
	return as.fillMask(engine{opts: as.opts, op: op}, dst, exposed, wheremask, whereStrides, preserveNA)
}

// fillMask writes an exposed (1) or NA (0) mask byte to the NA mask of dst
// where selected.
func (as *Assigner) fillMask(e engine, dst *Array, exposed bool, where *Array, whereStrides []int, preserveNA bool) error {
	value := []byte{0}
	if exposed {
		value[0] = 1
	}
	shape := dst.shape
	maskDt := dst.na.dt
	na := operand(dst.na, dst.na.strides)
	src := rawOperand{buf: value, strides: make([]int, dst.NDim())}

	switch {
	case where == nil && !preserveNA:
		return e.assign(shape, maskDt, na, maskDt, src)
	case where == nil:
		return e.assignMasked(shape, maskDt, na, maskDt, src, maskDt, na)
	case !preserveNA:
		return e.assignMasked(shape, maskDt, na, maskDt, src, where.dt, operand(where, whereStrides))
	default:
		return e.assignPreserveNA(shape, maskDt, na, maskDt, src, maskDt, na, where.dt, operand(where, whereStrides))
	}
}

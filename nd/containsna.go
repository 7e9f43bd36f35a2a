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
	"errors"

	"github.com/ajroetker/go-ndassign/dtype"
)

// ContainsNA reports whether a has an NA element at a position where
// wheremask is true. A nil wheremask selects every element.
func ContainsNA(a, wheremask *Array) (bool, error) {
	return defaultAssigner().ContainsNA(a, wheremask)
}

// ContainsNA reports whether a has an NA element at a position where
// wheremask is true. A nil wheremask selects every element.
func (as *Assigner) ContainsNA(a, wheremask *Array) (bool, error) {
	return as.containsNA("contains NA", a, wheremask)
}

var errFoundNA = errors.New("found NA")

var alwaysTrue = []byte{1}

func (as *Assigner) containsNA(op string, a, where *Array) (bool, error) {
	if a.na == nil {
		return false, nil
	}
	var whereStrides []int
	if where != nil {
		var err error
		if whereStrides, err = broadcastWhere(op, a.shape, where); err != nil {
			return false, err
		}
	}
	return scanNA(a.shape, operand(a.na, a.na.strides), where, whereStrides)
}

// broadcastWhere checks the where-mask dtype and returns its strides
// broadcast to shape.
func broadcastWhere(op string, shape []int, where *Array) ([]int, error) {
	switch where.dt.Kind() {
	case dtype.KindBool, dtype.KindMask:
	default:
		return nil, newError(KindUnsafeCast, op, "where mask must be bool, not %s", where.dt)
	}
	return BroadcastStrides(shape, where.shape, where.strides, "where mask")
}

// scanNA walks an NA mask laid out over shape and reports whether any
// element is NA where the where-mask, if any, is true. whereStrides must
// already be broadcast to shape.
func scanNA(shape []int, na rawOperand, where *Array, whereStrides []int) (bool, error) {
	whereOp := rawOperand{buf: alwaysTrue, strides: make([]int, len(shape))}
	if where != nil {
		whereOp = operand(where, whereStrides)
	}

	it, err := prepareRawIter(shape, na, whereOp)
	if err != nil || it.empty() {
		return false, err
	}
	m0, w := it.ops[0], it.ops[1]
	err = it.walk(0, it.outerSize(), func(offs []int) error {
		m, k := offs[0], offs[1]
		for range it.shape[0] {
			if m0.buf[m]&1 == 0 && w.buf[k]&1 != 0 {
				return errFoundNA
			}
			m += m0.strides[0]
			k += w.strides[0]
		}
		return nil
	})
	if errors.Is(err, errFoundNA) {
		return true, nil
	}
	return false, err
}

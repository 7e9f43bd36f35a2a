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
	"unsafe"

	"github.com/ajroetker/go-ndassign/transfer"
)

// rawOperand is one co-iterated array reduced to its buffer, element-origin
// offset and per-axis byte strides.
type rawOperand struct {
	buf     []byte
	off     int
	strides []int
}

func operand(a *Array, strides []int) rawOperand {
	return rawOperand{buf: a.buf, off: a.off, strides: strides}
}

func (o rawOperand) addr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(o.buf))) + uintptr(o.off)
}

// run returns the inner run of o starting at byte offset off.
func (o rawOperand) run(off int) transfer.Run {
	return transfer.Run{Buf: o.buf, Off: off, Stride: o.strides[0]}
}

// isAligned reports whether every element address of o is a multiple of
// align.
func (o rawOperand) isAligned(shape []int, align int) bool {
	if align <= 1 {
		return true
	}
	if o.addr()%uintptr(align) != 0 {
		return false
	}
	for i, d := range shape {
		if d > 1 && o.strides[i]%align != 0 {
			return false
		}
	}
	return true
}

// rawIter is a canonical iteration space shared by 2 to 4 operands. Axis 0
// is the innermost; every operand has one stride per axis.
type rawIter struct {
	shape []int
	ops   []rawOperand
}

// prepareRawIter reorders, flips and coalesces the axes of shape so the
// operands can be walked with as few and as long inner runs as possible.
// Axes are sorted by the absolute stride of operand 0, axes where operand 0
// runs backwards are flipped for all operands, unit axes are dropped, and
// neighbouring axes are merged when every operand's strides chain.
func prepareRawIter(shape []int, ops ...rawOperand) (*rawIter, error) {
	const op = "prepare raw iteration"
	if len(ops) < 2 || len(ops) > 4 {
		return nil, newError(KindIterationSetup, op, "%d operands, want 2 to 4", len(ops))
	}
	ndim := len(shape)
	if ndim > MaxDims {
		return nil, newError(KindIterationSetup, op, "%d dimensions exceed the maximum of %d", ndim, MaxDims)
	}
	for i, o := range ops {
		if len(o.strides) != ndim {
			return nil, newError(KindIterationSetup, op, "operand %d has %d strides for %d dimensions", i, len(o.strides), ndim)
		}
	}
	for _, d := range shape {
		if d < 0 {
			return nil, newError(KindIterationSetup, op, "negative extent in shape %s", formatShape(shape))
		}
	}

	it := &rawIter{ops: make([]rawOperand, len(ops))}
	for i, o := range ops {
		it.ops[i] = rawOperand{buf: o.buf, off: o.off, strides: make([]int, max(ndim, 1))}
	}

	switch ndim {
	case 0:
		it.shape = []int{1}
		return it, nil
	case 1:
		it.shape = []int{shape[0]}
		for i, o := range ops {
			it.ops[i].strides[0] = o.strides[0]
		}
		if ops[0].strides[0] < 0 && shape[0] > 0 {
			it.flip(0)
		}
		return it, nil
	}

	perm := keepOrder(ops[0].strides)
	it.shape = make([]int, ndim)
	for i := range ndim {
		ax := perm[ndim-1-i]
		it.shape[i] = shape[ax]
		for k, o := range ops {
			it.ops[k].strides[i] = o.strides[ax]
		}
	}

	for i := range ndim {
		if it.shape[i] == 0 {
			it.shape = []int{0}
			for k := range it.ops {
				it.ops[k].strides = []int{0}
			}
			return it, nil
		}
		if it.ops[0].strides[i] < 0 {
			it.flip(i)
		}
	}

	i := 0
	for j := 1; j < ndim; j++ {
		switch {
		case it.shape[i] == 1:
			it.shape[i] = it.shape[j]
			for k := range it.ops {
				it.ops[k].strides[i] = it.ops[k].strides[j]
			}
		case it.shape[j] == 1:
			// drop axis j
		case it.chains(i, j):
			it.shape[i] *= it.shape[j]
		default:
			i++
			it.shape[i] = it.shape[j]
			for k := range it.ops {
				it.ops[k].strides[i] = it.ops[k].strides[j]
			}
		}
	}
	it.shape = it.shape[:i+1]
	for k := range it.ops {
		it.ops[k].strides = it.ops[k].strides[:i+1]
	}
	return it, nil
}

// flip reverses axis i for every operand.
func (it *rawIter) flip(i int) {
	for k := range it.ops {
		o := &it.ops[k]
		o.off += (it.shape[i] - 1) * o.strides[i]
		o.strides[i] = -o.strides[i]
	}
}

// chains reports whether stepping past the end of axis i lands on the next
// element of axis j for every operand.
func (it *rawIter) chains(i, j int) bool {
	for _, o := range it.ops {
		if o.strides[i]*it.shape[i] != o.strides[j] {
			return false
		}
	}
	return true
}

func (it *rawIter) empty() bool {
	for _, d := range it.shape {
		if d == 0 {
			return true
		}
	}
	return false
}

// outerSize returns the number of inner runs.
func (it *rawIter) outerSize() int {
	n := 1
	for _, d := range it.shape[1:] {
		n *= d
	}
	return n
}

// walk calls fn with the operand offsets of inner runs start to end-1, in
// the order axis 1 fastest. offs is reused between calls.
func (it *rawIter) walk(start, end int, fn func(offs []int) error) error {
	ndim := len(it.shape)
	offs := make([]int, len(it.ops))
	for k, o := range it.ops {
		offs[k] = o.off
	}
	coord := make([]int, ndim)
	rem := start
	for d := 1; d < ndim; d++ {
		coord[d] = rem % it.shape[d]
		rem /= it.shape[d]
		for k, o := range it.ops {
			offs[k] += coord[d] * o.strides[d]
		}
	}

	for range end - start {
		if err := fn(offs); err != nil {
			return err
		}
		for d := 1; d < ndim; d++ {
			coord[d]++
			for k, o := range it.ops {
				offs[k] += o.strides[d]
			}
			if coord[d] < it.shape[d] {
				break
			}
			for k, o := range it.ops {
				offs[k] -= o.strides[d] * it.shape[d]
			}
			coord[d] = 0
		}
	}
	return nil
}

// splittable reports whether distinct inner runs write distinct destination
// elements, so runs may execute concurrently.
func (it *rawIter) splittable() bool {
	for i, d := range it.shape {
		if d > 1 && it.ops[0].strides[i] == 0 {
			return false
		}
	}
	return it.outerSize() > 1
}

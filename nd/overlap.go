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

// arraysOverlap reports whether the memory spanned by a and b intersects.
// The test is conservative: interleaved views whose elements never coincide
// still count as overlapping.
func arraysOverlap(a, b *Array) bool {
	aLo, aHi := a.footprint()
	bLo, bHi := b.footprint()
	if aLo == aHi || bLo == bHi {
		return false
	}
	return aLo < bHi && bLo < aHi
}

// needsTempCopy reports whether assigning src into dst requires reading src
// through a temporary copy. A 1-D destination whose innermost source stride
// has the same step and direction, over elements of the same size, is
// handled by reverseIfOverlapping instead.
func needsTempCopy(dst, src *Array) bool {
	dn, sn := dst.NDim(), src.NDim()
	switch {
	case dn > 1:
		return arraysOverlap(src, dst)
	case dn == 1 && sn >= 1:
		if innerStride(src) == dst.strides[0] && src.dt.Size() == dst.dt.Size() {
			return false
		}
		return arraysOverlap(src, dst)
	}
	return false
}

// innerStride returns the stride src advances by along its last axis once
// broadcast: zero for a unit axis.
func innerStride(src *Array) int {
	n := src.NDim()
	if src.shape[n-1] == 1 {
		return 0
	}
	return src.strides[n-1]
}

// reverseIfOverlapping flips a prepared 1-D iteration when operand 1 (the
// source) starts below operand 0 (the destination) and runs into it, so that
// every source element is read before it is overwritten. It returns whether
// the iteration was reversed.
func reverseIfOverlapping(it *rawIter) bool {
	if len(it.shape) != 1 || it.shape[0] == 0 {
		return false
	}
	n := it.shape[0]
	dst, src := it.ops[0].addr(), it.ops[1].addr()
	srcStride := it.ops[1].strides[0]
	if !(src < dst && int64(src)+int64(n)*int64(srcStride) > int64(dst)) {
		return false
	}
	for i := range it.ops {
		op := &it.ops[i]
		op.off += (n - 1) * op.strides[0]
		op.strides[0] = -op.strides[0]
	}
	return true
}

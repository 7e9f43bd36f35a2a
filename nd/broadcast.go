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

// BroadcastStrides returns the strides that make an array of srcShape and
// srcStrides iterate as an array of dstShape: axes missing on the left and
// axes of extent 1 get stride 0, other extents must match. what names the
// source in the error message, e.g. "input array" or "where mask".
func BroadcastStrides(dstShape, srcShape, srcStrides []int, what string) ([]int, error) {
	ndim, srcNDim := len(dstShape), len(srcShape)
	if len(srcStrides) != srcNDim || srcNDim > ndim {
		return nil, broadcastError(dstShape, srcShape, what)
	}
	out := make([]int, ndim)
	for i := ndim - 1; i >= 0; i-- {
		j := i - (ndim - srcNDim)
		if j < 0 {
			break
		}
		switch srcShape[j] {
		case 1:
			// out[i] stays 0
		case dstShape[i]:
			out[i] = srcStrides[j]
		default:
			return nil, broadcastError(dstShape, srcShape, what)
		}
	}
	return out, nil
}

func broadcastError(dstShape, srcShape []int, what string) error {
	return newError(KindShapeMismatch, "broadcast", "could not broadcast %s from shape %s into shape %s",
		what, formatShape(srcShape), formatShape(dstShape))
}

// stripUnitDims drops leading extent-1 axes of a source ranked higher than
// the destination, which older callers rely on when assigning e.g. a (1, n)
// array into an (n,) one.
func stripUnitDims(ndim int, shape, strides []int) ([]int, []int) {
	for len(shape) > ndim && shape[0] == 1 {
		shape, strides = shape[1:], strides[1:]
	}
	return shape, strides
}

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
	"encoding/binary"

	"github.com/ajroetker/go-ndassign/dtype"
)

// MaskAndFunc combines an NA mask with a where-mask into a contiguous byte
// stream: out[i] is 1 when element i is exposed in na and selected in where,
// 0 otherwise.
type MaskAndFunc interface {
	MaskAnd(out []byte, na, where Run, n int)
}

// GetMaskAnd returns the combiner for the given mask dtypes and strides.
// When both strides are 1 and the CPU dispatch level is above scalar, the
// combiner works a machine word at a time.
func GetMaskAnd(naStride int, naDtype *dtype.DType, whereStride int, whereDtype *dtype.DType) (MaskAndFunc, error) {
	if err := checkMaskDtype(naDtype); err != nil {
		return nil, err
	}
	if err := checkMaskDtype(whereDtype); err != nil {
		return nil, err
	}
	if naStride == 1 && whereStride == 1 && CurrentLevel() != DispatchScalar {
		return wordMaskAnd{block: CurrentWidth()}, nil
	}
	return byteMaskAnd{}, nil
}

type byteMaskAnd struct{}

func (byteMaskAnd) MaskAnd(out []byte, na, where Run, n int) {
	a, b := na.Off, where.Off
	for i := range n {
		out[i] = na.Buf[a] & where.Buf[b] & 1
		a += na.Stride
		b += where.Stride
	}
}

// wordMaskAnd handles contiguous masks eight bytes per step, processing a
// vector register's worth of words per outer iteration.
type wordMaskAnd struct {
	block int
}

const lowBits = 0x0101010101010101

func (w wordMaskAnd) MaskAnd(out []byte, na, where Run, n int) {
	if na.Stride != 1 || where.Stride != 1 {
		byteMaskAnd{}.MaskAnd(out, na, where, n)
		return
	}
	a := na.Buf[na.Off : na.Off+n]
	b := where.Buf[where.Off : where.Off+n]
	le := binary.LittleEndian

	i := 0
	for ; i+w.block <= n; i += w.block {
		for j := i; j < i+w.block; j += 8 {
			le.PutUint64(out[j:], le.Uint64(a[j:])&le.Uint64(b[j:])&lowBits)
		}
	}
	for ; i+8 <= n; i += 8 {
		le.PutUint64(out[i:], le.Uint64(a[i:])&le.Uint64(b[i:])&lowBits)
	}
	for ; i < n; i++ {
		out[i] = a[i] & b[i] & 1
	}
}

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

package dtype

import "math"

// F16 is the storage type of Float16 elements: IEEE 754 binary16.
//
//	S | EEEEE | MMMMMMMMMM   (bias 15, max finite 65504)
type F16 uint16

// BF16 is the storage type of BFloat16 elements: the upper half of a
// float32.
//
//	S | EEEEEEEE | MMMMMMM   (bias 127)
type BF16 uint16

// Special values.
const (
	F16One    F16 = 0x3C00
	F16Max    F16 = 0x7BFF
	F16Inf    F16 = 0x7C00
	F16NegInf F16 = 0xFC00
	F16NaN    F16 = 0x7E00

	BF16One    BF16 = 0x3F80
	BF16Inf    BF16 = 0x7F80
	BF16NegInf BF16 = 0xFF80
	BF16NaN    BF16 = 0x7FC0
)

// Float32 widens h exactly.
func (h F16) Float32() float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1F
	mant := uint32(h) & 0x3FF

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: shift the leading one into the implicit position.
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		return math.Float32frombits(sign | e<<23 | (mant&0x3FF)<<13)
	case 0x1F:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7FC00000 | mant<<13)
	}
	return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
}

// Float64 widens h exactly.
func (h F16) Float64() float64 { return float64(h.Float32()) }

// IsNaN reports whether h is a NaN.
func (h F16) IsNaN() bool { return h&0x7C00 == 0x7C00 && h&0x3FF != 0 }

// F16FromFloat32 rounds f to the nearest binary16 value, ties to even.
// Values beyond the finite range become infinities; NaN stays NaN.
func F16FromFloat32(f float32) F16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int(bits>>23&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF

	if bits&0x7F800000 == 0x7F800000 {
		if mant != 0 {
			return F16(sign | 0x7E00 | uint16(mant>>13))
		}
		return F16(sign | 0x7C00)
	}
	if exp >= 0x1F {
		return F16(sign | 0x7C00)
	}
	if exp <= 0 {
		if exp < -10 {
			return F16(sign)
		}
		mant |= 0x800000
		shift := uint(14 - exp)
		half := uint32(1) << (shift - 1)
		rest := mant & (half<<1 - 1)
		out := mant >> shift
		if rest > half || (rest == half && out&1 == 1) {
			out++
		}
		// A carry out of the subnormal range lands on the smallest normal,
		// which the bit layout encodes correctly.
		return F16(sign | uint16(out))
	}

	out := uint32(exp)<<10 | mant>>13
	rest := mant & 0x1FFF
	if rest > 0x1000 || (rest == 0x1000 && out&1 == 1) {
		out++
	}
	if out >= 0x7C00 {
		return F16(sign | 0x7C00)
	}
	return F16(sign | uint16(out))
}

// F16FromFloat64 rounds f to binary16 through float32.
func F16FromFloat64(f float64) F16 { return F16FromFloat32(float32(f)) }

// Float32 widens b exactly.
func (b BF16) Float32() float32 { return math.Float32frombits(uint32(b) << 16) }

// Float64 widens b exactly.
func (b BF16) Float64() float64 { return float64(b.Float32()) }

// IsNaN reports whether b is a NaN.
func (b BF16) IsNaN() bool { return b&0x7F80 == 0x7F80 && b&0x7F != 0 }

// BF16FromFloat32 rounds f to bfloat16, ties to even. NaN inputs map to a
// quiet NaN of the same sign.
func BF16FromFloat32(f float32) BF16 {
	bits := math.Float32bits(f)
	if bits&0x7FFFFFFF > 0x7F800000 {
		return BF16(bits>>16 | 0x0040)
	}
	bits += 0x7FFF + (bits>>16)&1
	return BF16(bits >> 16)
}

// BF16FromFloat64 rounds f to bfloat16 through float32.
func BF16FromFloat64(f float64) BF16 { return BF16FromFloat32(float32(f)) }

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

import (
	"math"
	"testing"
)

func TestF16ToFloat32(t *testing.T) {
	tests := []struct {
		name  string
		input F16
		want  float32
	}{
		{"Zero", 0x0000, 0},
		{"NegZero", 0x8000, float32(math.Copysign(0, -1))},
		{"One", F16One, 1},
		{"Two", 0x4000, 2},
		{"Half", 0x3800, 0.5},
		{"NegOne", 0xBC00, -1},
		{"Max", F16Max, 65504},
		{"SmallestSubnormal", 0x0001, float32(math.Ldexp(1, -24))},
		{"LargestSubnormal", 0x03FF, float32(math.Ldexp(1023, -24))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Float32()
			if got != tt.want || math.Signbit(float64(got)) != math.Signbit(float64(tt.want)) {
				t.Errorf("F16(0x%04X).Float32() = %v, want %v", uint16(tt.input), got, tt.want)
			}
		})
	}

	if !math.IsInf(float64(F16Inf.Float32()), 1) {
		t.Error("F16Inf should widen to +Inf")
	}
	if !math.IsInf(float64(F16NegInf.Float32()), -1) {
		t.Error("F16NegInf should widen to -Inf")
	}
	if !math.IsNaN(float64(F16NaN.Float32())) {
		t.Error("F16NaN should widen to NaN")
	}
}

func TestF16FromFloat32(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  F16
	}{
		{"Zero", 0, 0x0000},
		{"One", 1, F16One},
		{"NegTwo", -2, 0xC000},
		{"Max", 65504, F16Max},
		{"Overflow", 70000, F16Inf},
		{"NegOverflow", -70000, F16NegInf},
		{"Underflow", 1e-10, 0x0000},
		{"Subnormal", float32(math.Ldexp(3, -24)), 0x0003},
		// 1 + 2^-11 is halfway between 1 and the next half; ties go to even.
		{"TieToEven", 1 + float32(math.Ldexp(1, -11)), F16One},
		{"TieToOdd", 1 + float32(math.Ldexp(3, -11)), 0x3C02},
		{"Inf", float32(math.Inf(1)), F16Inf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := F16FromFloat32(tt.input); got != tt.want {
				t.Errorf("F16FromFloat32(%v) = 0x%04X, want 0x%04X", tt.input, uint16(got), uint16(tt.want))
			}
		})
	}

	if !F16FromFloat32(float32(math.NaN())).IsNaN() {
		t.Error("NaN should stay NaN")
	}
}

// TestF16RoundTrip checks every finite binary16 value survives a trip
// through float32.
func TestF16RoundTrip(t *testing.T) {
	for bits := 0; bits < 1<<16; bits++ {
		h := F16(bits)
		if h.IsNaN() {
			continue
		}
		if got := F16FromFloat32(h.Float32()); got != h {
			t.Fatalf("round trip of 0x%04X gave 0x%04X", bits, uint16(got))
		}
	}
}

func TestBF16Conversions(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  BF16
	}{
		{"One", 1, BF16One},
		{"NegOne", -1, 0xBF80},
		{"Inf", float32(math.Inf(1)), BF16Inf},
		{"NegInf", float32(math.Inf(-1)), BF16NegInf},
		// 1 + 2^-8 sits exactly between two bfloat16 values; round to even.
		{"TieToEven", 1 + float32(math.Ldexp(1, -8)), BF16One},
		{"RoundUp", 1 + float32(math.Ldexp(3, -9)), 0x3F81},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BF16FromFloat32(tt.input); got != tt.want {
				t.Errorf("BF16FromFloat32(%v) = 0x%04X, want 0x%04X", tt.input, uint16(got), uint16(tt.want))
			}
		})
	}

	if !BF16FromFloat32(float32(math.NaN())).IsNaN() {
		t.Error("NaN should stay NaN")
	}
	if got := BF16(0x4049).Float64(); math.Abs(got-3.140625) > 1e-9 {
		t.Errorf("BF16(0x4049).Float64() = %v, want 3.140625", got)
	}
}

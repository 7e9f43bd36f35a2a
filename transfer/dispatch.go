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
	"os"
	"strconv"
)

// DispatchLevel is the widest vector unit detected on this CPU. The
// transfer kernels use it to decide whether word-parallel mask combination
// is worthwhile.
type DispatchLevel int

const (
	// DispatchScalar processes one mask byte at a time.
	DispatchScalar DispatchLevel = iota
	// DispatchSSE2 is the x86-64 baseline (128-bit).
	DispatchSSE2
	// DispatchAVX2 indicates 256-bit vectors.
	DispatchAVX2
	// DispatchAVX512 indicates 512-bit vectors.
	DispatchAVX512
	// DispatchNEON indicates ARM Advanced SIMD (128-bit).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Set by init() in dispatch_*.go files.
var (
	currentLevel DispatchLevel
	currentWidth int
)

// CurrentLevel returns the detected dispatch level.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector register width in bytes, e.g. 32 for AVX2.
// It is 8 in scalar mode, the width of one machine word.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns the name of the current dispatch level.
func CurrentName() string {
	return currentLevel.String()
}

// NoSimdEnv reports whether ND_NO_SIMD is set. When set, kernels fall back to
// byte-at-a-time code regardless of CPU capabilities, which is useful for
// testing both paths.
func NoSimdEnv() bool {
	val := os.Getenv("ND_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 8
}

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

// Package dtype describes the element types of strided arrays.
//
// A DType is an immutable descriptor: element size, required alignment,
// kind and capability flags. The builtin descriptors (Bool, Int8, ...,
// Float64, Mask) are package-level singletons, so two arrays share "the
// same dtype" exactly when their descriptor pointers are equal. Fixed-width
// byte strings are created with NewString.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-ndassign/dtype"
//
//	if !dtype.CanCast(dtype.Float64, dtype.Int16, dtype.SafeCasting) {
//		// float64 -> int16 loses information
//	}
package dtype

import (
	"fmt"
	"slices"
)

// Kind identifies the element representation of a DType.
type Kind uint8

const (
	KindBool Kind = iota
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat16
	KindBFloat16
	KindFloat32
	KindFloat64
	KindString
	KindMask

	// NumKinds is the number of element kinds.
	NumKinds = int(KindMask) + 1
)

var kindNames = [NumKinds]string{
	KindBool:     "bool",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindFloat16:  "float16",
	KindBFloat16: "bfloat16",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindString:   "string",
	KindMask:     "mask",
}

// String returns the kind name, e.g. "float32".
func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool { return k >= KindUint8 && k <= KindUint64 }

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool { return k >= KindInt8 && k <= KindInt64 }

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool { return k.IsUnsigned() || k.IsSigned() }

// IsFloat reports whether k is a floating-point kind, including the 16-bit ones.
func (k Kind) IsFloat() bool { return k >= KindFloat16 && k <= KindFloat64 }

// Flags are capability bits of a DType.
type Flags uint8

const (
	// FlagNeedsAPI marks element types whose conversions may fail at run
	// time. Loops touching such types check every transfer for an error and
	// are never split across goroutines.
	FlagNeedsAPI Flags = 1 << iota
)

// DType is an element type descriptor. It is immutable once created.
type DType struct {
	kind      Kind
	size      int
	alignment int
	flags     Flags
	name      string
}

// Builtin descriptors.
var (
	Bool     = &DType{kind: KindBool, size: 1, alignment: 1, name: "bool"}
	Uint8    = &DType{kind: KindUint8, size: 1, alignment: 1, name: "uint8"}
	Uint16   = &DType{kind: KindUint16, size: 2, alignment: 2, name: "uint16"}
	Uint32   = &DType{kind: KindUint32, size: 4, alignment: 4, name: "uint32"}
	Uint64   = &DType{kind: KindUint64, size: 8, alignment: 8, name: "uint64"}
	Int8     = &DType{kind: KindInt8, size: 1, alignment: 1, name: "int8"}
	Int16    = &DType{kind: KindInt16, size: 2, alignment: 2, name: "int16"}
	Int32    = &DType{kind: KindInt32, size: 4, alignment: 4, name: "int32"}
	Int64    = &DType{kind: KindInt64, size: 8, alignment: 8, name: "int64"}
	Float16  = &DType{kind: KindFloat16, size: 2, alignment: 2, name: "float16"}
	BFloat16 = &DType{kind: KindBFloat16, size: 2, alignment: 2, name: "bfloat16"}
	Float32  = &DType{kind: KindFloat32, size: 4, alignment: 4, name: "float32"}
	Float64  = &DType{kind: KindFloat64, size: 8, alignment: 8, name: "float64"}

	// Mask is the element type of NA masks. Bit 0 set means the element is
	// exposed (available); bits 1-7 carry the NA payload.
	Mask = &DType{kind: KindMask, size: 1, alignment: 1, name: "mask"}
)

var builtins = []*DType{
	Bool, Uint8, Uint16, Uint32, Uint64, Int8, Int16, Int32, Int64,
	Float16, BFloat16, Float32, Float64, Mask,
}

// Builtins returns the builtin descriptors in Kind order.
func Builtins() []*DType {
	return slices.Clone(builtins)
}

// NewString returns a descriptor for fixed-width byte strings of n bytes.
// Shorter values are NUL padded. It panics if n < 1.
func NewString(n int) *DType {
	if n < 1 {
		panic(fmt.Sprintf("dtype: string width must be positive, got %d", n))
	}
	return &DType{
		kind:      KindString,
		size:      n,
		alignment: 1,
		flags:     FlagNeedsAPI,
		name:      fmt.Sprintf("S%d", n),
	}
}

// Kind returns the element kind.
func (d *DType) Kind() Kind { return d.kind }

// Size returns the element size in bytes.
func (d *DType) Size() int { return d.size }

// Alignment returns the required byte alignment of elements.
func (d *DType) Alignment() int { return d.alignment }

// Flags returns the capability flags.
func (d *DType) Flags() Flags { return d.flags }

// NeedsAPI reports whether conversions involving d may fail at run time.
func (d *DType) NeedsAPI() bool { return d.flags&FlagNeedsAPI != 0 }

// String returns the descriptor name, e.g. "int16" or "S8".
func (d *DType) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.name
}

// Equivalent reports whether a and b describe the same memory layout and
// interpretation. Distinct descriptors of the same kind and size are
// equivalent.
func Equivalent(a, b *DType) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.kind == b.kind && a.size == b.size
}

// FromName looks up a builtin descriptor by name, accepting "S<n>" for
// strings.
func FromName(name string) (*DType, error) {
	for _, d := range builtins {
		if d.name == name {
			return d, nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "S%d", &n); err == nil && n > 0 {
		return NewString(n), nil
	}
	return nil, fmt.Errorf("dtype: unknown type %q", name)
}

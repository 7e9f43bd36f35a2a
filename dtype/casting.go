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

import "fmt"

// Casting is the policy deciding which conversions an assignment may make.
// Rules are ordered: every conversion allowed by a rule is also allowed by
// all later rules.
type Casting int

const (
	// NoCasting allows only identical element types.
	NoCasting Casting = iota
	// EquivCasting allows equivalent layouts.
	EquivCasting
	// SafeCasting allows conversions that preserve every value.
	SafeCasting
	// SameKindCasting allows safe casts and casts within a kind, like float64 to float32.
	SameKindCasting
	// UnsafeCasting allows any conversion.
	UnsafeCasting
)

var castingNames = [...]string{"no", "equiv", "safe", "same_kind", "unsafe"}

// String returns the rule name as accepted by ParseCasting.
func (c Casting) String() string {
	if c >= NoCasting && c <= UnsafeCasting {
		return castingNames[c]
	}
	return fmt.Sprintf("casting(%d)", int(c))
}

// ParseCasting parses "no", "equiv", "safe", "same_kind" or "unsafe".
func ParseCasting(s string) (Casting, error) {
	for i, name := range castingNames {
		if name == s {
			return Casting(i), nil
		}
	}
	return 0, fmt.Errorf("dtype: unknown casting rule %q", s)
}

// kindOrder ranks kinds for same_kind casting: bool < uint < int < float.
func kindOrder(k Kind) int {
	switch {
	case k == KindBool:
		return 0
	case k.IsUnsigned(), k == KindMask:
		return 1
	case k.IsSigned():
		return 2
	case k.IsFloat():
		return 3
	default:
		return 4
	}
}

// mantissaBits is the number of significand bits (including the implicit
// one) of each float kind. An integer of b value bits fits exactly when
// b <= mantissaBits. Every integer kind is still considered safe to cast to
// float64, matching the usual array-library convention.
func mantissaBits(k Kind) int {
	switch k {
	case KindFloat16:
		return 11
	case KindBFloat16:
		return 8
	case KindFloat32:
		return 24
	case KindFloat64:
		return 53
	}
	return 0
}

// exponentBits ranks float ranges; a float cast is safe only into a type
// with at least as many exponent and mantissa bits.
func exponentBits(k Kind) int {
	switch k {
	case KindFloat16:
		return 5
	case KindBFloat16, KindFloat32:
		return 8
	case KindFloat64:
		return 11
	}
	return 0
}

// valueBits is the number of magnitude bits of an integer kind.
func valueBits(d *DType) int {
	bits := d.size * 8
	if d.kind.IsSigned() {
		bits--
	}
	return bits
}

// stringWidth is the number of bytes needed to render any value of d.
func stringWidth(d *DType) int {
	switch d.kind {
	case KindBool:
		return 5
	case KindUint8, KindMask:
		return 3
	case KindUint16:
		return 5
	case KindUint32:
		return 10
	case KindUint64:
		return 20
	case KindInt8:
		return 4
	case KindInt16:
		return 6
	case KindInt32:
		return 11
	case KindInt64:
		return 21
	case KindFloat16, KindBFloat16, KindFloat32:
		return 16
	case KindFloat64:
		return 32
	case KindString:
		return d.size
	}
	return 0
}

func canCastSafely(from, to *DType) bool {
	if Equivalent(from, to) {
		return true
	}
	fk, tk := from.kind, to.kind
	if fk == KindMask || tk == KindMask {
		// NA masks only travel as masks or as raw uint8.
		return (fk == KindMask || fk == KindUint8) && (tk == KindMask || tk == KindUint8)
	}
	if tk == KindString {
		return stringWidth(from) <= to.size
	}
	if fk == KindString {
		return false
	}
	if fk == KindBool {
		return true
	}
	switch {
	case fk.IsUnsigned():
		switch {
		case tk.IsUnsigned():
			return to.size >= from.size
		case tk.IsSigned():
			return to.size > from.size
		case tk.IsFloat():
			return tk == KindFloat64 || valueBits(from) <= mantissaBits(tk)
		}
	case fk.IsSigned():
		switch {
		case tk.IsSigned():
			return to.size >= from.size
		case tk.IsFloat():
			return tk == KindFloat64 || valueBits(from) <= mantissaBits(tk)
		}
	case fk.IsFloat():
		if tk.IsFloat() {
			return mantissaBits(tk) >= mantissaBits(fk) && exponentBits(tk) >= exponentBits(fk)
		}
	}
	return false
}

// CanCast reports whether converting elements of from into to is allowed
// under rule.
func CanCast(from, to *DType, rule Casting) bool {
	switch rule {
	case NoCasting:
		return from == to || Equivalent(from, to)
	case EquivCasting:
		return Equivalent(from, to)
	case SafeCasting:
		return canCastSafely(from, to)
	case SameKindCasting:
		if canCastSafely(from, to) {
			return true
		}
		if from.kind == KindString || to.kind == KindString {
			return from.kind == to.kind
		}
		return kindOrder(from.kind) <= kindOrder(to.kind)
	case UnsafeCasting:
		return true
	}
	return false
}

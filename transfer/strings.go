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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/ajroetker/go-ndassign/dtype"
)

// value is one element decoded from a non-string dtype.
type value struct {
	isFloat bool
	isUint  bool
	i       int64
	u       uint64
	f       float64
}

// readValue decodes the element at b[off]. Byte-wise decoding keeps string
// conversions independent of operand alignment.
func readValue(k dtype.Kind, b []byte, off int) value {
	ne := binary.NativeEndian
	switch k {
	case dtype.KindBool, dtype.KindUint8, dtype.KindMask:
		return value{isUint: true, u: uint64(b[off])}
	case dtype.KindUint16:
		return value{isUint: true, u: uint64(ne.Uint16(b[off:]))}
	case dtype.KindUint32:
		return value{isUint: true, u: uint64(ne.Uint32(b[off:]))}
	case dtype.KindUint64:
		return value{isUint: true, u: ne.Uint64(b[off:])}
	case dtype.KindInt8:
		return value{i: int64(int8(b[off]))}
	case dtype.KindInt16:
		return value{i: int64(int16(ne.Uint16(b[off:])))}
	case dtype.KindInt32:
		return value{i: int64(int32(ne.Uint32(b[off:])))}
	case dtype.KindInt64:
		return value{i: int64(ne.Uint64(b[off:]))}
	case dtype.KindFloat16:
		return value{isFloat: true, f: dtype.F16(ne.Uint16(b[off:])).Float64()}
	case dtype.KindBFloat16:
		return value{isFloat: true, f: dtype.BF16(ne.Uint16(b[off:])).Float64()}
	case dtype.KindFloat32:
		return value{isFloat: true, f: float64(math.Float32frombits(ne.Uint32(b[off:])))}
	case dtype.KindFloat64:
		return value{isFloat: true, f: math.Float64frombits(ne.Uint64(b[off:]))}
	}
	return value{}
}

// writeValue encodes v into the element at b[off] with Go conversion
// semantics.
func writeValue(k dtype.Kind, b []byte, off int, v value) {
	ne := binary.NativeEndian
	asInt := func() int64 {
		switch {
		case v.isFloat:
			return int64(v.f)
		case v.isUint:
			return int64(v.u)
		}
		return v.i
	}
	asUint := func() uint64 {
		switch {
		case v.isFloat:
			return uint64(v.f)
		case v.isUint:
			return v.u
		}
		return uint64(v.i)
	}
	asFloat := func() float64 {
		switch {
		case v.isFloat:
			return v.f
		case v.isUint:
			return float64(v.u)
		}
		return float64(v.i)
	}

	switch k {
	case dtype.KindBool:
		b[off] = 0
		if asFloat() != 0 {
			b[off] = 1
		}
	case dtype.KindUint8, dtype.KindMask:
		b[off] = uint8(asUint())
	case dtype.KindUint16:
		ne.PutUint16(b[off:], uint16(asUint()))
	case dtype.KindUint32:
		ne.PutUint32(b[off:], uint32(asUint()))
	case dtype.KindUint64:
		ne.PutUint64(b[off:], asUint())
	case dtype.KindInt8:
		b[off] = uint8(int8(asInt()))
	case dtype.KindInt16:
		ne.PutUint16(b[off:], uint16(int16(asInt())))
	case dtype.KindInt32:
		ne.PutUint32(b[off:], uint32(int32(asInt())))
	case dtype.KindInt64:
		ne.PutUint64(b[off:], uint64(asInt()))
	case dtype.KindFloat16:
		ne.PutUint16(b[off:], uint16(dtype.F16FromFloat64(asFloat())))
	case dtype.KindBFloat16:
		ne.PutUint16(b[off:], uint16(dtype.BF16FromFloat64(asFloat())))
	case dtype.KindFloat32:
		ne.PutUint32(b[off:], math.Float32bits(float32(asFloat())))
	case dtype.KindFloat64:
		ne.PutUint64(b[off:], math.Float64bits(asFloat()))
	}
}

var textPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 64)
		return &buf
	},
}

// stringFunc converts to, from or between fixed-width strings. It owns a
// pooled formatting buffer until released.
type stringFunc struct {
	src, dst *dtype.DType
	text     *[]byte
}

func newStringFunc(src, dst *dtype.DType) *stringFunc {
	return &stringFunc{src: src, dst: dst, text: textPool.Get().(*[]byte)}
}

func (f *stringFunc) Transfer(dst, src Run, n int) error {
	sk, dk := f.src.Kind(), f.dst.Kind()
	ss, ds := f.src.Size(), f.dst.Size()
	d, s := dst.Off, src.Off
	for range n {
		switch {
		case sk == dtype.KindString && dk == dtype.KindString:
			putText(dst.Buf[d:d+ds], trimText(src.Buf[s:s+ss]))
		case dk == dtype.KindString:
			*f.text = formatValue((*f.text)[:0], sk, readValue(sk, src.Buf, s))
			putText(dst.Buf[d:d+ds], *f.text)
		default:
			v, err := parseValue(dk, trimText(src.Buf[s:s+ss]))
			if err != nil {
				return fmt.Errorf("transfer: %s to %s: %w", f.src, f.dst, err)
			}
			writeValue(dk, dst.Buf, d, v)
		}
		d += dst.Stride
		s += src.Stride
	}
	return nil
}

func (f *stringFunc) release() {
	if f.text != nil {
		textPool.Put(f.text)
		f.text = nil
	}
}

// trimText drops NUL padding and surrounding spaces.
func trimText(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return bytes.TrimSpace(b)
}

// putText stores text NUL padded, truncating to the field width.
func putText(field, text []byte) {
	n := copy(field, text)
	clear(field[n:])
}

func formatValue(buf []byte, k dtype.Kind, v value) []byte {
	switch {
	case k == dtype.KindBool:
		if v.u != 0 {
			return append(buf, "True"...)
		}
		return append(buf, "False"...)
	case v.isFloat:
		bits := 64
		if k != dtype.KindFloat64 {
			bits = 32
		}
		return strconv.AppendFloat(buf, v.f, 'g', -1, bits)
	case v.isUint:
		return strconv.AppendUint(buf, v.u, 10)
	}
	return strconv.AppendInt(buf, v.i, 10)
}

func parseValue(k dtype.Kind, text []byte) (value, error) {
	s := string(text)
	switch {
	case k == dtype.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return value{}, err
		}
		if b {
			return value{isUint: true, u: 1}, nil
		}
		return value{isUint: true}, nil
	case k.IsFloat():
		f, err := strconv.ParseFloat(s, 64)
		return value{isFloat: true, f: f}, err
	case k.IsUnsigned(), k == dtype.KindMask:
		u, err := strconv.ParseUint(s, 10, 64)
		return value{isUint: true, u: u}, err
	default:
		i, err := strconv.ParseInt(s, 10, 64)
		return value{i: i}, err
	}
}

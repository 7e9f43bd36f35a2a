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
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/ajroetker/go-ndassign/contrib/workerpool"
)

// DefaultBufferSize is the number of combined-mask bytes buffered per chunk
// when assigning with NA preservation.
const DefaultBufferSize = 8192

// Environment overrides read by DefaultOptions.
const (
	EnvBufferSize   = "ND_ASSIGN_BUFSIZE"
	EnvMaxTempBytes = "ND_MAX_TEMP_BYTES"
)

// Options configures an Assigner.
type Options struct {
	// BufferSize is the capacity, in elements, of the scratch buffer holding
	// the combined NA and where-mask for one chunk of an inner run.
	// Zero or negative selects DefaultBufferSize.
	BufferSize int

	// MaxTempBytes bounds any single internal allocation: the temporary copy
	// made for overlapping operands and the mask scratch buffer. Zero means
	// unlimited. Exceeding it fails with KindAllocationFailure.
	MaxTempBytes int64

	// Pool, when set, splits the outer loops of purely numeric assignments
	// across its workers. Nil keeps every assignment on the calling goroutine.
	Pool *workerpool.Pool
}

// DefaultOptions returns the options used by the package-level functions,
// with ND_ASSIGN_BUFSIZE and ND_MAX_TEMP_BYTES applied when set.
func DefaultOptions() Options {
	opts := Options{BufferSize: DefaultBufferSize}
	if v := os.Getenv(EnvBufferSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.BufferSize = n
		} else {
			Logger().Warn("ignoring invalid environment override", zap.String("var", EnvBufferSize), zap.String("value", v))
		}
	}
	if v := os.Getenv(EnvMaxTempBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			opts.MaxTempBytes = n
		} else {
			Logger().Warn("ignoring invalid environment override", zap.String("var", EnvMaxTempBytes), zap.String("value", v))
		}
	}
	return opts
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.MaxTempBytes < 0 {
		o.MaxTempBytes = 0
	}
	return o
}

// checkAlloc reports whether n bytes may be allocated under MaxTempBytes.
func (o Options) checkAlloc(op, what string, n int64) error {
	if n < 0 {
		return newError(KindAllocationFailure, op, "%s size overflows", what)
	}
	if o.MaxTempBytes > 0 && n > o.MaxTempBytes {
		return newError(KindAllocationFailure, op, "%s needs %d bytes, limit is %d", what, n, o.MaxTempBytes)
	}
	return nil
}

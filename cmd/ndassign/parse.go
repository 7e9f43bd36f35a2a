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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/go-ndassign/dtype"
	"github.com/ajroetker/go-ndassign/nd"
)

// naToken marks an NA element in value lists.
const naToken = "NA"

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	}))
}

// parseShape parses "2,3" into []int{2, 3}. An empty string is a 0-d shape.
func parseShape(s string) ([]int, error) {
	tokens := splitList(s)
	shape := make([]int, len(tokens))
	for i, t := range tokens {
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("invalid extent %q in shape %q: %w", t, s, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative extent %d in shape %q", n, s)
		}
		shape[i] = n
	}
	return shape, nil
}

// unravel converts a flat C-order index into a multi-index.
func unravel(i int, shape []int) []int {
	idx := make([]int, len(shape))
	for ax := len(shape) - 1; ax >= 0; ax-- {
		if shape[ax] > 0 {
			idx[ax] = i % shape[ax]
			i /= shape[ax]
		}
	}
	return idx
}

func product(shape []int) int {
	return lo.Reduce(shape, func(acc, n, _ int) int { return acc * n }, 1)
}

// buildArray returns an array of dtype dt and the given shape holding
// tokens in C order. NA tokens allocate an NA mask and mark their element.
func buildArray(dt *dtype.DType, shape []int, tokens []string) (*nd.Array, error) {
	if n := product(shape); n != len(tokens) {
		return nil, fmt.Errorf("%d values do not fill shape %v", len(tokens), shape)
	}
	a := nd.New(dt, shape...)
	if dt.Kind() == dtype.KindString {
		for i, t := range tokens {
			if t == naToken {
				continue
			}
			if len(t) > dt.Size() {
				return nil, fmt.Errorf("value %q does not fit in %s", t, dt)
			}
			copy(a.ItemBytes(unravel(i, shape)...), t)
		}
	} else if err := fillNumeric(a, shape, tokens); err != nil {
		return nil, err
	}

	if lo.Contains(tokens, naToken) {
		a.AllocateNA(true)
		for i, t := range tokens {
			if t == naToken {
				a.SetNA(0, unravel(i, shape)...)
			}
		}
	}
	return a, nil
}

func fillNumeric(a *nd.Array, shape []int, tokens []string) error {
	values := make([]float64, len(tokens))
	for i, t := range tokens {
		if t == naToken {
			continue
		}
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", t, err)
		}
		values[i] = v
	}
	var src *nd.Array
	if len(shape) == 0 {
		src = nd.NewScalar(values[0])
	} else {
		src = nd.FromSlice(values, shape...)
	}
	return nd.AssignArray(a, src, nil, dtype.UnsafeCasting, false, nil)
}

// buildWhere parses a boolean mask of the given shape.
func buildWhere(shape []int, tokens []string) (*nd.Array, error) {
	bools := make([]bool, len(tokens))
	for i, t := range tokens {
		b, err := strconv.ParseBool(t)
		if err != nil {
			return nil, fmt.Errorf("invalid where value %q: %w", t, err)
		}
		bools[i] = b
	}
	if n := product(shape); n != len(bools) {
		return nil, fmt.Errorf("%d where values do not fill shape %v", len(bools), shape)
	}
	if len(shape) == 0 {
		return nd.NewScalar(bools[0]), nil
	}
	return nd.FromSlice(bools, shape...), nil
}

// formatCells renders every element of a in C order, NA elements as "NA".
func formatCells(a *nd.Array) ([]string, error) {
	shape := a.Shape()
	n := a.Len()
	cells := make([]string, n)

	var values []float64
	if a.DType().Kind() != dtype.KindString {
		f := nd.New(dtype.Float64, shape...)
		if err := nd.AssignArray(f, a.Values(), nil, dtype.UnsafeCasting, false, nil); err != nil {
			return nil, err
		}
		values = nd.ToSlice[float64](f)
	}
	for i := range n {
		idx := unravel(i, shape)
		switch {
		case a.HasNA() && a.IsNA(idx...):
			cells[i] = naToken
		case values == nil:
			cells[i] = strconv.Quote(strings.TrimRight(string(a.ItemBytes(idx...)), "\x00"))
		default:
			cells[i] = strconv.FormatFloat(values[i], 'g', -1, 64)
		}
	}
	return cells, nil
}

// printArray writes a header line and one line per innermost row.
func printArray(w io.Writer, a *nd.Array) error {
	cells, err := formatCells(a)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, a)
	shape := a.Shape()
	if len(cells) == 0 {
		fmt.Fprintln(w, "[]")
		return nil
	}
	row := 1
	if len(shape) > 0 {
		row = shape[len(shape)-1]
	}
	for _, chunk := range lo.Chunk(cells, row) {
		fmt.Fprintf(w, "[%s]\n", strings.Join(chunk, " "))
	}
	return nil
}

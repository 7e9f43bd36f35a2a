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

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-ndassign/contrib/workerpool"
	"github.com/ajroetker/go-ndassign/dtype"
	"github.com/ajroetker/go-ndassign/nd"
)

type assignFlags struct {
	dstDtype, shape, fill string
	dstNA                 bool

	src, srcShape, srcDtype string

	where, whereShape string

	casting      string
	preserveNA   bool
	bufferSize   int
	maxTempBytes int64
	workers      int
}

func newAssignCommand() *cobra.Command {
	var f assignFlags

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a source array into a destination array and print it",
		Long: `Build a destination and a source array from flag values, assign the source
into the destination and print the result.

Values are comma separated and listed in C order. The token NA marks a
missing element and gives its array an NA mask. Shapes default to 1-D.`,
		Example: `  # Broadcast a row into every row of a 2x3 int16 array
  ndassign assign --shape 2,3 --dst-dtype int16 --src 1,2,3 --src-dtype int8

  # Narrowing needs an explicit casting rule
  ndassign assign --shape 3 --dst-dtype int8 --src 1.5,2.5,300 --casting unsafe

  # Copy source NAs, skip masked-out elements
  ndassign assign --shape 4 --dst-na --src 1,NA,3,4 --where 1,1,0,1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.dstDtype, "dst-dtype", "float64", "destination element type")
	fl.StringVar(&f.shape, "shape", "", "destination shape, e.g. 2,3 (empty for 0-d)")
	fl.StringVar(&f.fill, "fill", "0", "initial destination value, or NA with --dst-na")
	fl.BoolVar(&f.dstNA, "dst-na", false, "give the destination an NA mask")
	fl.StringVar(&f.src, "src", "", "source values in C order")
	fl.StringVar(&f.srcShape, "src-shape", "", "source shape (default 1-D)")
	fl.StringVar(&f.srcDtype, "src-dtype", "float64", "source element type")
	fl.StringVar(&f.where, "where", "", "where-mask values, e.g. 1,0,1")
	fl.StringVar(&f.whereShape, "where-shape", "", "where-mask shape (default 1-D)")
	fl.StringVar(&f.casting, "casting", dtype.SameKindCasting.String(), "casting rule: no, equiv, safe, same_kind or unsafe")
	fl.BoolVar(&f.preserveNA, "preserve-na", false, "leave destination NAs untouched")
	fl.IntVar(&f.bufferSize, "buffer-size", 0, "mask scratch buffer size in elements (0 for the default)")
	fl.Int64Var(&f.maxTempBytes, "max-temp-bytes", 0, "limit on temporary allocations (0 for unlimited)")
	fl.IntVar(&f.workers, "workers", 0, "split outer loops across this many workers (0 to disable)")
	_ = cmd.MarkFlagRequired("src")

	return cmd
}

func runAssign(cmd *cobra.Command, f assignFlags) error {
	casting, err := dtype.ParseCasting(f.casting)
	if err != nil {
		return err
	}

	dst, err := buildDestination(f)
	if err != nil {
		return err
	}
	src, err := buildSource(f)
	if err != nil {
		return err
	}
	var where *nd.Array
	if f.where != "" {
		tokens := splitList(f.where)
		shape, err := shapeOrFlat(f.whereShape, len(tokens))
		if err != nil {
			return err
		}
		if where, err = buildWhere(shape, tokens); err != nil {
			return err
		}
	}

	opts := nd.DefaultOptions()
	if f.bufferSize > 0 {
		opts.BufferSize = f.bufferSize
	}
	if f.maxTempBytes > 0 {
		opts.MaxTempBytes = f.maxTempBytes
	}
	if f.workers > 0 {
		pool := workerpool.New(f.workers)
		defer pool.Close()
		opts.Pool = pool
	}

	as := nd.NewAssigner(opts)
	if err := as.AssignArray(dst, src, where, casting, f.preserveNA, nil); err != nil {
		return err
	}
	return printArray(cmd.OutOrStdout(), dst)
}

func buildDestination(f assignFlags) (*nd.Array, error) {
	dt, err := dtype.FromName(f.dstDtype)
	if err != nil {
		return nil, err
	}
	shape, err := parseShape(f.shape)
	if err != nil {
		return nil, err
	}
	dst := nd.New(dt, shape...)
	if f.dstNA {
		dst.AllocateNA(true)
	}

	switch f.fill {
	case "":
	case naToken:
		if !f.dstNA {
			return nil, fmt.Errorf("--fill %s requires --dst-na", naToken)
		}
		if err := nd.AssignNA(dst, nil, false, nil); err != nil {
			return nil, err
		}
	default:
		fill, err := buildArray(dt, nil, []string{f.fill})
		if err != nil {
			return nil, err
		}
		if err := nd.AssignArray(dst, fill, nil, dtype.UnsafeCasting, false, nil); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func buildSource(f assignFlags) (*nd.Array, error) {
	dt, err := dtype.FromName(f.srcDtype)
	if err != nil {
		return nil, err
	}
	tokens := splitList(f.src)
	shape, err := shapeOrFlat(f.srcShape, len(tokens))
	if err != nil {
		return nil, err
	}
	return buildArray(dt, shape, tokens)
}

func shapeOrFlat(s string, n int) ([]int, error) {
	if s == "" {
		return []int{n}, nil
	}
	return parseShape(s)
}

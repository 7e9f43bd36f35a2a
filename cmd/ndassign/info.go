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
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-ndassign/dtype"
	"github.com/ajroetker/go-ndassign/nd"
	"github.com/ajroetker/go-ndassign/transfer"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show dispatch level, default options and element types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := nd.DefaultOptions()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dispatch:       %s (%d bytes)\n", transfer.CurrentName(), transfer.CurrentWidth())
			fmt.Fprintf(out, "buffer size:    %d elements\n", opts.BufferSize)
			if opts.MaxTempBytes > 0 {
				fmt.Fprintf(out, "max temp bytes: %d\n", opts.MaxTempBytes)
			} else {
				fmt.Fprintf(out, "max temp bytes: unlimited\n")
			}
			names := lo.Map(dtype.Builtins(), func(d *dtype.DType, _ int) string { return d.String() })
			fmt.Fprintf(out, "dtypes:         %s, S<n>\n", strings.Join(names, ", "))
			return nil
		},
	}
}

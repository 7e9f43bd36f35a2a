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
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajroetker/go-ndassign/nd"
)

var verbose bool

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ndassign",
		Short: "Broadcasting, casting assignment between N-dimensional arrays",
		Long: `ndassign builds small arrays from flag values, assigns one into the
other with the requested casting rule, where-mask and NA handling, and
prints the result.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = nd.Logger().Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log assignment decisions to stderr")

	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newAssignCommand())

	return rootCmd
}

func setupLogging(verbose bool) error {
	if !verbose {
		nd.SetLogger(nil)
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	nd.SetLogger(l.Named("nd"))
	return nil
}

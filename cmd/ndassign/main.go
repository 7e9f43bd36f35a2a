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

// Command ndassign exercises array assignment from the command line.
//
// Usage:
//
//	ndassign info
//	ndassign assign --shape 2,3 --src 1,2,3 --src-dtype int8 --dst-dtype int16
//	ndassign assign --shape 4 --dst-na --src 1,NA,3,4 --where 1,1,0,1
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Set via ldflags during release builds.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := Execute(ctx, version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

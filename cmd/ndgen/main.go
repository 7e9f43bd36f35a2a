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

// Command ndgen generates the cast kernel table of package transfer.
//
// Usage:
//
//	ndgen -output cast_table_gen.go
//
// Or via go:generate from the transfer package:
//
//	//go:generate go run ../cmd/ndgen -output cast_table_gen.go
//
// The table maps every (source kind, destination kind) pair of non-string
// element kinds to an instantiation of one of the generic kernels in
// transfer/kernels.go. String conversions are resolved separately.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"golang.org/x/tools/imports"
)

var (
	outputFile = flag.String("output", "cast_table_gen.go", "Output file")
	packageOut = flag.String("pkg", "transfer", "Output package name")
)

func main() {
	flag.Parse()

	src, err := generate(*packageOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputFile, src, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// class groups kinds that share a kernel family.
type class int

const (
	classNative class = iota
	classBool
	classF16
	classBF16
)

type kindInfo struct {
	constName string // dtype.Kind constant
	goType    string // Go element type used in instantiations
	class     class
}

// kinds is ordered like the dtype.Kind constants. Mask is stored as uint8.
var kinds = []kindInfo{
	{"KindBool", "bool", classBool},
	{"KindUint8", "uint8", classNative},
	{"KindUint16", "uint16", classNative},
	{"KindUint32", "uint32", classNative},
	{"KindUint64", "uint64", classNative},
	{"KindInt8", "int8", classNative},
	{"KindInt16", "int16", classNative},
	{"KindInt32", "int32", classNative},
	{"KindInt64", "int64", classNative},
	{"KindFloat16", "dtype.F16", classF16},
	{"KindBFloat16", "dtype.BF16", classBF16},
	{"KindFloat32", "float32", classNative},
	{"KindFloat64", "float64", classNative},
	{"KindMask", "uint8", classNative},
}

// kernelExpr returns the kernel expression converting s to d.
func kernelExpr(s, d kindInfo) string {
	switch s.class {
	case classBool:
		switch d.class {
		case classBool:
			return "copyBool"
		case classF16:
			return "boolToF16"
		case classBF16:
			return "boolToBF16"
		}
		return fmt.Sprintf("fromBool[%s]", d.goType)
	case classF16, classBF16:
		switch d.class {
		case classBool:
			return fmt.Sprintf("halfToBool[%s]", s.goType)
		case classF16:
			return fmt.Sprintf("halfToF16[%s]", s.goType)
		case classBF16:
			return fmt.Sprintf("halfToBF16[%s]", s.goType)
		}
		return fmt.Sprintf("fromHalf[%s, %s]", s.goType, d.goType)
	}
	switch d.class {
	case classBool:
		return fmt.Sprintf("toBool[%s]", s.goType)
	case classF16:
		return fmt.Sprintf("toF16[%s]", s.goType)
	case classBF16:
		return fmt.Sprintf("toBF16[%s]", s.goType)
	}
	return fmt.Sprintf("castNative[%s, %s]", s.goType, d.goType)
}

func generate(pkg string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by ndgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import \"github.com/ajroetker/go-ndassign/dtype\"\n\n")
	fmt.Fprintf(&buf, "// castTable holds the kernel for every non-string kind pair, indexed\n")
	fmt.Fprintf(&buf, "// [source][destination].\n")
	fmt.Fprintf(&buf, "var castTable = [dtype.NumKinds][dtype.NumKinds]kernel{\n")
	for _, s := range kinds {
		fmt.Fprintf(&buf, "\tdtype.%s: {\n", s.constName)
		for _, d := range kinds {
			fmt.Fprintf(&buf, "\t\tdtype.%s: %s,\n", d.constName, kernelExpr(s, d))
		}
		fmt.Fprintf(&buf, "\t},\n")
	}
	fmt.Fprintf(&buf, "}\n")

	out, err := imports.Process(*outputFile, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return out, nil
}

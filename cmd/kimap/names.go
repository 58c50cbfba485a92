// Copyright 2026 Blink Labs Software
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
	"os"

	"github.com/blinklabs-io/gokimap/label"
	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/spf13/pflag"
)

func runNamehash(f *globalFlags) {
	flagset := pflag.NewFlagSet("namehash", pflag.ExitOnError)
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) < 1 {
		fmt.Printf("ERROR: you must specify at least one name\n")
		os.Exit(1)
	}
	for _, name := range flagset.Args() {
		fmt.Printf("%s\t%s\n", namehash.String(name), name)
	}
}

func runValid(f *globalFlags) {
	var note bool
	var path bool
	flagset := pflag.NewFlagSet("valid", pflag.ExitOnError)
	flagset.BoolVar(&note, "note", false, "validate as a note label")
	flagset.BoolVar(&path, "path", false, "validate a full dotted path")
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) != 1 {
		fmt.Printf("ERROR: you must specify exactly one label\n")
		os.Exit(1)
	}
	input := flagset.Arg(0)
	var valid bool
	if path {
		valid = label.ValidPath(input)
	} else {
		valid = label.Valid(input, note)
	}
	fmt.Println(valid)
	if !valid {
		os.Exit(1)
	}
}

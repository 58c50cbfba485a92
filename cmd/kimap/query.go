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
	"context"
	"fmt"
	"log/slog"
	"os"

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/blinklabs-io/gokimap/internal/config"
	"github.com/spf13/pflag"
)

func dialKimap(cfg *config.Config, logger *slog.Logger) *kimap.Kimap {
	if cfg.RpcUrl == "" {
		fmt.Printf("ERROR: you must specify --rpc-url or rpcUrl in the config file\n")
		os.Exit(1)
	}
	deployment, err := cfg.KimapDeployment()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	k, err := kimap.Dial(
		context.Background(),
		cfg.RpcUrl,
		cfg.Timeout,
		kimap.WithDeployment(deployment),
		kimap.WithLogger(logger),
	)
	if err != nil {
		fmt.Printf("ERROR: failed to connect: %s\n", err)
		os.Exit(1)
	}
	return k
}

func runGet(f *globalFlags, cfg *config.Config, logger *slog.Logger) {
	flagset := pflag.NewFlagSet("get", pflag.ExitOnError)
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) != 1 {
		fmt.Printf("ERROR: you must specify a path\n")
		os.Exit(1)
	}
	k := dialKimap(cfg, logger)
	defer k.Close()
	entry, err := k.Get(context.Background(), flagset.Arg(0))
	if err != nil {
		fmt.Printf("ERROR: failure querying entry: %s\n", err)
		os.Exit(1)
	}
	printJson(entry)
}

func runGetHash(f *globalFlags, cfg *config.Config, logger *slog.Logger) {
	flagset := pflag.NewFlagSet("get-hash", pflag.ExitOnError)
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) != 1 {
		fmt.Printf("ERROR: you must specify a namehash\n")
		os.Exit(1)
	}
	k := dialKimap(cfg, logger)
	defer k.Close()
	entry, err := k.GetHash(context.Background(), flagset.Arg(0))
	if err != nil {
		fmt.Printf("ERROR: failure querying entry: %s\n", err)
		os.Exit(1)
	}
	printJson(entry)
}

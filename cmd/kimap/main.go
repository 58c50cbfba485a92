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

// kimap is a command-line client for the kimap namespace.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/blinklabs-io/gokimap/internal/config"
	"github.com/spf13/pflag"
)

type globalFlags struct {
	flagset    *pflag.FlagSet
	configFile string
	rpcUrl     string
	deployment string
	timeout    time.Duration
	debug      bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: pflag.NewFlagSet(os.Args[0], pflag.ExitOnError),
	}
	// Subcommand flags are parsed separately
	f.flagset.SetInterspersed(false)
	f.flagset.StringVar(
		&f.configFile,
		"config",
		"",
		"path to YAML config file",
	)
	f.flagset.StringVar(
		&f.rpcUrl,
		"rpc-url",
		"",
		"JSON-RPC endpoint of a chain node (overrides config)",
	)
	f.flagset.StringVar(
		&f.deployment,
		"deployment",
		"",
		"kimap deployment name (overrides config)",
	)
	f.flagset.DurationVar(
		&f.timeout,
		"timeout",
		0,
		"timeout for each chain call (overrides config)",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	logger := newLogger(f.debug)

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "namehash":
			runNamehash(f)
		case "valid":
			runValid(f)
		case "get":
			runGet(f, cfg, logger)
		case "get-hash":
			runGetHash(f, cfg, logger)
		case "filter":
			runFilter(f, cfg)
		case "full-name":
			runFullName(f, cfg, logger)
		case "decode-note":
			runDecodeNote(f, cfg, logger)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf("You must specify a subcommand (namehash, valid, get, get-hash, filter, full-name, decode-note)\n")
		os.Exit(1)
	}
}

func loadConfig(f *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.rpcUrl != "" {
		cfg.RpcUrl = f.rpcUrl
	}
	if f.deployment != "" {
		cfg.Deployment = f.deployment
	}
	if f.timeout != 0 {
		cfg.Timeout = f.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}

func printJson(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("ERROR: failed to encode output: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func parseSubcommandFlags(f *globalFlags, flagset *pflag.FlagSet) {
	if err := flagset.Parse(f.flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
}

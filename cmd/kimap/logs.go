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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/blinklabs-io/gokimap/internal/config"
	"github.com/blinklabs-io/gokimap/response"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/pflag"
)

// logInput is the subset of an eth_getLogs result needed for decoding
type logInput struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
}

func (l logInput) toLog() types.Log {
	return types.Log{
		Address:     l.Address,
		Topics:      l.Topics,
		Data:        l.Data,
		BlockNumber: uint64(l.BlockNumber),
	}
}

func readLog(path string) (types.Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Log{}, err
	}
	var input logInput
	if err := json.Unmarshal(data, &input); err != nil {
		return types.Log{}, fmt.Errorf("parse log %s: %w", path, err)
	}
	return input.toLog(), nil
}

func newDecoder(cfg *config.Config, logger *slog.Logger) *kimap.LogDecoder {
	return kimap.NewLogDecoder(
		kimap.NewMapResolver(cfg.Names...),
		kimap.WithResolveTimeout(cfg.Timeout),
		kimap.WithDecoderLogger(logger),
	)
}

func runFullName(f *globalFlags, cfg *config.Config, logger *slog.Logger) {
	flagset := pflag.NewFlagSet("full-name", pflag.ExitOnError)
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) != 1 {
		fmt.Printf("ERROR: you must specify a log file\n")
		os.Exit(1)
	}
	log, err := readLog(flagset.Arg(0))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	name, err := newDecoder(cfg, logger).ResolveFullName(context.Background(), log)
	if err != nil {
		fmt.Printf("ERROR: failed to resolve name: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(name)
}

func runDecodeNote(f *globalFlags, cfg *config.Config, logger *slog.Logger) {
	var outputCbor bool
	flagset := pflag.NewFlagSet("decode-note", pflag.ExitOnError)
	flagset.BoolVar(&outputCbor, "cbor", false, "write the note as a CBOR response message")
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) != 1 {
		fmt.Printf("ERROR: you must specify a log file\n")
		os.Exit(1)
	}
	log, err := readLog(flagset.Arg(0))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	note, err := newDecoder(cfg, logger).DecodeNoteLog(context.Background(), log)
	if err != nil {
		fmt.Printf("ERROR: failed to decode note: %s\n", err)
		os.Exit(1)
	}
	if !outputCbor {
		printJson(note)
		return
	}
	resp, err := response.NewResponse().
		WithMetadata(note.FullName()).
		WithIpcValue(note)
	if err != nil {
		fmt.Printf("ERROR: failed to encode note: %s\n", err)
		os.Exit(1)
	}
	if err := resp.Send(response.NewWriterSender(os.Stdout)); err != nil {
		fmt.Printf("ERROR: failed to send response: %s\n", err)
		os.Exit(1)
	}
}

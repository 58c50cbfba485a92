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

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/blinklabs-io/gokimap/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/spf13/pflag"
)

// filterOutput is the JSON form of an eth_getLogs filter
type filterOutput struct {
	FromBlock uint64     `json:"fromBlock"`
	Address   []string   `json:"address"`
	Topics    [][]string `json:"topics"`
}

func runFilter(f *globalFlags, cfg *config.Config) {
	flagset := pflag.NewFlagSet("filter", pflag.ExitOnError)
	parseSubcommandFlags(f, flagset)
	if len(flagset.Args()) < 1 {
		fmt.Printf("ERROR: you must specify a filter type (mint, note, notes)\n")
		os.Exit(1)
	}
	deployment, err := cfg.KimapDeployment()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	// Building filters does not touch the chain
	k := kimap.New(nil, kimap.WithDeployment(deployment))
	var query ethereum.FilterQuery
	switch flagset.Arg(0) {
	case "mint":
		query = k.MintFilter()
	case "note":
		query = k.NoteFilter()
	case "notes":
		query = k.NotesFilter(flagset.Args()[1:])
	default:
		fmt.Printf("ERROR: unknown filter type: %s\n", flagset.Arg(0))
		os.Exit(1)
	}
	printJson(newFilterOutput(query, deployment.FirstBlock))
}

func newFilterOutput(query ethereum.FilterQuery, fromBlock uint64) filterOutput {
	ret := filterOutput{
		FromBlock: fromBlock,
		Topics:    make([][]string, 0, len(query.Topics)),
	}
	for _, address := range query.Addresses {
		ret.Address = append(ret.Address, address.Hex())
	}
	for _, topics := range query.Topics {
		tmpTopics := make([]string, 0, len(topics))
		for _, topic := range topics {
			tmpTopics = append(tmpTopics, topic.Hex())
		}
		ret.Topics = append(ret.Topics, tmpTopics)
	}
	return ret
}

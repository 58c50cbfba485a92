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

package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/gokimap/contract"
	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// NewMintLog builds a well-formed Mint log for a name minted under parentPath
func NewMintLog(parentPath string, name string, blockNumber uint64) types.Log {
	data, err := contract.PackMint(contract.MintData{Name: []byte(name)})
	if err != nil {
		panic(fmt.Sprintf("error packing mint data: %s", err))
	}
	return newLog(contract.MintTopic, parentPath, name, data, blockNumber)
}

// NewNoteLog builds a well-formed Note log for a note attached under parentPath
func NewNoteLog(parentPath string, note string, noteData []byte, blockNumber uint64) types.Log {
	data, err := contract.PackNote(contract.NoteData{Note: []byte(note), Data: noteData})
	if err != nil {
		panic(fmt.Sprintf("error packing note data: %s", err))
	}
	return newLog(contract.NoteTopic, parentPath, note, data, blockNumber)
}

func newLog(
	topic common.Hash,
	parentPath string,
	name string,
	data []byte,
	blockNumber uint64,
) types.Log {
	parentHash := namehash.Hash(parentPath)
	labelHash := namehash.LabelHash(name)
	entryHash := namehash.Keccak256(parentHash[:], labelHash[:])
	return types.Log{
		Address: common.HexToAddress("0x7290Aa297818d0b9660B2871Bb87f85a3f9B4559"),
		Topics: []common.Hash{
			topic,
			parentHash,
			entryHash,
			labelHash,
		},
		Data:        data,
		BlockNumber: blockNumber,
	}
}

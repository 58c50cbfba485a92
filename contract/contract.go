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

// Package contract describes the kimap contract ABI surface: the Mint and Note
// events and the get view function.
package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Names of the ABI entries used by kimap
const (
	// MintEventName is emitted when a new entry is minted under a parent
	MintEventName = "Mint"
	// NoteEventName is emitted when a note is set on an entry
	NoteEventName = "Note"
	// GetFunctionName is the view function returning an entry's account, owner and data
	GetFunctionName = "get"
)

// Canonical signatures, hashed to produce event topics and the get selector
const (
	// MintSignature is the canonical signature of the Mint event
	MintSignature = "Mint(bytes32,bytes32,bytes,bytes)"
	// NoteSignature is the canonical signature of the Note event
	NoteSignature = "Note(bytes32,bytes32,bytes,bytes,bytes)"
	// GetSignature is the canonical signature of the get function
	GetSignature = "get(bytes32)"
)

// Topic indexes shared by both event kinds
const (
	TopicIndexSignature = 0
	TopicIndexParent    = 1
	TopicIndexEntry     = 2
	TopicIndexLabel     = 3
)

const kimapAbiJson = `[
	{
		"type": "event",
		"name": "Mint",
		"anonymous": false,
		"inputs": [
			{"name": "parenthash", "type": "bytes32", "indexed": true},
			{"name": "childhash", "type": "bytes32", "indexed": true},
			{"name": "labelhash", "type": "bytes", "indexed": true},
			{"name": "name", "type": "bytes", "indexed": false}
		]
	},
	{
		"type": "event",
		"name": "Note",
		"anonymous": false,
		"inputs": [
			{"name": "parenthash", "type": "bytes32", "indexed": true},
			{"name": "notehash", "type": "bytes32", "indexed": true},
			{"name": "labelhash", "type": "bytes", "indexed": true},
			{"name": "note", "type": "bytes", "indexed": false},
			{"name": "data", "type": "bytes", "indexed": false}
		]
	},
	{
		"type": "function",
		"name": "get",
		"stateMutability": "view",
		"inputs": [
			{"name": "entryhash", "type": "bytes32"}
		],
		"outputs": [
			{"name": "tokenBoundAccount", "type": "address"},
			{"name": "tokenOwner", "type": "address"},
			{"name": "data", "type": "bytes"}
		]
	}
]`

var (
	// MintTopic is the event discriminator for Mint logs
	MintTopic = namehash.Keccak256([]byte(MintSignature))
	// NoteTopic is the event discriminator for Note logs
	NoteTopic = namehash.Keccak256([]byte(NoteSignature))
)

var kimapAbi abi.ABI

func init() {
	var err error
	kimapAbi, err = abi.JSON(strings.NewReader(kimapAbiJson))
	if err != nil {
		panic(fmt.Sprintf("unexpected error parsing kimap ABI: %s", err))
	}
}

// ABI returns the parsed kimap contract ABI
func ABI() abi.ABI {
	return kimapAbi
}

// MintData holds the non-indexed fields of a Mint event
type MintData struct {
	Name []byte
}

// NoteData holds the non-indexed fields of a Note event
type NoteData struct {
	Note []byte
	Data []byte
}

// GetResult holds the return values of the get view function
type GetResult struct {
	TokenBoundAccount common.Address
	TokenOwner        common.Address
	Data              []byte
}

// PackGet builds the calldata for get(entryhash)
func PackGet(entryhash common.Hash) ([]byte, error) {
	return kimapAbi.Pack(GetFunctionName, [common.HashLength]byte(entryhash))
}

// UnpackGet decodes the return data of get(entryhash)
func UnpackGet(data []byte) (*GetResult, error) {
	values, err := unpack(kimapAbi.Methods[GetFunctionName].Outputs, data)
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected number of return values: %d", len(values))
	}
	tba, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected type for tokenBoundAccount: %T", values[0])
	}
	owner, ok := values[1].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected type for tokenOwner: %T", values[1])
	}
	ret := &GetResult{
		TokenBoundAccount: tba,
		TokenOwner:        owner,
	}
	if ret.Data, err = bytesValue(values[2], "data"); err != nil {
		return nil, err
	}
	return ret, nil
}

// PackGetResult encodes return data for get(entryhash). It is the inverse of UnpackGet
// and is mostly useful for mock transports.
func PackGetResult(result GetResult) ([]byte, error) {
	data := result.Data
	if data == nil {
		data = []byte{}
	}
	return kimapAbi.Methods[GetFunctionName].Outputs.Pack(
		result.TokenBoundAccount,
		result.TokenOwner,
		data,
	)
}

// UnpackMint decodes the non-indexed payload of a Mint log
func UnpackMint(data []byte) (*MintData, error) {
	values, err := unpack(kimapAbi.Events[MintEventName].Inputs.NonIndexed(), data)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected number of Mint fields: %d", len(values))
	}
	name, err := bytesValue(values[0], "name")
	if err != nil {
		return nil, err
	}
	return &MintData{Name: name}, nil
}

// PackMint encodes the non-indexed payload of a Mint log
func PackMint(mint MintData) ([]byte, error) {
	return kimapAbi.Events[MintEventName].Inputs.NonIndexed().Pack(nonNil(mint.Name))
}

// UnpackNote decodes the non-indexed payload of a Note log
func UnpackNote(data []byte) (*NoteData, error) {
	values, err := unpack(kimapAbi.Events[NoteEventName].Inputs.NonIndexed(), data)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected number of Note fields: %d", len(values))
	}
	ret := &NoteData{}
	if ret.Note, err = bytesValue(values[0], "note"); err != nil {
		return nil, err
	}
	if ret.Data, err = bytesValue(values[1], "data"); err != nil {
		return nil, err
	}
	return ret, nil
}

// PackNote encodes the non-indexed payload of a Note log
func PackNote(note NoteData) ([]byte, error) {
	return kimapAbi.Events[NoteEventName].Inputs.NonIndexed().Pack(
		nonNil(note.Note),
		nonNil(note.Data),
	)
}

func unpack(args abi.Arguments, data []byte) (ret []any, err error) {
	// Convert decoder panics on malformed input into errors
	defer func() {
		if r := recover(); r != nil {
			ret = nil
			err = fmt.Errorf("abi decode panic: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("empty ABI payload")
	}
	return args.Unpack(data)
}

func bytesValue(value any, field string) ([]byte, error) {
	ret, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected type for %s: %T", field, value)
	}
	return ret, nil
}

func nonNil(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}

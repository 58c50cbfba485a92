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

// Package namehash derives kimap identifiers from dotted names.
//
// A namehash is built by hashing labels from the root outwards: starting from
// 32 zero bytes, each label folds into the accumulator as
// keccak256(accumulator ++ keccak256(label)). The result is order-sensitive,
// so "a.b" and "b.a" hash differently.
package namehash

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

const Size = common.HashLength

// Root is the namehash of the empty name, the kimap root
var Root = common.Hash{}

var ErrInvalidHash = errors.New("invalid namehash")

// Keccak256 generates a legacy Keccak-256 hash of the concatenated data
func Keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var ret common.Hash
	h.Sum(ret[:0])
	return ret
}

// LabelHash returns the Keccak-256 hash of a single label
func LabelHash(label string) common.Hash {
	return Keccak256([]byte(label))
}

// Hash returns the namehash for the given dotted name
func Hash(name string) common.Hash {
	node := Root
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := LabelHash(labels[i])
		node = Keccak256(node[:], labelHash[:])
	}
	return node
}

// String returns the namehash for the given dotted name as 0x-prefixed hex
func String(name string) string {
	return Hash(name).Hex()
}

// Parse decodes a hex namehash, with or without the 0x prefix. The input must
// decode to exactly Size bytes.
func Parse(hexHash string) (common.Hash, error) {
	tmpHex := strings.TrimPrefix(strings.TrimPrefix(hexHash, "0x"), "0X")
	if len(tmpHex) != Size*2 {
		return common.Hash{}, fmt.Errorf(
			"%w: expected %d hex characters, got %d",
			ErrInvalidHash,
			Size*2,
			len(tmpHex),
		)
	}
	hashBytes, err := hex.DecodeString(tmpHex)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	return common.BytesToHash(hashBytes), nil
}

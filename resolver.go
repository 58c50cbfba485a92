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

package kimap

import (
	"context"

	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/ethereum/go-ethereum/common"
)

// Resolver looks up the human-readable path previously recorded for a
// namehash, as of the given block. It returns false when the path is not known
// at that height. Implementations are typically backed by an external
// namespace index and must be safe for concurrent use.
type Resolver interface {
	GetName(ctx context.Context, hash common.Hash, atBlock *uint64) (string, bool)
}

// ResolverFunc allows an ordinary function to be used as a Resolver
type ResolverFunc func(ctx context.Context, hash common.Hash, atBlock *uint64) (string, bool)

func (f ResolverFunc) GetName(
	ctx context.Context,
	hash common.Hash,
	atBlock *uint64,
) (string, bool) {
	return f(ctx, hash, atBlock)
}

// MapResolver is a static Resolver keyed by namehash. It ignores the block
// height. The root always resolves to the empty path.
type MapResolver map[common.Hash]string

// NewMapResolver returns a MapResolver that knows the given paths
func NewMapResolver(paths ...string) MapResolver {
	m := make(MapResolver, len(paths))
	for _, path := range paths {
		m[namehash.Hash(path)] = path
	}
	return m
}

func (m MapResolver) GetName(
	_ context.Context,
	hash common.Hash,
	_ *uint64,
) (string, bool) {
	if hash == namehash.Root {
		return "", true
	}
	path, ok := m[hash]
	return path, ok
}

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

package test_chain

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Compile-time check that MockCaller implements ContractCaller
var _ ethereum.ContractCaller = (*MockCaller)(nil)

// MockCaller is the canonical transport mock used by tests. Configure Result
// and Err for a fixed response, or CallContractFunc for full control.
type MockCaller struct {
	Result           []byte
	Err              error
	CallContractFunc func(ethereum.CallMsg, *big.Int) ([]byte, error)

	mu    sync.Mutex
	calls []ethereum.CallMsg
}

func (m *MockCaller) CallContract(
	ctx context.Context,
	msg ethereum.CallMsg,
	blockNumber *big.Int,
) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, msg)
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.CallContractFunc != nil {
		return m.CallContractFunc(msg, blockNumber)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result == nil {
		return nil, errors.New("mock caller is not configured")
	}
	return m.Result, nil
}

// Calls returns the messages received so far
func (m *MockCaller) Calls() []ethereum.CallMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ethereum.CallMsg{}, m.calls...)
}

// ResolverCall records a single GetName invocation
type ResolverCall struct {
	Hash        common.Hash
	AtBlock     *uint64
	HasDeadline bool
}

// MockResolver is the canonical parent resolver mock used by tests. Names maps
// known paths by their namehash; GetNameFunc overrides lookup entirely.
type MockResolver struct {
	Names       map[common.Hash]string
	GetNameFunc func(context.Context, common.Hash, *uint64) (string, bool)

	mu    sync.Mutex
	calls []ResolverCall
}

// NewMockResolver returns a MockResolver that knows the given paths
func NewMockResolver(paths ...string) *MockResolver {
	m := &MockResolver{
		Names: make(map[common.Hash]string, len(paths)),
	}
	for _, path := range paths {
		m.Names[namehash.Hash(path)] = path
	}
	return m
}

func (m *MockResolver) GetName(
	ctx context.Context,
	hash common.Hash,
	atBlock *uint64,
) (string, bool) {
	_, hasDeadline := ctx.Deadline()
	m.mu.Lock()
	m.calls = append(m.calls, ResolverCall{Hash: hash, AtBlock: atBlock, HasDeadline: hasDeadline})
	m.mu.Unlock()
	if m.GetNameFunc != nil {
		return m.GetNameFunc(ctx, hash, atBlock)
	}
	name, ok := m.Names[hash]
	return name, ok
}

// Calls returns the lookups received so far
func (m *MockResolver) Calls() []ResolverCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResolverCall{}, m.calls...)
}

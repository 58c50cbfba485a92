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

// Package kimap implements read-only access to kimap, a hierarchical on-chain
// namespace.
//
// Names are dotted paths such as "~note.hello.os", with the most specific
// label first. The Kimap client performs point lookups against the kimap
// contract through any ethereum.ContractCaller and builds log filters for the
// Mint and Note events. LogDecoder turns those logs into resolved records,
// using an injected Resolver to look up parent paths by namehash.
//
// The namehash and label packages hold the pure naming rules and can be used
// on their own.
package kimap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/blinklabs-io/gokimap/contract"
	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/blinklabs-io/gokimap/provider"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kimap is a read-only client for a kimap contract deployment
type Kimap struct {
	caller     ethereum.ContractCaller
	deployment Deployment
	address    common.Address
	logger     *slog.Logger
	closer     io.Closer
}

// KimapOptionFunc is a type that represents functions that modify the Kimap config
type KimapOptionFunc func(*Kimap)

// Entry is a kimap entry as returned by the contract's get function
type Entry struct {
	TokenBoundAccount common.Address `json:"tokenBoundAccount"`
	Owner             common.Address `json:"owner"`
	// Data is nil when the entry holds no value
	Data hexutil.Bytes `json:"data,omitempty"`
}

// HasData reports whether the entry holds a value
func (e Entry) HasData() bool {
	return e.Data != nil
}

// New returns a Kimap client that issues calls through the given caller. The
// Optimism deployment is used unless overridden with WithDeployment or
// WithAddress
func New(caller ethereum.ContractCaller, opts ...KimapOptionFunc) *Kimap {
	k := newKimap(opts...)
	k.caller = caller
	return k
}

// Dial connects to the RPC endpoint and returns a Kimap client for the
// configured deployment. The remote chain ID must match the deployment's. The
// timeout applies to each call; zero means no timeout beyond the caller's
// context
func Dial(
	ctx context.Context,
	rpcUrl string,
	timeout time.Duration,
	opts ...KimapOptionFunc,
) (*Kimap, error) {
	k := newKimap(opts...)
	p, err := provider.Dial(
		ctx,
		rpcUrl,
		provider.WithChainId(k.deployment.ChainId),
		provider.WithTimeout(timeout),
		provider.WithLogger(k.logger),
	)
	if err != nil {
		return nil, err
	}
	k.caller = p
	k.closer = p
	return k, nil
}

func newKimap(opts ...KimapOptionFunc) *Kimap {
	k := &Kimap{
		deployment: DeploymentOptimism,
		address:    DeploymentOptimism.Address,
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return k
}

// WithDeployment specifies the deployment to use. This also sets the contract address
func WithDeployment(deployment Deployment) KimapOptionFunc {
	return func(k *Kimap) {
		k.deployment = deployment
		k.address = deployment.Address
	}
}

// WithAddress specifies the contract address, overriding the deployment's
func WithAddress(address common.Address) KimapOptionFunc {
	return func(k *Kimap) {
		k.address = address
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) KimapOptionFunc {
	return func(k *Kimap) {
		k.logger = logger
	}
}

// Close releases the connection opened by Dial. It is a no-op for clients
// created with New
func (k *Kimap) Close() error {
	if k.closer == nil {
		return nil
	}
	return k.closer.Close()
}

// Address returns the in-use kimap contract address
func (k *Kimap) Address() common.Address {
	return k.address
}

// Deployment returns the configured deployment
func (k *Kimap) Deployment() Deployment {
	return k.deployment
}

// Logger returns the client logger
func (k *Kimap) Logger() *slog.Logger {
	return k.logger
}

// Get returns the entry for a dotted path
func (k *Kimap) Get(ctx context.Context, path string) (*Entry, error) {
	k.logger.Debug(
		fmt.Sprintf("calling Get(path: %s)", path),
		"component", "kimap",
		"address", k.address.Hex(),
	)
	return k.GetEntry(ctx, namehash.Hash(path), nil)
}

// GetHash returns the entry for a hex-encoded namehash. ErrInvalidParams is
// returned without making a call if the hash is not exactly 32 bytes of hex
func (k *Kimap) GetHash(ctx context.Context, entryhash string) (*Entry, error) {
	k.logger.Debug(
		fmt.Sprintf("calling GetHash(entryhash: %s)", entryhash),
		"component", "kimap",
		"address", k.address.Hex(),
	)
	hash, err := namehash.Parse(entryhash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return k.GetEntry(ctx, hash, nil)
}

// GetEntry returns the entry for a namehash as of the given block. A nil
// blockNumber reads the latest state
func (k *Kimap) GetEntry(
	ctx context.Context,
	entryhash common.Hash,
	blockNumber *big.Int,
) (*Entry, error) {
	if k.caller == nil {
		return nil, errors.New("kimap client has no transport")
	}
	calldata, err := contract.PackGet(entryhash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	address := k.address
	msg := ethereum.CallMsg{
		To:   &address,
		Data: calldata,
	}
	resBytes, err := k.caller.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, err
	}
	res, err := contract.UnpackGet(resBytes)
	if err != nil {
		k.logger.Debug(
			"failed to decode get() response",
			"component", "kimap",
			"entryhash", entryhash.Hex(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrRpcMalformedResponse, err)
	}
	entry := &Entry{
		TokenBoundAccount: res.TokenBoundAccount,
		Owner:             res.TokenOwner,
	}
	if len(res.Data) > 0 {
		entry.Data = res.Data
	}
	return entry, nil
}

// MintFilter returns a filter for all Mint events
func (k *Kimap) MintFilter() ethereum.FilterQuery {
	return k.eventFilter(contract.MintTopic)
}

// NoteFilter returns a filter for all Note events
func (k *Kimap) NoteFilter() ethereum.FilterQuery {
	return k.eventFilter(contract.NoteTopic)
}

// NotesFilter returns a filter for Note events with the given note labels.
// The labels are hashed and used as the label hash topic. An empty list
// matches every note, the same as NoteFilter
func (k *Kimap) NotesFilter(labels []string) ethereum.FilterQuery {
	filter := k.NoteFilter()
	if len(labels) == 0 {
		return filter
	}
	labelHashes := make([]common.Hash, 0, len(labels))
	for _, l := range labels {
		labelHashes = append(labelHashes, namehash.LabelHash(l))
	}
	topics := make([][]common.Hash, contract.TopicIndexLabel+1)
	topics[contract.TopicIndexSignature] = filter.Topics[contract.TopicIndexSignature]
	topics[contract.TopicIndexLabel] = labelHashes
	filter.Topics = topics
	return filter
}

func (k *Kimap) eventFilter(topic common.Hash) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{k.address},
		Topics:    [][]common.Hash{{topic}},
	}
}
